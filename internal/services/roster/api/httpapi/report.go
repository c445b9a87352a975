package httpapi

import (
	"encoding/csv"
	"net/http"
)

// handleRosterReport streams the people listing as a CSV export for
// operations review.
func (h *Handler) handleRosterReport(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.ListPeople(r.Context())
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="roster.csv"`)

	writer := csv.NewWriter(w)
	records := [][]string{{"name", "currentRank", "currentDutyTitle", "careerStartDate", "careerEndDate"}}
	for _, row := range people {
		records = append(records, []string{
			row.Name,
			row.Rank,
			row.Title,
			formatDatePtr(row.CareerStart),
			formatDatePtr(row.CareerEnd),
		})
	}
	if err := writer.WriteAll(records); err != nil {
		h.logFailure(r, err)
	}
}
