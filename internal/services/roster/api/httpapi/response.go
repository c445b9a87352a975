package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/astrocorps/stargate/internal/platform/errors"
)

const dateLayout = "2006-01-02"

type errorBody struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeError maps a typed error to its transport status. Errors without a
// known code fall through as internal.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	kind := code.Kind()
	message := err.Error()
	if kind == apperrors.KindInternal {
		// Internal details stay in the log, not the response body.
		message = "internal error"
	}
	writeJSON(w, kind.HTTPStatus(), errorResponse{Error: errorBody{
		Code:    string(code),
		Kind:    string(kind),
		Message: message,
	}})
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// parseDate accepts a bare date or a full RFC 3339 timestamp; either way
// the engine truncates to day granularity.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want %s or RFC 3339", value, dateLayout)
	}
	return t, nil
}
