// Package httpapi exposes the roster service as a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	apperrors "github.com/astrocorps/stargate/internal/platform/errors"
	"github.com/astrocorps/stargate/internal/services/roster/domain"
	"github.com/astrocorps/stargate/internal/services/roster/domain/duty"
	"github.com/astrocorps/stargate/internal/services/roster/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/astrocorps/stargate/internal/services/roster/api/httpapi")

// Handler routes roster HTTP requests to the domain service.
type Handler struct {
	service *domain.Service
	audit   storage.AuditEventStore
	mux     *http.ServeMux
}

// New wires the roster routes into a handler. The audit store may be nil,
// in which case the audit listing endpoint reports not found.
func New(service *domain.Service, auditStore storage.AuditEventStore) *Handler {
	h := &Handler{
		service: service,
		audit:   auditStore,
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	h.mux.HandleFunc("POST /v1/people", h.handleCreatePerson)
	h.mux.HandleFunc("GET /v1/people", h.handleListPeople)
	h.mux.HandleFunc("GET /v1/people/{name}", h.handleGetPerson)
	h.mux.HandleFunc("PUT /v1/people/{name}", h.handleRenamePerson)
	h.mux.HandleFunc("GET /v1/people/{name}/duties", h.handleListDuties)
	h.mux.HandleFunc("GET /v1/people/{name}/duties/open", h.handleGetOpenDuty)
	h.mux.HandleFunc("POST /v1/duties", h.handleAssignDuty)
	h.mux.HandleFunc("GET /v1/audit", h.handleListAudit)
	h.mux.HandleFunc("GET /v1/reports/roster.csv", h.handleRosterReport)

	return h
}

// ServeHTTP traces the request and dispatches it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", r.Method),
		attribute.String("url.path", r.URL.Path),
	)
	h.mux.ServeHTTP(w, r.WithContext(ctx))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type personView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CurrentRank     string `json:"currentRank,omitempty"`
	CurrentTitle    string `json:"currentDutyTitle,omitempty"`
	CareerStartDate string `json:"careerStartDate,omitempty"`
	CareerEndDate   string `json:"careerEndDate,omitempty"`
}

func personAstronautView(row storage.PersonAstronaut) personView {
	return personView{
		ID:              row.PersonID,
		Name:            row.Name,
		CurrentRank:     row.Rank,
		CurrentTitle:    row.Title,
		CareerStartDate: formatDatePtr(row.CareerStart),
		CareerEndDate:   formatDatePtr(row.CareerEnd),
	}
}

type createPersonRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.CreatePerson(r.Context(), req.Name)
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, personView{ID: created.ID, Name: created.Name})
}

func (h *Handler) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.ListPeople(r.Context())
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}

	views := make([]personView, 0, len(people))
	for _, row := range people {
		views = append(views, personAstronautView(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": views})
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	row, found, err := h.service.GetPerson(r.Context(), name)
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, personNotFound(name))
		return
	}
	writeJSON(w, http.StatusOK, personAstronautView(row))
}

type renamePersonRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleRenamePerson(w http.ResponseWriter, r *http.Request) {
	var req renamePersonRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	renamed, err := h.service.RenamePerson(r.Context(), r.PathValue("name"), req.Name)
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, personView{ID: renamed.ID, Name: renamed.Name})
}

type dutyView struct {
	ID            string `json:"id"`
	Rank          string `json:"rank"`
	DutyTitle     string `json:"dutyTitle"`
	Status        string `json:"status"`
	DutyStartDate string `json:"dutyStartDate"`
	DutyEndDate   string `json:"dutyEndDate,omitempty"`
}

func newDutyView(d duty.Duty) dutyView {
	return dutyView{
		ID:            d.ID,
		Rank:          d.Rank,
		DutyTitle:     d.Title,
		Status:        string(d.Status),
		DutyStartDate: formatDate(d.Start),
		DutyEndDate:   formatDatePtr(d.End),
	}
}

func (h *Handler) handleListDuties(w http.ResponseWriter, r *http.Request) {
	row, duties, err := h.service.ListDuties(r.Context(), r.PathValue("name"))
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}

	views := make([]dutyView, 0, len(duties))
	for _, d := range duties {
		views = append(views, newDutyView(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"person": personAstronautView(row),
		"duties": views,
	})
}

func (h *Handler) handleGetOpenDuty(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	open, found, err := h.service.GetOpenDuty(r.Context(), name)
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("person %q has no open duty", name),
			map[string]string{"name": name}))
		return
	}
	writeJSON(w, http.StatusOK, newDutyView(open))
}

type assignDutyRequest struct {
	Name          string `json:"name"`
	Rank          string `json:"rank"`
	DutyTitle     string `json:"dutyTitle"`
	Status        string `json:"status"`
	DutyStartDate string `json:"dutyStartDate"`
}

func (h *Handler) handleAssignDuty(w http.ResponseWriter, r *http.Request) {
	var req assignDutyRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	start, err := parseDate(req.DutyStartDate)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeDutyStartDateMissing, err.Error(), err))
		return
	}
	status, err := duty.ParseStatus(req.Status)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeDutyInvalidStatus, err.Error(), err))
		return
	}

	created, err := h.service.AssignDuty(r.Context(), duty.Assignment{
		Name:   req.Name,
		Rank:   req.Rank,
		Title:  req.DutyTitle,
		Status: status,
		Start:  start,
	})
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDutyView(created))
}

type auditView struct {
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Details    string `json:"details"`
	Actor      string `json:"actor"`
	Level      string `json:"level"`
	Timestamp  string `json:"timestamp"`
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("invalid limit %q", raw)))
			return
		}
		limit = parsed
	}

	events, err := h.audit.ListAuditEvents(r.Context(), limit)
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}

	views := make([]auditView, 0, len(events))
	for _, evt := range events {
		views = append(views, auditView{
			Action:     evt.Action,
			EntityType: evt.EntityType,
			EntityID:   evt.EntityID,
			Details:    evt.Details,
			Actor:      evt.Actor,
			Level:      evt.Level,
			Timestamp:  evt.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": views})
}

func (h *Handler) logFailure(r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
}

func personNotFound(name string) error {
	return apperrors.WithMetadata(apperrors.CodePersonNotFound,
		fmt.Sprintf("person %q not found", name),
		map[string]string{"name": name})
}

// decodeBody reads one JSON object and rejects trailing garbage.
func decodeBody(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dest); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err)
	}
	if decoder.More() {
		return apperrors.New(apperrors.CodeInvalidArgument, "invalid request body")
	}
	return nil
}

var _ http.Handler = (*Handler)(nil)
