package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shipquery/internal/model"
	"shipquery/internal/session"
	"shipquery/internal/translate"
)

// Handler carries the session every request runs against.
type Handler struct {
	Session *session.Session
	Timeout time.Duration
}

// askRequest is the payload for POST /api/v1/questions.
type askRequest struct {
	Question  string `json:"question"`
	DateField string `json:"date_field,omitempty"`
	CostField string `json:"cost_field,omitempty"`
}

// UploadDataset ingests an uploaded tabular file
// @Summary Upload shipment data
// @Description Upload a CSV or Excel file; every row is inserted into the configured collection
// @Tags datasets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Tabular shipment file (.csv, .xlsx)"
// @Success 200 {object} ingest.Summary "Ingest summary"
// @Failure 400 {object} map[string]interface{} "No file in request"
// @Failure 422 {object} map[string]interface{} "File contained no rows"
// @Failure 502 {object} map[string]interface{} "Store unreachable"
// @Router /datasets [post]
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctx, cancel := h.actionContext(r)
	defer cancel()

	summary, err := h.Session.Ingest(ctx, file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, summary)
}

// AskQuestion translates and executes a plain-English question
// @Summary Ask a question
// @Description Translate a question into a query plan, run it and render the result
// @Tags questions
// @Accept json
// @Produce json
// @Param question body askRequest true "Question plus optional field overrides"
// @Success 200 {object} session.Answer "Plan, raw result and rendered output"
// @Failure 400 {object} map[string]interface{} "Invalid payload"
// @Failure 502 {object} map[string]interface{} "Store unreachable"
// @Router /questions [post]
func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "Field 'question' is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := h.actionContext(r)
	defer cancel()

	answer, err := h.Session.Ask(ctx, req.Question, translate.Overrides{
		DateField: req.DateField,
		CostField: req.CostField,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, answer)
}

// ListFields returns the known fields of the target collection
// @Summary List known fields
// @Description Field names and inferred roles discovered from the most recent dataset
// @Tags datasets
// @Produce json
// @Success 200 {object} map[string]interface{} "Known fields"
// @Router /fields [get]
func (h *Handler) ListFields(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.actionContext(r)
	defer cancel()

	fields, err := h.Session.KnownFields(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"fields": fields,
		"count":  len(fields),
	})
}

// GetHistory returns recently asked questions
// @Summary Question history
// @Description Most recent questions with their translated plans, newest first
// @Tags questions
// @Produce json
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {object} map[string]interface{} "History entries"
// @Router /history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.Session.History == nil {
		writeJSON(w, map[string]interface{}{"entries": []interface{}{}, "count": 0})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.Session.History.ListQuestions(limit)
	if err != nil {
		http.Error(w, "Failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *Handler) actionContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrConnection):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, model.ErrEmptyFile):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
