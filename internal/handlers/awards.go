package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"procure/db"
	"procure/internal/apiclient"
	"procure/internal/award"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: 5}
	q := r.URL.Query()
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 50 {
		params.Limit = l
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		params.Offset = o
	}
	return params
}

type awardRequest struct {
	QuoteID int  `json:"quoteId"`
	Confirm bool `json:"confirm"`
}

type stepFailure struct {
	Error  string       `json:"error"`
	RunID  string       `json:"runId"`
	Step   db.AwardStep `json:"step"`
	Resume string       `json:"resume"`
}

type runDetail struct {
	Run   *db.AwardRun   `json:"run"`
	Steps []db.AwardStep `json:"steps"`
}

// AwardHandler обрабатывает POST /api/rfqs/{rfqId}/award: RFQ присуждается,
// выигравшее предложение принимается, остальные отклоняются
func (h *Handler) AwardHandler(w http.ResponseWriter, r *http.Request) {
	rfqID, ok := pathID(w, r, "rfqId")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req awardRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if req.QuoteID <= 0 {
		http.Error(w, "quoteId must be positive", http.StatusBadRequest)
		return
	}
	if !req.Confirm {
		http.Error(w, award.ErrNotConfirmed.Error(), http.StatusBadRequest)
		return
	}

	b, owner, ok := h.caller(w, r)
	if !ok {
		return
	}
	quotes, err := b.ListQuotesByRfq(r.Context(), rfqID)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	res, err := h.orchestrator(b, owner).Award(r.Context(), award.Request{RfqID: rfqID, WinningQuoteID: req.QuoteID, Quotes: quotes}, award.Confirmed)
	h.writeAwardResult(w, res, err)
}

// ResumeAwardHandler повторяет незавершенные шаги присуждения
func (h *Handler) ResumeAwardHandler(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	if runID == "" {
		http.Error(w, "Invalid runId", http.StatusBadRequest)
		return
	}
	b, owner, ok := h.caller(w, r)
	if !ok {
		return
	}
	res, err := h.orchestrator(b, owner).Resume(r.Context(), runID)
	h.writeAwardResult(w, res, err)
}

func (h *Handler) writeAwardResult(w http.ResponseWriter, res *award.Result, err error) {
	var stepErr *award.StepError
	switch {
	case err == nil:
		if res.RefreshErr != nil {
			h.Logger.Warn("award refresh failed", zap.String("run_id", res.RunID), zap.Error(res.RefreshErr))
		}
		writeJSON(w, http.StatusOK, res)
	case errors.As(err, &stepErr):
		status := http.StatusBadGateway
		if errors.Is(stepErr.Err, apiclient.ErrSessionExpired) {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, stepFailure{
			Error:  stepErr.Error(),
			RunID:  stepErr.RunID,
			Step:   stepErr.Step,
			Resume: "/api/awards/" + stepErr.RunID + "/resume",
		})
	case errors.Is(err, award.ErrQuoteNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, award.ErrRunNotFound):
		http.Error(w, "Award run not found", http.StatusNotFound)
	case errors.Is(err, award.ErrNoJournal):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.writeUpstreamError(w, err)
	}
}

// GetAwardRunsHandler возвращает журнал присуждений вызывающего, новые сначала
func (h *Handler) GetAwardRunsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	_, owner, ok := h.caller(w, r)
	if !ok {
		return
	}
	if h.Store == nil {
		http.Error(w, award.ErrNoJournal.Error(), http.StatusServiceUnavailable)
		return
	}
	runs, err := h.Store.ListAwardRuns(r.Context(), owner, params.Limit, params.Offset)
	if err != nil {
		h.Logger.Error("list award runs", zap.Error(err))
		http.Error(w, "Failed to get award runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetAwardRunHandler возвращает один прогон со всеми шагами
func (h *Handler) GetAwardRunHandler(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	_, owner, ok := h.caller(w, r)
	if !ok {
		return
	}
	if h.Store == nil {
		http.Error(w, award.ErrNoJournal.Error(), http.StatusServiceUnavailable)
		return
	}
	// чужой прогон выглядит как отсутствующий
	run, err := h.Store.GetAwardRun(r.Context(), owner, runID)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Award run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("get award run", zap.String("run_id", runID), zap.Error(err))
		http.Error(w, "Failed to get award run", http.StatusInternalServerError)
		return
	}
	steps, err := h.Store.ListAwardSteps(r.Context(), runID)
	if err != nil {
		http.Error(w, "Failed to get award steps", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runDetail{Run: run, Steps: steps})
}
