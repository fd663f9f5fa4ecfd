package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"procure/internal/apiclient"
	"procure/internal/award"
	"procure/internal/dashboard"
	"procure/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler обслуживает шлюз поверх внешнего API закупок
type Handler struct {
	Store   StorageInterface
	Backend BackendFactory
	Logger  *zap.Logger
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, backend BackendFactory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: store, Backend: backend, Logger: logger}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// backend returns the upstream API bound to the caller's token, or writes
// 401 when the request carries none.
func (h *Handler) backend(w http.ResponseWriter, r *http.Request) (Backend, bool) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, apiclient.ErrAuthRequired.Error(), http.StatusUnauthorized)
		return nil, false
	}
	return h.Backend(token), true
}

// caller resolves the upstream API and the journal owner of the request.
// A user id read from a JWT counts only after the API has accepted the
// token for that user; any other token owns its runs by digest.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (Backend, string, bool) {
	b, ok := h.backend(w, r)
	if !ok {
		return nil, "", false
	}
	token := bearerToken(r)
	userID, ok := session.TokenUserID(token)
	if !ok {
		sum := sha256.Sum256([]byte(token))
		return b, "token:" + hex.EncodeToString(sum[:]), true
	}
	if _, err := b.GetUser(r.Context(), userID); err != nil {
		h.writeUpstreamError(w, err)
		return nil, "", false
	}
	return b, award.UserOwner(userID), true
}

func (h *Handler) aggregator(b Backend) *dashboard.Aggregator {
	return dashboard.New(b, h.Logger)
}

func (h *Handler) orchestrator(b Backend, owner string) *award.Orchestrator {
	var journal award.Journal
	if h.Store != nil {
		journal = h.Store
	}
	return award.New(b, journal, award.WithLogger(h.Logger)).ForOwner(owner)
}

// pathID парсит положительный числовой параметр пути
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeUpstreamError maps a client-side or upstream failure to a status.
// Upstream 401 stays 401 so the caller tears down its own session.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	var (
		vErr   *apiclient.ValidationError
		apiErr *apiclient.APIError
		netErr *apiclient.NetworkError
	)
	switch {
	case errors.Is(err, apiclient.ErrAuthRequired), errors.Is(err, apiclient.ErrSessionExpired):
		http.Error(w, apiclient.ErrSessionExpired.Error(), http.StatusUnauthorized)
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status >= 500 {
			status = http.StatusBadGateway
		}
		http.Error(w, apiErr.Message, status)
	case errors.As(err, &netErr):
		h.Logger.Warn("upstream unreachable", zap.Error(err))
		http.Error(w, "Upstream unavailable", http.StatusBadGateway)
	default:
		h.Logger.Error("gateway request failed", zap.Error(err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
