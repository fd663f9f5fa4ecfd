package handlers

import (
	"net/http"
	"strconv"

	"procure/models"
)

// OwnerDashboardHandler возвращает проекты владельца со счетчиками RFQ
func (h *Handler) OwnerDashboardHandler(w http.ResponseWriter, r *http.Request) {
	b, ok := h.backend(w, r)
	if !ok {
		return
	}
	view, err := h.aggregator(b).OwnerDashboard(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// VendorDashboardHandler возвращает RFQ с отметкой о поданных предложениях
func (h *Handler) VendorDashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil || userID <= 0 {
		http.Error(w, "Missing or invalid userId parameter", http.StatusBadRequest)
		return
	}
	b, ok := h.backend(w, r)
	if !ok {
		return
	}
	view, err := h.aggregator(b).VendorDashboard(r.Context(), models.User{ID: userID, Role: models.RoleVendor})
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) ProjectOverviewHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	b, ok := h.backend(w, r)
	if !ok {
		return
	}
	view, err := h.aggregator(b).ProjectOverview(r.Context(), projectID)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) RfqDetailHandler(w http.ResponseWriter, r *http.Request) {
	rfqID, ok := pathID(w, r, "rfqId")
	if !ok {
		return
	}
	b, ok := h.backend(w, r)
	if !ok {
		return
	}
	view, err := h.aggregator(b).RfqDetail(r.Context(), rfqID)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
