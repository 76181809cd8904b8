package employeehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/offboarding"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type checklistRequest struct {
	Checklist map[string]string `json:"checklist"`
}

type itemStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleCreateOffboarding(w http.ResponseWriter, r *http.Request) {
	var payload offboarding.Request
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	off, err := h.Offboarding.Create(r.Context(), employeeID, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "offboarding.create", "offboarding", off.ID, nil, off)
	api.Created(w, off, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetOffboarding(w http.ResponseWriter, r *http.Request) {
	off, err := h.Offboarding.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, off, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReplaceChecklist(w http.ResponseWriter, r *http.Request) {
	var payload checklistRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	items, err := h.Offboarding.ReplaceChecklist(r.Context(), employeeID, payload.Checklist)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "offboarding.checklist.replace", "employee", employeeID, nil, items)
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetChecklistItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Offboarding.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateChecklistItem(w http.ResponseWriter, r *http.Request) {
	var payload itemStatusRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	itemID := chi.URLParam(r, "itemID")
	item, err := h.Offboarding.UpdateItem(r.Context(), itemID, payload.Status)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "offboarding.checklist.update", "checklist_item", item.ID, nil, item)
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}
