package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/balancehq/practice-backend-go/internal/domain/audit"
	"github.com/balancehq/practice-backend-go/internal/domain/invitation"
	"github.com/balancehq/practice-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	GetByUUID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListAuditEntries(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

// Create implements InvitationHandler.
func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req invitation.CreateRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create invitation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Call service; validation runs on the entity so every failure comes back
	// in one verdict
	created, err := h.invitationService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create invitation service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invitation created successfully", invitation.NewInvitationResponse(created))
}

// List implements InvitationHandler.
func (h *invitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.invitationService.List(r.Context())
	if err != nil {
		slog.Error("List invitations service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, invitation.NewInvitationResponses(invitations))
}

// GetByID implements InvitationHandler.
func (h *invitationHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invitationID")
	if id == "" {
		response.BadRequest(w, "Invitation id is required", nil)
		return
	}

	inv, err := h.invitationService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, invitation.NewInvitationResponse(inv))
}

// GetByUUID implements InvitationHandler.
func (h *invitationHandlerImpl) GetByUUID(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if uuid == "" {
		response.BadRequest(w, "Invitation uuid is required", nil)
		return
	}

	inv, err := h.invitationService.GetByUUID(r.Context(), uuid)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, invitation.NewInvitationResponse(inv))
}

// Update implements InvitationHandler.
func (h *invitationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invitationID")
	if id == "" {
		response.BadRequest(w, "Invitation id is required", nil)
		return
	}

	var req invitation.UpdateRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update invitation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.invitationService.Update(r.Context(), id, req)
	if err != nil {
		slog.Error("Update invitation service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation updated successfully", invitation.NewInvitationResponse(updated))
}

// Delete implements InvitationHandler.
func (h *invitationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invitationID")
	if id == "" {
		response.BadRequest(w, "Invitation id is required", nil)
		return
	}

	if err := h.invitationService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete invitation service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation deleted successfully", nil)
}

// ListAuditEntries implements InvitationHandler.
func (h *invitationHandlerImpl) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invitationID")
	if id == "" {
		response.BadRequest(w, "Invitation id is required", nil)
		return
	}

	entries, err := h.invitationService.ListAuditEntries(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, audit.NewEntryResponses(entries))
}
