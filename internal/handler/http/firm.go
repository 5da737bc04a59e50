package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/balancehq/practice-backend-go/internal/domain/firm"
	"github.com/balancehq/practice-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FirmHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	AddAccountant(w http.ResponseWriter, r *http.Request)
	ListAccountants(w http.ResponseWriter, r *http.Request)
}

type FirmHandlerImpl struct {
	firmService firm.FirmService
}

func NewFirmHandler(firmService firm.FirmService) FirmHandler {
	return &FirmHandlerImpl{
		firmService: firmService,
	}
}

// Create implements FirmHandler.
func (h *FirmHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req firm.CreateFirmRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create firm decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := req.Validate(); err != nil {
		slog.Error("Create firm validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	created, err := h.firmService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create firm service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Firm created successfully", firm.NewFirmResponse(created))
}

// GetByID implements FirmHandler.
func (h *FirmHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "firmID")
	if id == "" {
		response.BadRequest(w, "Firm id is required", nil)
		return
	}

	firmResp, err := h.firmService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, firmResp)
}

// Update implements FirmHandler.
func (h *FirmHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "firmID")
	if id == "" {
		response.BadRequest(w, "Firm id is required", nil)
		return
	}

	var req firm.UpdateFirmRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update firm decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := req.Validate(); err != nil {
		slog.Error("Update firm validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	if err := h.firmService.Update(r.Context(), id, req); err != nil {
		slog.Error("Update firm service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Firm updated successfully", nil)
}

// AddAccountant implements FirmHandler.
func (h *FirmHandlerImpl) AddAccountant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "firmID")
	if id == "" {
		response.BadRequest(w, "Firm id is required", nil)
		return
	}

	var req firm.AddAccountantRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Add accountant decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := req.Validate(); err != nil {
		slog.Error("Add accountant validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	created, err := h.firmService.AddAccountant(r.Context(), id, req)
	if err != nil {
		slog.Error("Add accountant service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Accountant added successfully", firm.NewAccountantResponse(created))
}

// ListAccountants implements FirmHandler.
func (h *FirmHandlerImpl) ListAccountants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "firmID")
	if id == "" {
		response.BadRequest(w, "Firm id is required", nil)
		return
	}

	accountants, err := h.firmService.ListAccountants(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, firm.NewAccountantResponses(accountants))
}
