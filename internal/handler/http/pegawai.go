package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PegawaiHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	FilterByRole(w http.ResponseWriter, r *http.Request)
}

type pegawaiHandlerImpl struct {
	pegawaiService user.PegawaiService
}

func NewPegawaiHandler(pegawaiService user.PegawaiService) PegawaiHandler {
	return &pegawaiHandlerImpl{pegawaiService: pegawaiService}
}

func (h *pegawaiHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.pegawaiService.List(r.Context())
	if err != nil {
		slog.Error("List pegawai service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

func (h *pegawaiHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.pegawaiService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

func (h *pegawaiHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create pegawai decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.pegawaiService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create pegawai service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "User created successfully", created)
}

func (h *pegawaiHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update pegawai decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.pegawaiService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Update pegawai service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User updated successfully", updated)
}

func (h *pegawaiHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pegawaiService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete pegawai service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deleted successfully", nil)
}

func (h *pegawaiHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.pegawaiService.Search(r.Context(), user.SearchRequest{Query: r.URL.Query().Get("q")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

func (h *pegawaiHandlerImpl) FilterByRole(w http.ResponseWriter, r *http.Request) {
	users, err := h.pegawaiService.FilterByRole(r.Context(), user.FilterByRoleRequest{Role: r.URL.Query().Get("role")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}
