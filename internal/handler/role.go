package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/service"
)

// RoleHandler serves the role CRUD endpoints. All of them sit behind the
// auth middleware: only authenticated users manage roles.
type RoleHandler struct {
	roles  *service.RoleService
	logger *slog.Logger
}

func NewRoleHandler(roles *service.RoleService, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, logger: logger}
}

type createRoleRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=255"`
}

type updateRoleRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

type roleResponse struct {
	Message string      `json:"message"`
	Role    *model.Role `json:"role"`
}

// HandleCreate creates a role.
//
// HTTP: POST /roles → 201, 400 on a duplicate name.
func (h *RoleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	role, err := h.roles.Create(r.Context(), service.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, roleResponse{Message: "role created", Role: role})
}

// HandleList lists roles.
//
// HTTP: GET /roles?offset=0&limit=100
func (h *RoleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := listParams(r)
	roles, err := h.roles.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if roles == nil {
		roles = []model.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

// HandleGetByID returns a single role.
//
// HTTP: GET /roles/{id} → 200 or 404.
func (h *RoleHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	role, err := h.roles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// HandleUpdate partially updates a role.
//
// HTTP: PATCH /roles/{id}
func (h *RoleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, err := h.roles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateRoleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.roles.Update(r.Context(), existing, service.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete hard-deletes a role. Users referencing it lose the
// assignment rather than blocking the delete.
//
// HTTP: DELETE /roles/{id} → 204 or 404.
func (h *RoleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.roles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
