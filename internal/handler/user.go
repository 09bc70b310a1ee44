package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/service"
)

// UserHandler serves the user CRUD endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type createUserRequest struct {
	Name     string  `json:"name"     validate:"required,max=255"`
	Username string  `json:"username" validate:"required,max=150"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	CPF      string  `json:"cpf"      validate:"required,max=32"`
	Birthday string  `json:"birthday" validate:"required"`
	RoleID   *string `json:"roleId"   validate:"omitempty,uuid4"`
}

type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=255"`
	Username *string `json:"username" validate:"omitempty,min=1,max=150"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	CPF      *string `json:"cpf"      validate:"omitempty,max=32"`
	Birthday *string `json:"birthday"`
	RoleID   *string `json:"roleId"`
}

type userResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// HandleCreate creates a user.
//
// HTTP: POST /users → 201 with the created record, 400 on any domain-rule
// violation (invalid cpf, duplicate field, role not found).
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		CPF:      req.CPF,
		Birthday: birthday,
		RoleID:   req.RoleID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{Message: "user created", User: user})
}

// HandleList lists users.
//
// HTTP: GET /users?offset=0&limit=100
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := listParams(r)
	users, err := h.users.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetByID returns a single user.
//
// HTTP: GET /users/{id} → 200 or 404.
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate partially updates a user.
//
// HTTP: PATCH /users/{id} → 200 with the (possibly unchanged) record.
// Providing cpf always fails: the field is immutable.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := service.UpdateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		CPF:      req.CPF,
		RoleID:   req.RoleID,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Birthday = &birthday
	}

	updated, err := h.users.Update(r.Context(), existing, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete hard-deletes a user.
//
// HTTP: DELETE /users/{id} → 204 or 404.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
