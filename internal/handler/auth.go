package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/identity-service/internal/auth"
	"github.com/sakif/identity-service/internal/service"
)

// AuthHandler serves the login endpoint and the current-user lookup.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// HandleLogin authenticates a credential pair and returns a bearer token.
//
// HTTP: POST /auth/login
//
// A failed login is always the same 401, whether the identifier was
// unknown or the password wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		h.logger.Error("issuing token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// HandleMe returns the authenticated user's own record.
//
// HTTP: GET /auth/me  (behind auth.RequireAuth, which resolved the token
// and stored the user in the request context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "invalid authentication credentials",
		})
		return
	}
	writeJSON(w, http.StatusOK, user)
}
