package http

import (
	"net/http"

	"rentalstore-backend/internal/service"
)

const msgUserNotFound = "The user with the given ID was not found."

type UserHandler struct {
	userSvc service.UserService
	authSvc service.AuthService
}

func NewUserHandler(userSvc service.UserService, authSvc service.AuthService) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc}
}

// Register creates an account and returns the auth token in the
// x-auth-token response header.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	user, token, err := h.userSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	w.Header().Set(headerAuthToken, token)
	writeJSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}
	user, err := h.userSvc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// Login answers with the bare token as the response body.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	token, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, msgUserNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(token))
}
