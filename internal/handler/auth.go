package handler

import (
	"errors"
	"net/http"

	"github.com/templui/myprogress/internal/ctxkeys"
	"github.com/templui/myprogress/internal/response"
	"github.com/templui/myprogress/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "Failed to register")
		return
	}

	writeSession(w, http.StatusCreated, "Account created", session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		response.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeError(w, r, err, "Failed to log in")
		return
	}

	writeSession(w, http.StatusOK, "Logged in", session)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Envelope{
		Success: true,
		User:    ctxkeys.User(r.Context()),
	})
}

func writeSession(w http.ResponseWriter, status int, message string, session *service.Session) {
	response.JSON(w, status, response.Envelope{
		Success: true,
		Message: message,
		Token:   session.Token,
		User:    session.User,
	})
}
