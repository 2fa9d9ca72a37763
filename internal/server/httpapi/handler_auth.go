package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type confirmResetRequest struct {
	ResetToken      string `json:"resetToken"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type permissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.auth.Signup(r.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleSignout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: s.auth.Signout(r.Context())})
}

// handleMe answers null when the request carries no valid session.
func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleUpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var req permissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.UpdatePermissions(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Permissions)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := s.auth.RequestReset(r.Context(), req.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (s *HTTPServer) handleConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := s.auth.ConfirmReset(r.Context(), req.ResetToken, req.Password, req.ConfirmPassword)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}
