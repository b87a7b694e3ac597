package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ajibade-k/budgetwise/internal/auth"
	"github.com/ajibade-k/budgetwise/internal/common"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.authSvc.Signup(r.Context(), req)
	if err != nil {
		s.logger.Error("signup failed", "email", req.Email, "err", err)
		common.WriteError(w, common.StatusForError(err), userMessage(err, "Signup failed"))
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Account created successfully. Please check your email for verification.",
		"userId":  user.ID,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.authSvc.Login(r.Context(), req)
	if err != nil {
		s.logger.Warn("login failed", "email", req.Email, "err", err)
		common.WriteError(w, common.StatusForError(err), userMessage(err, "Login failed"))
		return
	}

	common.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.authSvc.VerifyEmail(r.Context(), req.Token); err != nil {
		common.WriteError(w, common.StatusForError(err), userMessage(err, "Verification failed"))
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// userMessage strips the sentinel prefix off taxonomy errors so the client
// sees "user already exists with this email" rather than wrapped chains, and
// hides anything that is not client-safe.
func userMessage(err error, fallback string) string {
	for _, sentinel := range []error{
		common.ErrInvalidInput,
		common.ErrUnauthorized,
		common.ErrForbidden,
		common.ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			msg := err.Error()
			prefix := sentinel.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return fallback
}
