package server

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/internal/auth"
	"github.com/ajibade-k/budgetwise/internal/common"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]any{
		"id":            user.ID,
		"email":         user.Email,
		"fullName":      user.FullName,
		"monthlyIncome": user.MonthlyIncome,
		"emailVerified": user.EmailVerified,
	})
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// decimal accepts both "4200.50" and 4200.50 in the body
	var req struct {
		MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MonthlyIncome.LessThanOrEqual(decimal.Zero) {
		common.WriteError(w, http.StatusBadRequest, "Monthly income must be greater than zero")
		return
	}

	updated, err := s.users.UpdateIncome(r.Context(), user.ID, req.MonthlyIncome.Round(2))
	if err != nil {
		s.logger.Error("income update failed", "user_id", user.ID, "err", err)
		common.WriteError(w, common.StatusForError(err), "Failed to update income")
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]any{
		"message":       "Income updated successfully",
		"monthlyIncome": updated.MonthlyIncome,
	})
}
