package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adledger/internal/core/port"
)

type campaignResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Brand            string     `json:"brand"`
	DailySpend       int64      `json:"daily_spend"`
	MonthlySpend     int64      `json:"monthly_spend"`
	DailyBudget      int64      `json:"daily_budget"`
	MonthlyBudget    int64      `json:"monthly_budget"`
	IsActive         bool       `json:"is_active"`
	LastDailyReset   *time.Time `json:"last_daily_reset,omitempty"`
	LastMonthlyReset *time.Time `json:"last_monthly_reset,omitempty"`
	LastBudgetCheck  *time.Time `json:"last_budget_check,omitempty"`
}

// handleGetCampaign returns a campaign's counters and flags next to its
// brand budgets, for operator inspection.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	v, err := h.store.GetCampaign(r.Context(), id)
	if errors.Is(err, port.ErrCampaignNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("get campaign error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(campaignResponse{
		ID:               v.Campaign.ID,
		Name:             v.Campaign.Name,
		Brand:            v.Brand.Name,
		DailySpend:       v.Campaign.DailySpend,
		MonthlySpend:     v.Campaign.MonthlySpend,
		DailyBudget:      v.Brand.DailyBudget,
		MonthlyBudget:    v.Brand.MonthlyBudget,
		IsActive:         v.Campaign.IsActive,
		LastDailyReset:   v.Campaign.LastDailyReset,
		LastMonthlyReset: v.Campaign.LastMonthlyReset,
		LastBudgetCheck:  v.Campaign.LastBudgetCheck,
	}); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
