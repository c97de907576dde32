package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

type spendRequest struct {
	CampaignID  int64  `json:"campaign_id"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Actor       string `json:"actor"`
	ReferenceID string `json:"reference_id"`
	Description string `json:"description"`
}

type spendResponse struct {
	RecordID     int64 `json:"record_id"`
	DailySpend   int64 `json:"daily_spend"`
	MonthlySpend int64 `json:"monthly_spend"`
	Paused       bool  `json:"paused"`
}

// handleIngestSpend records one spend event synchronously. Validation
// failures produce HTTP 400, unknown campaigns 404 and row-lock conflicts
// 409; the caller is expected to retry conflicts with its own idempotency
// guarantee since the engine does not deduplicate.
func (h *Handler) handleIngestSpend(w http.ResponseWriter, r *http.Request) {
	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	out, err := h.svc.IngestSpend(r.Context(), port.SpendInput{
		CampaignID:  req.CampaignID,
		Amount:      req.AmountCents,
		Type:        domain.SpendType(req.Type),
		Source:      domain.SpendSource(req.Source),
		CreatedBy:   req.Actor,
		ReferenceID: req.ReferenceID,
		Description: req.Description,
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrUnknownSpendType),
		errors.Is(err, domain.ErrUnknownSpendSource):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, port.ErrCampaignNotFound):
		http.Error(w, "campaign not found", http.StatusNotFound)
		return
	case errors.Is(err, port.ErrConflict):
		http.Error(w, "campaign is busy, retry", http.StatusConflict)
		return
	default:
		h.logger.Error("ingest spend error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(spendResponse{
		RecordID:     out.Record.ID,
		DailySpend:   out.DailySpend,
		MonthlySpend: out.MonthlySpend,
		Paused:       out.Paused,
	}); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
