package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

type recordResponse struct {
	ID            int64     `json:"id"`
	CampaignID    int64     `json:"campaign_id"`
	AmountCents   int64     `json:"amount_cents"`
	Type          string    `json:"type"`
	Source        string    `json:"source"`
	Actor         string    `json:"actor,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	DailyBefore   int64     `json:"daily_before"`
	DailyAfter    int64     `json:"daily_after"`
	MonthlyBefore int64     `json:"monthly_before"`
	MonthlyAfter  int64     `json:"monthly_after"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toRecordResponse(rec domain.SpendRecord) recordResponse {
	return recordResponse{
		ID:            rec.ID,
		CampaignID:    rec.CampaignID,
		AmountCents:   rec.Amount,
		Type:          string(rec.Type),
		Source:        string(rec.Source),
		Actor:         rec.CreatedBy,
		ReferenceID:   rec.ReferenceID,
		DailyBefore:   rec.DailyBefore,
		DailyAfter:    rec.DailyAfter,
		MonthlyBefore: rec.MonthlyBefore,
		MonthlyAfter:  rec.MonthlyAfter,
		Description:   rec.Description,
		CreatedAt:     rec.CreatedAt,
	}
}

// handleListSpendRecords returns ledger entries, newest first. It accepts
// optional `campaign_id`, `from`, `to` (RFC3339) and `limit` query
// parameters; the period defaults to the last 24 hours.
func (h *Handler) handleListSpendRecords(w http.ResponseWriter, r *http.Request) {
	var (
		q   = r.URL.Query()
		req port.RecordQuery
		err error
	)

	if fromStr := q.Get("from"); fromStr != "" {
		req.From, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "invalid 'from' timestamp", http.StatusBadRequest)
			return
		}
	} else {
		req.From = time.Now().Add(-24 * time.Hour)
	}
	if toStr := q.Get("to"); toStr != "" {
		req.To, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "invalid 'to' timestamp", http.StatusBadRequest)
			return
		}
	} else {
		req.To = time.Now()
	}
	if cid := q.Get("campaign_id"); cid != "" {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			http.Error(w, "invalid campaign_id", http.StatusBadRequest)
			return
		}
		req.CampaignID = &id
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		req.Limit, err = strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	recs, err := h.store.ListSpendRecords(r.Context(), req)
	if err != nil {
		h.logger.Error("list spend records error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toRecordResponse(rec))
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// handleGetSpendRecord returns one ledger entry.
func (h *Handler) handleGetSpendRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}
	rec, err := h.store.GetSpendRecord(r.Context(), id)
	if errors.Is(err, port.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("get spend record error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(toRecordResponse(*rec)); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// handleAnnotateSpendRecord updates a ledger entry's description. Spend
// records are sealed at creation; a body naming any other field is
// rejected with 409 rather than silently ignored.
func (h *Handler) handleAnnotateSpendRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	var fields map[string]json.RawMessage
	if err = json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	for name := range fields {
		if name != "description" {
			http.Error(w, domain.ErrImmutableRecord.Error(), http.StatusConflict)
			return
		}
	}
	raw, ok := fields["description"]
	if !ok {
		http.Error(w, "missing description", http.StatusBadRequest)
		return
	}
	var description string
	if err = json.Unmarshal(raw, &description); err != nil {
		http.Error(w, "description must be a string", http.StatusBadRequest)
		return
	}

	err = h.svc.AnnotateSpendRecord(r.Context(), id, description)
	if errors.Is(err, port.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("annotate spend record error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
