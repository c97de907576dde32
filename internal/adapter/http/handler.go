package httpadapter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// Ingestor is the slice of the engine the synchronous endpoints call.
type Ingestor interface {
	IngestSpend(ctx context.Context, in port.SpendInput) (*port.SpendOutcome, error)
	AnnotateSpendRecord(ctx context.Context, id int64, description string) error
}

// Reader serves the read-only inspection endpoints.
type Reader interface {
	GetCampaign(ctx context.Context, id int64) (*port.CampaignView, error)
	ListSpendRecords(ctx context.Context, q port.RecordQuery) ([]domain.SpendRecord, error)
	GetSpendRecord(ctx context.Context, id int64) (*domain.SpendRecord, error)
}

// Trigger enqueues fire-and-forget job runs.
type Trigger interface {
	Trigger(name string) error
	JobNames() []string
}

// Handler is the inbound HTTP adapter: spend ingestion, manual job
// triggers and ledger/campaign inspection. Routes are registered on a
// chi.Router.
type Handler struct {
	svc    Ingestor
	store  Reader
	jobs   Trigger
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc Ingestor, store Reader, jobs Trigger, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, store: store, jobs: jobs, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/spend", h.handleIngestSpend)
		r.Post("/jobs/{job}", h.handleTriggerJob)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Get("/spend-records", h.handleListSpendRecords)
		r.Get("/spend-records/{id}", h.handleGetSpendRecord)
		r.Patch("/spend-records/{id}", h.handleAnnotateSpendRecord)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
