package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"adledger/internal/scheduler"
)

// handleTriggerJob enqueues one run of the named job and returns
// immediately with an acknowledgment. The run's outcome is observable only
// through the metrics/log stream.
func (h *Handler) handleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "job")
	if err := h.jobs.Trigger(name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			msg := fmt.Sprintf("unknown job %q, expected one of: %s", name, strings.Join(h.jobs.JobNames(), ", "))
			http.Error(w, msg, http.StatusNotFound)
			return
		}
		h.logger.Error("trigger job error", slog.String("job", name), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"job": name, "status": "queued"}); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
