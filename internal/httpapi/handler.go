package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lotto_fetcher/internal/domain"
)

const (
	DefaultTriggerPath = "/scrap"

	ackBody = "done"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

// Handler exposes the on-demand ingestion trigger.
type Handler struct {
	syncer Syncer
	logger *slog.Logger
}

func NewHandler(syncer Syncer, logger *slog.Logger) *Handler {
	return &Handler{
		syncer: syncer,
		logger: logger.With("component", "httpapi"),
	}
}

// Router mounts the trigger at triggerPath for GET and POST, plus /healthz.
func (h *Handler) Router(triggerPath string) http.Handler {
	if triggerPath == "" {
		triggerPath = DefaultTriggerPath
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Get(triggerPath, h.trigger)
	r.Post(triggerPath, h.trigger)

	return r
}

// trigger runs one ingestion synchronously. The reply does not depend on how
// many draws were written. A client hanging up does not stop the run.
func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	stats, err := h.syncer.Sync(context.WithoutCancel(r.Context()))
	if err != nil {
		h.logger.Error("triggered sync failed",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.logger.Info("triggered sync finished",
		"request_id", middleware.GetReqID(r.Context()),
		"written", stats.Written,
	)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ackBody))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
