package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", handler.readyz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/trends/weekly", handler.weeklyTrend)
		r.Get("/teams", handler.teamReports)
		r.Get("/teams/{name}", handler.teamReport)
		r.Get("/leaderboards", handler.leaderboards)
		r.Get("/evaluations/unscheduled", handler.unscheduled)
		r.Get("/priorities", handler.priorities)
	})
	return r
}
