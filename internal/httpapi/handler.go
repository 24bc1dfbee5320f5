package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var queryDateLayouts = []string{time.RFC3339, "2006-01-02"}

type Handler struct {
	trends TrendService
	ready  []ReadinessCheck
	logger *zap.Logger
}

func NewHandler(trends TrendService, logger *zap.Logger, ready ...ReadinessCheck) *Handler {
	if trends == nil {
		panic("nil TrendService provided to NewHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{trends: trends, ready: ready, logger: logger.Named("http-handler")}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, status, code, message, requestIDFromContext(r.Context()))
}

func parseQueryDate(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: unrecognised date %q", name, raw)
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.ready {
		if err := check(r.Context()); err != nil {
			h.logger.Warn("readiness check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error(), requestIDFromContext(r.Context()))
			return
		}
	}
	writeSuccess(w, http.StatusOK, "ready", nil)
}

func (h *Handler) weeklyTrend(w http.ResponseWriter, r *http.Request) {
	start, err := parseQueryDate(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	end, err := parseQueryDate(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error(), requestIDFromContext(r.Context()))
		return
	}

	weeks, err := h.trends.GetWeeklyTrend(r.Context(), start, end)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", weeks)
}

func (h *Handler) teamReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.trends.GetTeamReports(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", reports)
}

func (h *Handler) teamReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.trends.GetTeamReport(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", report)
}

func (h *Handler) leaderboards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.trends.GetLeaderboards(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", boards)
}

func (h *Handler) unscheduled(w http.ResponseWriter, r *http.Request) {
	events, err := h.trends.GetUnscheduled(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", events)
}

func (h *Handler) priorities(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.trends.GetPriorityBreakdown(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", breakdown)
}
