package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/myprogress/internal/response"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

type HomeHandler struct {
	appName string
	ping    Pinger
}

func NewHomeHandler(appName string, ping Pinger) *HomeHandler {
	return &HomeHandler{appName: appName, ping: ping}
}

func (h *HomeHandler) Banner(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.appName+" API is running", nil)
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.ping(ctx)
	if err != nil {
		slog.Warn("health check failed", "error", err)
		response.Fail(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	response.OK(w, "ok", nil)
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, http.StatusNotFound, "Route not found")
}
