package routes

import (
	"net/http"

	"github.com/templui/myprogress/internal/app"
	"github.com/templui/myprogress/internal/handler"
	"github.com/templui/myprogress/internal/metrics"
	"github.com/templui/myprogress/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.Cfg.AppName, app.Ping)
	auth := handler.NewAuthHandler(app.AuthService)
	goal := handler.NewGoalHandler(app.GoalService)

	requireSubject := middleware.RequireSubject(app.Guard)
	rateLimit := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if app.RateLimiter != nil {
		rateLimit = app.RateLimiter.Limit
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.Banner)
	mux.HandleFunc("GET /healthz", home.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth (rate limited)
	mux.HandleFunc("POST /api/auth/register", rateLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimit(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES (Authorization: Bearer <token>)
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", requireSubject(auth.Me))

	// Goals
	mux.HandleFunc("GET /api/goals", requireSubject(goal.List))
	mux.HandleFunc("POST /api/goals", requireSubject(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", requireSubject(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", requireSubject(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", requireSubject(goal.Delete))
	mux.HandleFunc("PUT /api/goals/{id}/step/{stepId}", requireSubject(goal.ToggleStep))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID, // First, so every log line carries the id
		middleware.Recover,
		middleware.RequestLogging, // Nothing below may replace the request (route label)
		middleware.CORS(app.Cfg.CORSOrigin),
	)

	return handler
}
