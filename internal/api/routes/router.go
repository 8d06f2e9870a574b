package routes

import (
	"net/http"

	"github.com/alexholyk/sentiment-monitor/internal/api/handlers"
	"github.com/alexholyk/sentiment-monitor/internal/api/middleware"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
)

// Router holds all route handlers. Any handler may be nil; the prediction
// service and the dashboard run as separate processes and register only
// their own routes.
type Router struct {
	mux *http.ServeMux

	predictHandler   *handlers.PredictHandler
	dashboardHandler *handlers.DashboardHandler
	sseHandler       *handlers.SSEHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	predictHandler *handlers.PredictHandler,
	dashboardHandler *handlers.DashboardHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		predictHandler:   predictHandler,
		dashboardHandler: dashboardHandler,
		sseHandler:       sseHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	if r.predictHandler != nil {
		r.mux.HandleFunc("POST /predict", r.predictHandler.Predict)
	}

	if r.dashboardHandler != nil {
		r.mux.HandleFunc("GET /api/monitor/report", r.dashboardHandler.GetReport)
		r.mux.HandleFunc("GET /{$}", r.dashboardHandler.GetPage)
	}

	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/monitor", r.sseHandler.StreamMonitorUpdates)
	}

	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}
