package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/noctalab/sleep-forecast/docs"
	"github.com/noctalab/sleep-forecast/internal/api/handler"
	"github.com/noctalab/sleep-forecast/internal/api/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	userHandler     *handler.UserHandler
	diaryHandler    *handler.DiaryHandler
	forecastHandler *handler.ForecastHandler
	insightsHandler *handler.InsightsHandler
}

func NewRouter(
	userHandler *handler.UserHandler,
	diaryHandler *handler.DiaryHandler,
	forecastHandler *handler.ForecastHandler,
	insightsHandler *handler.InsightsHandler,
) *Router {
	return &Router{
		userHandler:     userHandler,
		diaryHandler:    diaryHandler,
		forecastHandler: forecastHandler,
		insightsHandler: insightsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", rt.userHandler.Create)
			r.Get("/{userId}", rt.userHandler.GetByID)

			// Diary entries (nested under users)
			r.Route("/{userId}/diary", func(r chi.Router) {
				r.Post("/", rt.diaryHandler.Create)
				r.Get("/", rt.diaryHandler.List)
			})

			// Forecasts (nested under users)
			r.Route("/{userId}/forecast", func(r chi.Router) {
				r.Get("/", rt.forecastHandler.GetForecast)
				r.Get("/state", rt.forecastHandler.GetState)
				r.Get("/insights", rt.insightsHandler.GetInsights)
				r.Post("/insights/feedback", rt.insightsHandler.PostFeedback)
			})
		})

		// Shared model diagnostics
		r.Route("/model", func(r chi.Router) {
			r.Get("/causal-network", rt.forecastHandler.GetCausalNetwork)
			r.Get("/complexity", rt.forecastHandler.GetComplexity)
			r.Get("/stats", rt.forecastHandler.GetStats)
		})
	})

	return r
}
