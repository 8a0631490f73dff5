package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/service"
	"github.com/noctalab/sleep-forecast/pkg/problem"
)

// ForecastHandler handles forecasting endpoints.
type ForecastHandler struct {
	service service.ForecastService
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(service service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// parseHorizon reads the horizon query parameter, defaulting to short.
func parseHorizon(r *http.Request) (domain.Horizon, bool) {
	val := r.URL.Query().Get("horizon")
	if val == "" {
		return domain.HorizonShort, true
	}
	switch domain.Horizon(val) {
	case domain.HorizonShort, domain.HorizonMedium, domain.HorizonLong:
		return domain.Horizon(val), true
	}
	return "", false
}

// GetForecast handles GET /v1/users/{userId}/forecast
// @Summary Get sleep forecast
// @Description Forecast the user's sleep metrics at the requested horizon. When the user has too few recorded nights the response has ready=false and a null prediction instead of an error.
// @Tags forecast
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param horizon query string false "Forecast horizon" Enums(short, medium, long) default(short)
// @Success 200 {object} domain.ForecastResponse "Forecast, or readiness info when history is insufficient"
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/forecast [get]
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	horizon, ok := parseHorizon(r)
	if !ok {
		problem.BadRequest("horizon must be one of: short, medium, long").Write(w)
		return
	}

	result, err := h.service.Predict(r.Context(), userID, horizon)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("horizon must be one of: short, medium, long").Write(w)
			return
		}
		problem.InternalError("Failed to compute forecast").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetState handles GET /v1/users/{userId}/forecast/state
// @Summary Get model state
// @Description Inspect the user's current latent state, hidden-unit activations, and per-dimension uncertainty. Returns 404 if the model has never seen the user.
// @Tags forecast
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Success 200 {object} domain.LatentState "Current latent state"
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 404 {object} problem.Problem "User or state not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/forecast/state [get]
func (h *ForecastHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	state, err := h.service.State(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to read model state").Write(w)
		return
	}
	if state == nil {
		problem.NotFound("No recorded nights for this user").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// GetCausalNetwork handles GET /v1/model/causal-network
// @Summary Get causal network
// @Description Extract the directed influence graph between sleep metrics from the shared model weights.
// @Tags model
// @Produce json
// @Success 200 {object} domain.CausalNetwork "Causal influence graph"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /model/causal-network [get]
func (h *ForecastHandler) GetCausalNetwork(w http.ResponseWriter, r *http.Request) {
	network, err := h.service.CausalNetwork(r.Context())
	if err != nil {
		problem.InternalError("Failed to extract causal network").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(network)
}

// GetComplexity handles GET /v1/model/complexity
// @Summary Get model complexity diagnostics
// @Description Report dynamical complexity metrics of the shared model (effective dimensionality and weight sparsity).
// @Tags model
// @Produce json
// @Success 200 {object} domain.ComplexityMetrics "Complexity diagnostics"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /model/complexity [get]
func (h *ForecastHandler) GetComplexity(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.Complexity(r.Context())
	if err != nil {
		problem.InternalError("Failed to compute complexity metrics").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

// GetStats handles GET /v1/model/stats
// @Summary Get engine statistics
// @Description Report engine-wide counters: tracked users and total recorded nights.
// @Tags model
// @Produce json
// @Success 200 {object} domain.EngineStats "Engine statistics"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /model/stats [get]
func (h *ForecastHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		problem.InternalError("Failed to read engine stats").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
