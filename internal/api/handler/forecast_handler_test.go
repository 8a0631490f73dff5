package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
)

func TestForecastHandler_GetForecast(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		queryParams    string
		mockService    *MockForecastService
		wantStatusCode int
	}{
		{
			name:           "default horizon",
			userID:         userID.String(),
			queryParams:    "",
			mockService:    &MockForecastService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "explicit long horizon",
			userID:      userID.String(),
			queryParams: "?horizon=long",
			mockService: &MockForecastService{
				predictFunc: func(ctx context.Context, uid uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error) {
					if horizon != domain.HorizonLong {
						t.Errorf("Expected long horizon, got %v", horizon)
					}
					return &domain.ForecastResponse{Ready: true, Prediction: samplePrediction(uid, horizon)}, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid horizon",
			userID:         userID.String(),
			queryParams:    "?horizon=fortnight",
			mockService:    &MockForecastService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			mockService:    &MockForecastService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "user not found",
			userID: uuid.New().String(),
			mockService: &MockForecastService{
				predictFunc: func(ctx context.Context, uid uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "insufficient history still returns 200",
			userID: userID.String(),
			mockService: &MockForecastService{
				predictFunc: func(ctx context.Context, uid uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error) {
					return &domain.ForecastResponse{Ready: false, Required: 3, Available: 1}, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewForecastHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/forecast"+tt.queryParams, nil)
			req = withURLParam(req, "userId", tt.userID)
			rec := httptest.NewRecorder()

			handler.GetForecast(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("GetForecast() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestForecastHandler_GetForecast_NotReadyBody(t *testing.T) {
	userID := uuid.New()
	handler := NewForecastHandler(&MockForecastService{
		predictFunc: func(ctx context.Context, uid uuid.UUID, horizon domain.Horizon) (*domain.ForecastResponse, error) {
			return &domain.ForecastResponse{Ready: false, Required: 3, Available: 2}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+userID.String()+"/forecast", nil)
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.GetForecast(rec, req)

	var resp domain.ForecastResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Ready {
		t.Error("expected ready=false")
	}
	if resp.Prediction != nil {
		t.Error("expected null prediction")
	}
	if resp.Required != 3 || resp.Available != 2 {
		t.Errorf("required/available = %d/%d, want 3/2", resp.Required, resp.Available)
	}
}

func TestForecastHandler_GetState(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		mockService    *MockForecastService
		wantStatusCode int
	}{
		{
			name:           "state available",
			userID:         userID.String(),
			mockService:    &MockForecastService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			mockService:    &MockForecastService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "no recorded nights",
			userID: userID.String(),
			mockService: &MockForecastService{
				stateFunc: func(ctx context.Context, uid uuid.UUID) (*domain.LatentState, error) {
					return nil, nil
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "user not found",
			userID: uuid.New().String(),
			mockService: &MockForecastService{
				stateFunc: func(ctx context.Context, uid uuid.UUID) (*domain.LatentState, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewForecastHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/forecast/state", nil)
			req = withURLParam(req, "userId", tt.userID)
			rec := httptest.NewRecorder()

			handler.GetState(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("GetState() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestForecastHandler_GetCausalNetwork(t *testing.T) {
	handler := NewForecastHandler(&MockForecastService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/model/causal-network", nil)
	rec := httptest.NewRecorder()

	handler.GetCausalNetwork(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GetCausalNetwork() status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var network domain.CausalNetwork
	if err := json.Unmarshal(rec.Body.Bytes(), &network); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(network.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(network.Nodes))
	}
}

func TestForecastHandler_GetStats(t *testing.T) {
	handler := NewForecastHandler(&MockForecastService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/model/stats", nil)
	rec := httptest.NewRecorder()

	handler.GetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GetStats() status = %d", rec.Code)
	}

	var stats domain.EngineStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.UsersTracked != 1 {
		t.Errorf("users tracked = %d, want 1", stats.UsersTracked)
	}
}
