package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestDiaryHandler_Create(t *testing.T) {
	userID := uuid.New()

	validBody := `{
		"date": "2024-01-16T00:00:00Z",
		"metrics": {
			"time_in_bed": 8.0,
			"total_sleep_time": 6.8,
			"sleep_onset_latency": 25,
			"wake_after_sleep_onset": 35,
			"sleep_efficiency": 85,
			"awakenings": 2
		},
		"subjective_quality": 0.7
	}`

	tests := []struct {
		name           string
		userID         string
		body           string
		mockService    *MockDiaryService
		wantStatusCode int
	}{
		{
			name:           "valid entry",
			userID:         userID.String(),
			body:           validBody,
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			body:           validBody,
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			userID:         userID.String(),
			body:           `{invalid}`,
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "missing date",
			userID: userID.String(),
			body: `{
				"metrics": {
					"time_in_bed": 8.0,
					"total_sleep_time": 6.8,
					"sleep_efficiency": 85
				},
				"subjective_quality": 0.7
			}`,
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "subjective quality above one",
			userID: userID.String(),
			body: `{
				"date": "2024-01-16T00:00:00Z",
				"metrics": {
					"time_in_bed": 8.0,
					"total_sleep_time": 6.8,
					"sleep_efficiency": 85
				},
				"subjective_quality": 1.5
			}`,
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "user not found",
			userID: uuid.New().String(),
			body:   validBody,
			mockService: &MockDiaryService{
				createFunc: func(ctx context.Context, uid uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error) {
					return nil, false, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "inconsistent metrics",
			userID: userID.String(),
			body:   validBody,
			mockService: &MockDiaryService{
				createFunc: func(ctx context.Context, uid uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error) {
					return nil, false, domain.ErrInvalidInput
				},
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "idempotent request returns 200",
			userID: userID.String(),
			body:   validBody,
			mockService: &MockDiaryService{
				createFunc: func(ctx context.Context, uid uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error) {
					return &domain.DiaryEntry{
						ID:              uuid.New(),
						UserID:          uid,
						Date:            req.Date,
						Metrics:         req.Metrics,
						ClientRequestID: strPtr("req-123"),
					}, true, nil // isExisting = true
				},
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDiaryHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/"+tt.userID+"/diary", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParam(req, "userId", tt.userID)
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Create() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestDiaryHandler_List(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		queryParams    string
		mockService    *MockDiaryService
		wantStatusCode int
	}{
		{
			name:        "list all entries",
			userID:      userID.String(),
			queryParams: "",
			mockService: &MockDiaryService{
				listFunc: func(ctx context.Context, uid uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error) {
					return &domain.DiaryEntryListResponse{
						Data: []domain.DiaryEntryResponse{
							{
								ID:      uuid.New(),
								UserID:  uid,
								Metrics: validMetrics(),
							},
						},
						Pagination: domain.PaginationResponse{HasMore: false},
					}, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "list with filters",
			userID:      userID.String(),
			queryParams: "?from=2024-01-01T00:00:00Z&to=2024-01-31T23:59:59Z&limit=10",
			mockService: &MockDiaryService{
				listFunc: func(ctx context.Context, uid uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error) {
					if filter.From == nil || filter.To == nil {
						t.Error("Expected from and to filters to be set")
					}
					if filter.Limit != 10 {
						t.Errorf("Expected limit 10, got %d", filter.Limit)
					}
					return &domain.DiaryEntryListResponse{
						Data:       []domain.DiaryEntryResponse{},
						Pagination: domain.PaginationResponse{HasMore: false},
					}, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid user ID",
			userID:         "not-a-uuid",
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid from timestamp",
			userID:         userID.String(),
			queryParams:    "?from=yesterday",
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid limit",
			userID:         userID.String(),
			queryParams:    "?limit=-1",
			mockService:    &MockDiaryService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "user not found",
			userID:      uuid.New().String(),
			queryParams: "",
			mockService: &MockDiaryService{
				listFunc: func(ctx context.Context, uid uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDiaryHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/diary"+tt.queryParams, nil)
			req = withURLParam(req, "userId", tt.userID)
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("List() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestDiaryHandler_Create_ResponseBody(t *testing.T) {
	userID := uuid.New()
	handler := NewDiaryHandler(&MockDiaryService{})

	body := `{
		"date": "2024-01-16T00:00:00Z",
		"metrics": {
			"time_in_bed": 8.0,
			"total_sleep_time": 6.8,
			"sleep_onset_latency": 25,
			"wake_after_sleep_onset": 35,
			"sleep_efficiency": 85,
			"awakenings": 2
		},
		"subjective_quality": 0.7
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/users/"+userID.String()+"/diary", bytes.NewBufferString(body))
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Create() status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp domain.DiaryEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.UserID != userID {
		t.Errorf("response user ID = %v, want %v", resp.UserID, userID)
	}
	if resp.Metrics.SleepEfficiency != 85 {
		t.Errorf("response efficiency = %v, want 85", resp.Metrics.SleepEfficiency)
	}
}
