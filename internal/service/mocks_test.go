package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/forecast"
	"github.com/noctalab/sleep-forecast/pkg/pagination"
)

// MockDiaryRepository is a mock implementation of DiaryRepository
type MockDiaryRepository struct {
	entries         map[uuid.UUID]*domain.DiaryEntry
	clientRequestID map[string]*domain.DiaryEntry
	err             error
}

func NewMockDiaryRepository() *MockDiaryRepository {
	return &MockDiaryRepository{
		entries:         make(map[uuid.UUID]*domain.DiaryEntry),
		clientRequestID: make(map[string]*domain.DiaryEntry),
	}
}

func (m *MockDiaryRepository) Create(ctx context.Context, entry *domain.DiaryEntry) error {
	if m.err != nil {
		return m.err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	m.entries[entry.ID] = entry
	if entry.ClientRequestID != nil {
		key := entry.UserID.String() + ":" + *entry.ClientRequestID
		m.clientRequestID[key] = entry
	}
	return nil
}

func (m *MockDiaryRepository) List(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) ([]domain.DiaryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.DiaryEntry
	for _, entry := range m.entries {
		if entry.UserID != userID {
			continue
		}
		if filter.From != nil && entry.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.Date.After(*filter.To) {
			continue
		}
		result = append(result, *entry)
	}
	if filter.Cursor != "" {
		if cursor, err := pagination.DecodeCursor(filter.Cursor); err == nil && cursor != nil {
			var filtered []domain.DiaryEntry
			for _, entry := range result {
				if entry.Date.Before(cursor.Date) ||
					(entry.Date.Equal(cursor.Date) && entry.ID.String() < cursor.ID.String()) {
					filtered = append(filtered, entry)
				}
			}
			result = filtered
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	limit := pagination.NormalizeLimit(filter.Limit)
	if len(result) > limit+1 {
		result = result[:limit+1]
	}
	return result, nil
}

func (m *MockDiaryRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.DiaryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.DiaryEntry
	for _, entry := range m.entries {
		if entry.UserID == userID {
			result = append(result, *entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (m *MockDiaryRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.DiaryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	key := userID.String() + ":" + clientRequestID
	entry, ok := m.clientRequestID[key]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (m *MockDiaryRepository) SetError(err error) {
	m.err = err
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockUserRepository) SetError(err error) {
	m.err = err
}

// MockForecastLLM is a mock implementation of llm.ForecastLLM
type MockForecastLLM struct {
	output *domain.ForecastInsightsOutput
	err    error

	lastContext *domain.ForecastInsightsContext
}

func (m *MockForecastLLM) NarrateForecast(ctx context.Context, forecastCtx *domain.ForecastInsightsContext) (*domain.ForecastInsightsOutput, error) {
	m.lastContext = forecastCtx
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return &domain.ForecastInsightsOutput{
		Summary:      "Sleep efficiency is forecast to hold steady.",
		Observations: []string{"Recent nights are consistent."},
		Guidance:     []string{"Keep a regular bedtime."},
	}, nil
}

// Helper functions

func strPtr(s string) *string {
	return &s
}

func newTestEngine() *forecast.Engine {
	engine, err := forecast.NewEngine(forecast.DefaultConfig())
	if err != nil {
		panic(err)
	}
	engine.Initialize()
	return engine
}

func metricsForEfficiency(se float64) domain.SleepMetrics {
	tib := 8.0
	return domain.SleepMetrics{
		TimeInBed:           tib,
		TotalSleepTime:      tib * se / 100,
		SleepOnsetLatency:   20,
		WakeAfterSleepOnset: 25,
		SleepEfficiency:     se,
		Awakenings:          2,
		Bedtime:             "23:15",
		WakeTime:            "07:15",
	}
}

func diaryRequest(day int, se float64) *domain.CreateDiaryEntryRequest {
	return &domain.CreateDiaryEntryRequest{
		Date:              time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Metrics:           metricsForEfficiency(se),
		SubjectiveQuality: 0.7,
	}
}
