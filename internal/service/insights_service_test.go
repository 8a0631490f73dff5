package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
)

func newInsightsFixture(t *testing.T) (InsightsService, *MockDiaryRepository, *MockUserRepository, *MockForecastLLM) {
	t.Helper()
	repo := NewMockDiaryRepository()
	userRepo := NewMockUserRepository()
	loader := NewEngineLoader(newTestEngine(), repo)
	forecastSvc := NewForecastService(loader.engine, userRepo, loader)
	llmClient := &MockForecastLLM{}
	return NewInsightsService(forecastSvc, llmClient, loader), repo, userRepo, llmClient
}

func TestInsightsService_Generate(t *testing.T) {
	svc, repo, userRepo, llmClient := newInsightsFixture(t)
	userID := createUser(t, userRepo)
	seedEntries(t, repo, userID, []float64{85, 84, 86, 83, 85})

	resp, err := svc.Generate(context.Background(), userID, domain.HorizonShort)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Insights.Summary == "" {
		t.Error("Generate() returned empty summary")
	}
	if resp.Prediction.Horizon != domain.HorizonShort {
		t.Errorf("Generate() horizon = %v, want %v", resp.Prediction.Horizon, domain.HorizonShort)
	}

	// The LLM must have seen both the forecast and the recorded nights
	if llmClient.lastContext == nil {
		t.Fatal("LLM was not called")
	}
	if got := len(llmClient.lastContext.RecentEntries); got != 5 {
		t.Errorf("LLM context entries = %d, want 5", got)
	}
}

func TestInsightsService_Generate_InsufficientHistory(t *testing.T) {
	svc, repo, userRepo, llmClient := newInsightsFixture(t)
	userID := createUser(t, userRepo)
	seedEntries(t, repo, userID, []float64{85})

	_, err := svc.Generate(context.Background(), userID, domain.HorizonShort)
	if !errors.Is(err, domain.ErrInsufficientHistory) {
		t.Errorf("Generate() error = %v, want ErrInsufficientHistory", err)
	}
	if llmClient.lastContext != nil {
		t.Error("LLM should not be called without a forecast")
	}
}

func TestInsightsService_Generate_UserNotFound(t *testing.T) {
	svc, _, _, _ := newInsightsFixture(t)

	_, err := svc.Generate(context.Background(), uuid.New(), domain.HorizonShort)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Generate() error = %v, want ErrNotFound", err)
	}
}

func TestInsightsService_Generate_LLMError(t *testing.T) {
	svc, repo, userRepo, llmClient := newInsightsFixture(t)
	userID := createUser(t, userRepo)
	seedEntries(t, repo, userID, []float64{85, 84, 86})
	llmClient.err = errors.New("model overloaded")

	_, err := svc.Generate(context.Background(), userID, domain.HorizonShort)
	if err == nil {
		t.Fatal("Generate() expected error when the LLM fails")
	}
}

func TestInsightsService_Generate_CapsRecentEntries(t *testing.T) {
	svc, repo, userRepo, llmClient := newInsightsFixture(t)
	userID := createUser(t, userRepo)

	efficiencies := make([]float64, 20)
	for i := range efficiencies {
		efficiencies[i] = 85
	}
	seedEntries(t, repo, userID, efficiencies)

	if _, err := svc.Generate(context.Background(), userID, domain.HorizonShort); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := len(llmClient.lastContext.RecentEntries); got != recentEntriesForNarrative {
		t.Errorf("LLM context entries = %d, want %d", got, recentEntriesForNarrative)
	}
}
