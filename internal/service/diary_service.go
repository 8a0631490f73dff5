package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/internal/forecast"
	"github.com/noctalab/sleep-forecast/internal/repository"
	"github.com/noctalab/sleep-forecast/pkg/pagination"
)

// efficiencyTolerance is the allowed disagreement, in percentage points,
// between the reported sleep efficiency and the value derived from total
// sleep time over time in bed.
const efficiencyTolerance = 5.0

type DiaryService interface {
	// Create records one night of diary data and feeds it to the
	// forecasting engine. Returns (entry, isExisting, error); isExisting is
	// true when an idempotent duplicate returned the stored entry.
	Create(ctx context.Context, userID uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error)
}

type diaryService struct {
	repo     repository.DiaryRepository
	userRepo repository.UserRepository
	loader   *EngineLoader
}

func NewDiaryService(repo repository.DiaryRepository, userRepo repository.UserRepository, loader *EngineLoader) DiaryService {
	return &diaryService{
		repo:     repo,
		userRepo: userRepo,
		loader:   loader,
	}
}

func (s *diaryService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateDiaryEntryRequest) (*domain.DiaryEntry, bool, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, domain.ErrNotFound
	}

	metrics := req.Metrics
	if metrics.SleepEfficiency == 0 && metrics.TimeInBed > 0 {
		// Efficiency is derivable; fill it in when the client omitted it.
		metrics.SleepEfficiency = metrics.DerivedEfficiency()
	}
	if !metrics.EfficiencyConsistent(efficiencyTolerance) {
		return nil, false, domain.ErrInvalidInput
	}
	if metrics.TotalSleepTime > metrics.TimeInBed {
		return nil, false, domain.ErrInvalidInput
	}

	// Check for idempotency (duplicate client_request_id)
	if req.ClientRequestID != nil && *req.ClientRequestID != "" {
		existing, err := s.repo.GetByClientRequestID(ctx, userID, *req.ClientRequestID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	entry := &domain.DiaryEntry{
		UserID:            userID,
		Date:              req.Date.UTC(),
		Metrics:           metrics,
		SubjectiveQuality: req.SubjectiveQuality,
		ClientRequestID:   req.ClientRequestID,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, false, err
	}

	// Feed the engine after the row is durable. Warm-up replays older
	// persisted entries first so the online update sees them in order;
	// the entry just written is excluded from the replay guard below.
	if err := s.loader.ensureWarm(ctx, userID, entry.ID); err != nil {
		return nil, false, err
	}
	s.loader.engine.TrainOnline(userID, entry.ToHistoryEntry())

	return entry, false, nil
}

func (s *diaryService) List(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) (*domain.DiaryEntryListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	entries, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	response := &domain.DiaryEntryListResponse{
		Data: make([]domain.DiaryEntryResponse, len(entries)),
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}
	for i, entry := range entries {
		response.Data[i] = entry.ToResponse()
	}

	if hasMore && len(entries) > 0 {
		last := entries[len(entries)-1]
		cursor := &pagination.Cursor{
			ID:   last.ID,
			Date: last.Date,
		}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}

// EngineLoader lazily replays a user's persisted diary rows into the
// in-memory engine. The engine owns no storage of its own; after a restart
// the first touch of a user rebuilds their history and latent state from
// the database.
type EngineLoader struct {
	engine *forecast.Engine
	repo   repository.DiaryRepository

	mu     sync.Mutex
	warmed map[uuid.UUID]bool
}

func NewEngineLoader(engine *forecast.Engine, repo repository.DiaryRepository) *EngineLoader {
	return &EngineLoader{
		engine: engine,
		repo:   repo,
		warmed: make(map[uuid.UUID]bool),
	}
}

// ensureWarm replays the user's persisted entries into the engine exactly
// once per process. skip excludes a row from the replay (the one the caller
// is about to train on itself); pass uuid.Nil to replay everything.
func (l *EngineLoader) ensureWarm(ctx context.Context, userID uuid.UUID, skip uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.warmed[userID] {
		return nil
	}

	entries, err := l.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == skip {
			continue
		}
		l.engine.AddSleepEntry(entries[i].ToHistoryEntry())
	}
	l.warmed[userID] = true
	return nil
}
