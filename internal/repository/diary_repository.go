package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"github.com/noctalab/sleep-forecast/pkg/pagination"
	"gorm.io/gorm"
)

type DiaryRepository interface {
	Create(ctx context.Context, entry *domain.DiaryEntry) error
	List(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) ([]domain.DiaryEntry, error)
	// ListAllByUser returns every entry for a user in ascending date order,
	// used to warm the forecasting engine from persisted history.
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.DiaryEntry, error)
	GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.DiaryEntry, error)
}

type diaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, entry *domain.DiaryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *diaryRepository) List(ctx context.Context, userID uuid.UUID, filter domain.DiaryEntryFilter) ([]domain.DiaryEntry, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC")

	// Apply date filters
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To)
	}

	// Apply cursor pagination
	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			// For DESC order: records older than the cursor date, or same
			// date with a smaller id.
			query = query.Where(
				"(date < ?) OR (date = ? AND id < ?)",
				cursor.Date, cursor.Date, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var entries []domain.DiaryEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *diaryRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.DiaryEntry, error) {
	var entries []domain.DiaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.DiaryEntry, error) {
	var entry domain.DiaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND client_request_id = ?", userID, clientRequestID).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // Not found is not an error for idempotency check
		}
		return nil, err
	}
	return &entry, nil
}
