package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SleepMetrics holds one night's raw sleep measurements as reported in a
// sleep diary entry. Durations are in hours for time in bed / total sleep
// time and minutes for onset latency / WASO, matching clinical convention.
// @Description Raw nightly sleep measurements from a diary entry.
type SleepMetrics struct {
	// Time in bed in hours
	TimeInBed float64 `gorm:"not null" json:"time_in_bed" validate:"required,gt=0,max=24" example:"8.0"`
	// Total sleep time in hours
	TotalSleepTime float64 `gorm:"not null" json:"total_sleep_time" validate:"required,gte=0,max=24" example:"6.8"`
	// Sleep onset latency in minutes
	SleepOnsetLatency float64 `gorm:"not null" json:"sleep_onset_latency" validate:"gte=0,max=720" example:"25"`
	// Wake after sleep onset in minutes
	WakeAfterSleepOnset float64 `gorm:"not null" json:"wake_after_sleep_onset" validate:"gte=0,max=720" example:"35"`
	// Sleep efficiency percentage (0-100)
	SleepEfficiency float64 `gorm:"not null" json:"sleep_efficiency" validate:"gte=0,max=100" example:"85"`
	// Number of awakenings during the night
	Awakenings int `gorm:"not null;default:0" json:"awakenings" validate:"gte=0,max=50" example:"2"`
	// Bedtime as HH:MM local clock string
	Bedtime string `gorm:"type:varchar(8)" json:"bedtime" validate:"omitempty,len=5" example:"23:15"`
	// Wake time as HH:MM local clock string
	WakeTime string `gorm:"type:varchar(8)" json:"wake_time" validate:"omitempty,len=5" example:"07:15"`
}

// DerivedEfficiency computes sleep efficiency from total sleep time and time
// in bed. SleepEfficiency is carried explicitly on the struct; this is the
// reference value it should agree with.
func (m SleepMetrics) DerivedEfficiency() float64 {
	if m.TimeInBed <= 0 {
		return 0
	}
	return m.TotalSleepTime / m.TimeInBed * 100
}

// EfficiencyConsistent reports whether the carried efficiency agrees with the
// derived value within tolerance percentage points.
func (m SleepMetrics) EfficiencyConsistent(tolerance float64) bool {
	return math.Abs(m.SleepEfficiency-m.DerivedEfficiency()) <= tolerance
}

// DiaryEntry is a persisted sleep diary row. Rows are append-only: entries
// are never mutated or deleted once recorded.
type DiaryEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_diary_entries_user_date" json:"user_id"`
	// Date identifies the night the metrics belong to (the morning-of date).
	Date              time.Time    `gorm:"not null;index:idx_diary_entries_user_date,sort:desc" json:"date"`
	Metrics           SleepMetrics `gorm:"embedded" json:"metrics"`
	SubjectiveQuality float64      `gorm:"not null" json:"subjective_quality"`
	ClientRequestID   *string      `gorm:"type:varchar(255);uniqueIndex:idx_user_client_request,where:client_request_id IS NOT NULL" json:"client_request_id,omitempty"`
	CreatedAt         time.Time    `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}

// ToHistoryEntry converts the persisted row into the engine's history form.
func (d *DiaryEntry) ToHistoryEntry() HistoryEntry {
	return HistoryEntry{
		UserID:            d.UserID,
		Date:              d.Date,
		Metrics:           d.Metrics,
		SubjectiveQuality: d.SubjectiveQuality,
	}
}

// HistoryEntry is one dated observation as consumed by the forecasting
// engine. Immutable once appended; ordering is by Date, not insertion order.
type HistoryEntry struct {
	UserID            uuid.UUID    `json:"user_id"`
	Date              time.Time    `json:"date"`
	Metrics           SleepMetrics `json:"metrics"`
	SubjectiveQuality float64      `json:"subjective_quality"`
}

// CreateDiaryEntryRequest is the request body for recording a diary entry.
// @Description Request payload for recording one night of sleep diary data.
type CreateDiaryEntryRequest struct {
	// Night date in RFC3339 format (the morning-of date)
	Date time.Time `json:"date" validate:"required" example:"2024-01-16T00:00:00Z"`
	// Raw sleep measurements for the night
	Metrics SleepMetrics `json:"metrics" validate:"required"`
	// Subjective sleep quality rating from 0 (worst) to 1 (best)
	SubjectiveQuality float64 `json:"subjective_quality" validate:"gte=0,lte=1" example:"0.7"`
	// Optional client-generated ID for idempotent requests (max 255 chars)
	ClientRequestID *string `json:"client_request_id,omitempty" validate:"omitempty,max=255" example:"client-uuid-12345"`
}

// DiaryEntryResponse is the response body for diary entry endpoints.
// @Description Recorded diary entry.
type DiaryEntryResponse struct {
	ID                uuid.UUID    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID            uuid.UUID    `json:"user_id" example:"660e8400-e29b-41d4-a716-446655440001"`
	Date              time.Time    `json:"date" example:"2024-01-16T00:00:00Z"`
	Metrics           SleepMetrics `json:"metrics"`
	SubjectiveQuality float64      `json:"subjective_quality" example:"0.7"`
	ClientRequestID   *string      `json:"client_request_id,omitempty" example:"client-uuid-12345"`
	CreatedAt         time.Time    `json:"created_at" example:"2024-01-16T07:05:00Z"`
}

func (d *DiaryEntry) ToResponse() DiaryEntryResponse {
	return DiaryEntryResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		Date:              d.Date,
		Metrics:           d.Metrics,
		SubjectiveQuality: d.SubjectiveQuality,
		ClientRequestID:   d.ClientRequestID,
		CreatedAt:         d.CreatedAt,
	}
}

// DiaryEntryListResponse is the response body for listing diary entries.
// @Description Paginated list of diary entries.
type DiaryEntryListResponse struct {
	// Array of diary entries
	Data []DiaryEntryResponse `json:"data"`
	// Pagination metadata
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// DiaryEntryFilter contains filter parameters for listing diary entries
type DiaryEntryFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}
