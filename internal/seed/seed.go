package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
	"gorm.io/gorm"
)

const seededDays = 40

// Run seeds the database with sample users and diary entries. Safe to call
// multiple times. One user gets a steadily declining sleep efficiency so the
// forecast endpoints have something interesting to show.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.DiaryEntry{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	users := []struct {
		user        domain.User
		baseline    float64
		driftPerDay float64
	}{
		{
			user:     domain.User{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Timezone: "Europe/Amsterdam"},
			baseline: 88,
		},
		{
			user:     domain.User{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Timezone: "America/New_York"},
			baseline: 82,
		},
		{
			// Declining sleeper: efficiency erodes roughly half a point a night
			user:        domain.User{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Timezone: "Asia/Tokyo"},
			baseline:    90,
			driftPerDay: -0.5,
		},
		{
			user:     domain.User{ID: uuid.MustParse("44444444-4444-4444-4444-444444444444"), Timezone: "Australia/Sydney"},
			baseline: 75,
		},
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, u := range users {
		if err := db.Where("id = ?", u.user.ID).FirstOrCreate(&u.user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.user.ID, err)
		}
		if err := seedDiaryForUser(db, u.user, u.baseline, u.driftPerDay, rng); err != nil {
			return err
		}
	}

	log.Println("Seed completed")
	return nil
}

func seedDiaryForUser(db *gorm.DB, user domain.User, baseline, driftPerDay float64, rng *rand.Rand) error {
	now := time.Now().UTC()
	for i := 0; i < seededDays; i++ {
		daysAgo := seededDays - i
		date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)

		se := baseline + driftPerDay*float64(i) + rng.Float64()*4 - 2
		if se > 98 {
			se = 98
		}
		if se < 40 {
			se = 40
		}

		tib := 7.5 + rng.Float64()
		tst := tib * se / 100
		sol := 12 + rng.Float64()*15 + (95-se)*0.4
		waso := 10 + rng.Float64()*20 + (95-se)*0.8

		clientReqID := fmt.Sprintf("seed-%s-%d", user.ID, daysAgo)
		entry := domain.DiaryEntry{
			UserID: user.ID,
			Date:   date,
			Metrics: domain.SleepMetrics{
				TimeInBed:           round2(tib),
				TotalSleepTime:      round2(tst),
				SleepOnsetLatency:   round2(sol),
				WakeAfterSleepOnset: round2(waso),
				SleepEfficiency:     round2(se),
				Awakenings:          rng.Intn(4),
				Bedtime:             fmt.Sprintf("%02d:%02d", 22+rng.Intn(2), rng.Intn(60)),
				WakeTime:            fmt.Sprintf("%02d:%02d", 6+rng.Intn(2), rng.Intn(60)),
			},
			SubjectiveQuality: round2(clamp01(se/100 + rng.Float64()*0.1 - 0.05)),
			ClientRequestID:   &clientReqID,
		}

		if err := db.Where("client_request_id = ?", clientReqID).FirstOrCreate(&entry).Error; err != nil {
			return fmt.Errorf("failed to create diary entry: %w", err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
