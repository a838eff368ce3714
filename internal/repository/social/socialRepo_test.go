package socialRepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	socialRepo "github.com/campuscrush/app/internal/repository/social"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&entity.Nudge{}, &entity.Crush{}, &entity.Report{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestHasNudgedToday(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := socialRepo.New(db)

	now := time.Now()

	nudged, err := repo.HasNudgedToday(ctx, 1, now)
	assert.NoError(t, err)
	assert.False(t, nudged)

	_, err = repo.CreateNudge(ctx, &entity.Nudge{
		SenderID:   1,
		ReceiverID: 2,
		Message:    entity.NudgePresets[0],
		CreatedAt:  now,
	})
	assert.NoError(t, err)

	nudged, err = repo.HasNudgedToday(ctx, 1, now)
	assert.NoError(t, err)
	assert.True(t, nudged)

	// cap is per sender across all receivers
	nudged, err = repo.HasNudgedToday(ctx, 2, now)
	assert.NoError(t, err)
	assert.False(t, nudged)
}

func TestHasNudgedTodayIgnoresYesterday(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := socialRepo.New(db)

	now := time.Now()
	_, err := repo.CreateNudge(ctx, &entity.Nudge{
		SenderID:   1,
		ReceiverID: 2,
		Message:    entity.NudgePresets[0],
		CreatedAt:  now.AddDate(0, 0, -1),
	})
	assert.NoError(t, err)

	nudged, err := repo.HasNudgedToday(ctx, 1, now)
	assert.NoError(t, err)
	assert.False(t, nudged)
}

func TestMarkNudgeSeen(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := socialRepo.New(db)

	nudge, err := repo.CreateNudge(ctx, &entity.Nudge{
		SenderID:   1,
		ReceiverID: 2,
		Message:    entity.NudgePresets[1],
		CreatedAt:  time.Now(),
	})
	assert.NoError(t, err)

	// wrong receiver cannot flip it
	assert.ErrorIs(t, repo.MarkNudgeSeen(ctx, nudge.ID, 3), apperr.ErrNotFound)

	assert.NoError(t, repo.MarkNudgeSeen(ctx, nudge.ID, 2))
	// idempotent
	assert.NoError(t, repo.MarkNudgeSeen(ctx, nudge.ID, 2))

	nudges, err := repo.GetNudgesForReceiver(ctx, 2)
	assert.NoError(t, err)
	if assert.Len(t, nudges, 1) {
		assert.True(t, nudges[0].Seen)
	}
}

func TestCrushLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := socialRepo.New(db)

	crush, err := repo.CreateCrush(ctx, &entity.Crush{
		SenderID:   1,
		ReceiverID: 2,
		Hint:       "We share a class",
	})
	assert.NoError(t, err)
	assert.Equal(t, entity.CrushGuesses, crush.GuessesLeft)
	assert.False(t, crush.Revealed)

	count, err := repo.CountCrushesBySender(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, repo.UpdateCrushGuess(ctx, crush.ID, 2, false))

	got, err := repo.GetCrushByID(ctx, crush.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, got.GuessesLeft)

	assert.NoError(t, repo.UpdateCrushGuess(ctx, crush.ID, 1, true))

	got, err = repo.GetCrushByID(ctx, crush.ID)
	assert.NoError(t, err)
	assert.True(t, got.Revealed)

	received, err := repo.GetCrushesForReceiver(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, received, 1)

	sent, err := repo.GetCrushesBySender(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestGetCrushByIDNotFound(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := socialRepo.New(db)

	_, err := repo.GetCrushByID(ctx, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateReport(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := socialRepo.New(db)

	assert.NoError(t, repo.CreateReport(ctx, &entity.Report{
		ReporterID: 1,
		ReportedID: 2,
		Reason:     "spam",
	}))

	var count int64
	db.Model(&entity.Report{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
