package profileRepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.Profile{}, &entity.Swipe{}, &entity.Match{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedProfiles(t *testing.T, db *gorm.DB, n int) []entity.Profile {
	t.Helper()
	profiles := make([]entity.Profile, 0, n)
	for i := 0; i < n; i++ {
		p := entity.Profile{
			Name:       fmt.Sprintf("Student %d", i),
			Email:      fmt.Sprintf("student%d@campus.edu", i),
			Password:   "x",
			Sex:        entity.SexFemale,
			Age:        21,
			Chronotype: 50,
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("failed to seed profile: %v", err)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func TestCreateAndGetProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := profileRepo.New(db)

	created, err := repo.CreateProfile(ctx, &entity.Profile{
		Name:     "Priya Kapoor",
		Email:    "priya@campus.edu",
		Password: "x",
		Sex:      entity.SexFemale,
		Age:      22,
	})
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)

	byID, err := repo.GetProfileByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Priya Kapoor", byID.Name)

	byEmail, err := repo.GetProfileByEmail(ctx, "priya@campus.edu")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetProfileByID(ctx, 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = repo.GetProfileByEmail(ctx, "nobody@campus.edu")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := profileRepo.New(db)
	profiles := seedProfiles(t, db, 1)

	profiles[0].IsShadowBanned = true
	assert.NoError(t, repo.UpdateProfile(ctx, &profiles[0]))

	reloaded, err := repo.GetProfileByID(ctx, profiles[0].ID)
	assert.NoError(t, err)
	assert.True(t, reloaded.IsShadowBanned)
}

func TestGetVisibleProfilesExclusions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := profileRepo.New(db)
	profiles := seedProfiles(t, db, 5)

	visible, err := repo.GetVisibleProfiles(ctx, profiles[0].ID, []uint{profiles[1].ID, profiles[2].ID})
	assert.NoError(t, err)
	assert.Len(t, visible, 2)
	for _, p := range visible {
		assert.NotEqual(t, profiles[0].ID, p.ID)
		assert.NotEqual(t, profiles[1].ID, p.ID)
		assert.NotEqual(t, profiles[2].ID, p.ID)
	}

	// no exclusions: everyone but self
	visible, err = repo.GetVisibleProfiles(ctx, profiles[0].ID, nil)
	assert.NoError(t, err)
	assert.Len(t, visible, 4)
}

func TestGetCampusStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := profileRepo.New(db)
	profiles := seedProfiles(t, db, 3)

	swipes := []entity.Swipe{
		{SwiperID: profiles[0].ID, SwipedID: profiles[1].ID, Direction: entity.DirectionLike, CreatedAt: time.Now()},
		{SwiperID: profiles[1].ID, SwipedID: profiles[0].ID, Direction: entity.DirectionLike, CreatedAt: time.Now()},
		{SwiperID: profiles[2].ID, SwipedID: profiles[0].ID, Direction: entity.DirectionDislike, CreatedAt: time.Now().AddDate(0, 0, -1)},
	}
	for i := range swipes {
		assert.NoError(t, db.Create(&swipes[i]).Error)
	}
	assert.NoError(t, db.Create(&entity.Match{UserAID: profiles[0].ID, UserBID: profiles[1].ID}).Error)

	stats, err := repo.GetCampusStats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProfiles)
	assert.Equal(t, int64(2), stats.SwipesToday)
	assert.Equal(t, int64(1), stats.TotalMatches)
}
