package swipe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	blockRepo "github.com/campuscrush/app/internal/repository/block"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	swipeRepo "github.com/campuscrush/app/internal/repository/swipe"
	"github.com/campuscrush/app/internal/usecase/discovery"
	"github.com/campuscrush/app/internal/usecase/swipe"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	queue   discovery.IDiscoveryUseCase
	swipes  swipe.ISwipeUseCase
	matched []*entity.Match
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.Profile{}, &entity.Swipe{}, &entity.Match{}, &entity.Block{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	f := &fixture{db: db}
	repo := swipeRepo.New(db, nil, nil)
	f.queue = discovery.New(profileRepo.New(db), repo, blockRepo.New(db), discovery.WithJitter(func() int { return 0 }))
	f.swipes = swipe.New(repo, f.queue, func(_ context.Context, m *entity.Match) {
		f.matched = append(f.matched, m)
	})
	return f
}

func (f *fixture) seedProfiles(t *testing.T, n int) []entity.Profile {
	t.Helper()
	profiles := make([]entity.Profile, 0, n)
	for i := 0; i < n; i++ {
		sex := entity.SexFemale
		if i%2 == 0 {
			sex = entity.SexMale
		}
		p := entity.Profile{
			Name:       fmt.Sprintf("user%d", i),
			Email:      fmt.Sprintf("user%d@campus.edu", i),
			Password:   "x",
			Sex:        sex,
			Age:        21,
			Chronotype: 50,
		}
		if err := f.db.Create(&p).Error; err != nil {
			t.Fatalf("failed to seed profile: %v", err)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func TestSwipeRightDecrementsRemaining(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, 3)

	remaining, err := f.swipes.RemainingToday(ctx, users[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.SwipeQuota, remaining)

	resp, err := f.swipes.SwipeRight(ctx, users[0].ID, users[1].ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeNoMatch, resp.OutcomeEnum)
	assert.Equal(t, entity.SwipeQuota-1, resp.Remaining)

	resp, err = f.swipes.SwipeLeft(ctx, users[0].ID, users[2].ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.SwipeQuota-2, resp.Remaining)
}

func TestSwipeQuotaRejectsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, entity.SwipeQuota+2)
	self := users[0]

	for _, target := range users[1 : entity.SwipeQuota+1] {
		_, err := f.swipes.SwipeRight(ctx, self.ID, target.ID)
		assert.NoError(t, err)
	}

	remaining, err := f.swipes.RemainingToday(ctx, self.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// cap hit, nothing stored for the extra target
	_, err = f.swipes.SwipeRight(ctx, self.ID, users[entity.SwipeQuota+1].ID)
	assert.True(t, apperr.IsQuota(err))

	var count int64
	f.db.Model(&entity.Swipe{}).Where("swiper_id = ?", self.ID).Count(&count)
	assert.Equal(t, int64(entity.SwipeQuota), count)
}

func TestSwipeRemovesFromQueue(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, 4)
	self := users[0] // male; queue holds the two females

	other := users[2] // also male; sees the same two females

	assert.NoError(t, f.queue.Refresh(ctx, self.ID))
	assert.NoError(t, f.queue.Refresh(ctx, other.ID))
	assert.Len(t, f.queue.Queue(self.ID), 2)

	_, err := f.swipes.SwipeRight(ctx, self.ID, users[1].ID)
	assert.NoError(t, err)
	assert.Len(t, f.queue.Queue(self.ID), 1)

	// only the swiper's queue shrinks
	assert.Len(t, f.queue.Queue(other.ID), 2)
}

func TestSwipeQuotaLeavesQueueUntouched(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, entity.SwipeQuota+3)
	self := users[0]

	for _, target := range users[1 : entity.SwipeQuota+1] {
		_, err := f.swipes.SwipeRight(ctx, self.ID, target.ID)
		assert.NoError(t, err)
	}

	assert.NoError(t, f.queue.Refresh(ctx, self.ID))
	before := len(f.queue.Queue(self.ID))
	assert.NotZero(t, before)

	_, err := f.swipes.SwipeRight(ctx, self.ID, users[entity.SwipeQuota+1].ID)
	assert.True(t, apperr.IsQuota(err))
	assert.Len(t, f.queue.Queue(self.ID), before)
}

func TestSwipeUnknownTargetKeepsRemaining(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, 1)

	resp, err := f.swipes.SwipeRight(ctx, users[0].ID, 999)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeNotFound, resp.OutcomeEnum)
	assert.Equal(t, entity.SwipeQuota, resp.Remaining)
}

func TestMutualLikeFiresMatchedCallback(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, 2)

	_, err := f.swipes.SwipeRight(ctx, users[0].ID, users[1].ID)
	assert.NoError(t, err)
	assert.Empty(t, f.matched)

	resp, err := f.swipes.SwipeRight(ctx, users[1].ID, users[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeMatch, resp.OutcomeEnum)
	if assert.Len(t, f.matched, 1) {
		assert.True(t, f.matched[0].Involves(users[0].ID))
		assert.True(t, f.matched[0].Involves(users[1].ID))
	}
}

func TestDuplicateSwipeSurfacesConflict(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := f.seedProfiles(t, 2)

	_, err := f.swipes.SwipeRight(ctx, users[0].ID, users[1].ID)
	assert.NoError(t, err)

	_, err = f.swipes.SwipeLeft(ctx, users[0].ID, users[1].ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadySwiped)
}
