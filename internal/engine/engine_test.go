package engine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/engine"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/internal/realtime"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingNotifier collects notifications under a lock so tests can
// poll for async delivery.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) Notify(userID uint, title, body string) {
	n.mu.Lock()
	n.calls = append(n.calls, fmt.Sprintf("%d:%s", userID, title))
	n.mu.Unlock()
}

func (n *recordingNotifier) has(call string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.calls {
		if c == call {
			return true
		}
	}
	return false
}

func setup(t *testing.T) (*engine.Engine, *gorm.DB, *redis.Client, *recordingNotifier) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&entity.Profile{}, &entity.Swipe{}, &entity.Match{}, &entity.Message{},
		&entity.Nudge{}, &entity.Crush{}, &entity.Block{}, &entity.Report{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	notifier := &recordingNotifier{}
	return engine.New(ctx, db, rdb, notifier), db, rdb, notifier
}

func seedProfile(t *testing.T, db *gorm.DB, name string, sex entity.Sex) entity.Profile {
	t.Helper()
	p := entity.Profile{
		Name:       name,
		Email:      name + "@campus.edu",
		Password:   "x",
		Sex:        sex,
		Age:        21,
		Chronotype: 50,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	return p
}

func TestLoadSucceedsForFreshProfile(t *testing.T) {
	ctx := context.Background()
	eng, db, _, _ := setup(t)
	a := seedProfile(t, db, "a", entity.SexFemale)
	seedProfile(t, db, "b", entity.SexMale)

	assert.NoError(t, eng.Load(ctx, a.ID))

	queue := eng.Discovery.Queue(a.ID)
	assert.Len(t, queue, 1)
}

func TestLoadFailsWholeBatchOnUnknownUser(t *testing.T) {
	ctx := context.Background()
	eng, _, _, _ := setup(t)

	err := eng.Load(ctx, 42)
	var batchErr *apperr.BatchLoadError
	assert.ErrorAs(t, err, &batchErr)
}

func TestMutualLikeRefreshesBothMatchLists(t *testing.T) {
	ctx := context.Background()
	eng, db, _, _ := setup(t)
	a := seedProfile(t, db, "a", entity.SexFemale)
	b := seedProfile(t, db, "b", entity.SexMale)

	assert.NoError(t, eng.Load(ctx, a.ID))
	resp, err := eng.Swipes.SwipeRight(ctx, a.ID, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeNoMatch, resp.OutcomeEnum)

	assert.NoError(t, eng.Load(ctx, b.ID))
	resp, err = eng.Swipes.SwipeRight(ctx, b.ID, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeMatch, resp.OutcomeEnum)

	// the matched hook refreshed both sides without an explicit reload
	assert.Len(t, eng.Conversations.Matches(a.ID), 1)
	assert.Len(t, eng.Conversations.Matches(b.ID), 1)
}

func TestSessionNotifiesOnMatchEvent(t *testing.T) {
	ctx := context.Background()
	eng, db, rdb, notifier := setup(t)
	a := seedProfile(t, db, "a", entity.SexFemale)
	b := seedProfile(t, db, "b", entity.SexMale)

	assert.NoError(t, eng.Load(ctx, a.ID))
	eng.StartSession(a.ID)
	// idempotent
	eng.StartSession(a.ID)

	pub := realtime.NewPublisher(rdb)
	pub.MatchFormed(ctx, realtime.MatchEvent{MatchID: 1, UserAID: a.ID, UserBID: b.ID})

	assert.Eventually(t, func() bool {
		return notifier.has(fmt.Sprintf("%d:It's a match!", a.ID))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionIgnoresForeignMatchEvent(t *testing.T) {
	ctx := context.Background()
	eng, db, rdb, notifier := setup(t)
	a := seedProfile(t, db, "a", entity.SexFemale)

	assert.NoError(t, eng.Load(ctx, a.ID))
	eng.StartSession(a.ID)

	pub := realtime.NewPublisher(rdb)
	pub.MatchFormed(ctx, realtime.MatchEvent{MatchID: 1, UserAID: 98, UserBID: 99})
	pub.MessageCreated(ctx, realtime.MessageEvent{MessageID: 1, MatchID: 1, SenderID: 99})

	// the message insert still notifies; the foreign match never does
	assert.Eventually(t, func() bool {
		return notifier.has(fmt.Sprintf("%d:New message", a.ID))
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, notifier.has(fmt.Sprintf("%d:It's a match!", a.ID)))
}

func TestEndSessionStopsNotifications(t *testing.T) {
	ctx := context.Background()
	eng, db, rdb, notifier := setup(t)
	a := seedProfile(t, db, "a", entity.SexFemale)
	b := seedProfile(t, db, "b", entity.SexMale)

	assert.NoError(t, eng.Load(ctx, a.ID))
	eng.StartSession(a.ID)
	eng.EndSession(a.ID)

	pub := realtime.NewPublisher(rdb)
	pub.MatchFormed(ctx, realtime.MatchEvent{MatchID: 1, UserAID: a.ID, UserBID: b.ID})
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, notifier.calls)
}
