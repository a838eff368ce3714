package conversation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/internal/realtime"
	blockRepo "github.com/campuscrush/app/internal/repository/block"
	matchRepo "github.com/campuscrush/app/internal/repository/match"
	messageRepo "github.com/campuscrush/app/internal/repository/message"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	"github.com/campuscrush/app/internal/usecase/conversation"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	conv     conversation.IConversationUseCase
	messages messageRepo.IMessageRepo
	cancel   context.CancelFunc
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(&entity.Profile{}, &entity.Match{}, &entity.Message{}, &entity.Block{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sessionCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pub := realtime.NewPublisher(rdb)
	messages := messageRepo.New(db, pub)
	conv := conversation.New(
		sessionCtx,
		matchRepo.New(db),
		messages,
		profileRepo.New(db),
		blockRepo.New(db),
		realtime.NewSubscriber(rdb),
	)

	return &fixture{db: db, conv: conv, messages: messages, cancel: cancel}
}

func (f *fixture) seedProfile(t *testing.T, name string) entity.Profile {
	t.Helper()
	p := entity.Profile{
		Name:       name,
		Email:      name + "@campus.edu",
		Password:   "x",
		Sex:        entity.SexFemale,
		Age:        21,
		Chronotype: 50,
	}
	if err := f.db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	return p
}

func (f *fixture) seedMatch(t *testing.T, a, b uint) entity.Match {
	t.Helper()
	na, nb := entity.NormalizePair(a, b)
	m := entity.Match{UserAID: na, UserBID: nb}
	if err := f.db.Create(&m).Error; err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}
	return m
}

func (f *fixture) seedMessages(t *testing.T, matchID, senderID uint, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		m := entity.Message{
			MatchID:   matchID,
			SenderID:  senderID,
			Text:      fmt.Sprintf("msg %d", i),
			Status:    entity.MessageSent,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := f.db.Create(&m).Error; err != nil {
			t.Fatalf("failed to seed message: %v", err)
		}
	}
}

func TestOpenEmptyConversation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	resp, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.NoError(t, err)
	assert.Empty(t, resp.Messages)
	assert.False(t, resp.HasMore)
}

func TestOpenUnknownMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")

	_, err := f.conv.Open(ctx, a.ID, 42)
	assert.ErrorIs(t, err, apperr.ErrMatchGone)
}

func TestOpenForeignMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	c := f.seedProfile(t, "c")
	match := f.seedMatch(t, a.ID, b.ID)

	_, err := f.conv.Open(ctx, c.ID, match.ID)
	assert.ErrorIs(t, err, apperr.ErrMatchGone)
}

func TestOpenAndLoadMorePagination(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)
	f.seedMessages(t, match.ID, b.ID, 45)

	resp, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.NoError(t, err)
	assert.Len(t, resp.Messages, 30)
	assert.True(t, resp.HasMore)
	// ascending for display, newest last
	assert.Equal(t, "msg 15", resp.Messages[0].Text)
	assert.Equal(t, "msg 44", resp.Messages[len(resp.Messages)-1].Text)

	resp, err = f.conv.LoadMore(ctx, a.ID, match.ID)
	assert.NoError(t, err)
	assert.Len(t, resp.Messages, 45)
	assert.False(t, resp.HasMore)
	assert.Equal(t, "msg 0", resp.Messages[0].Text)

	// exhausted history is a no-op, not an error
	resp, err = f.conv.LoadMore(ctx, a.ID, match.ID)
	assert.NoError(t, err)
	assert.Len(t, resp.Messages, 45)
}

func TestSendValidatesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	_, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.NoError(t, err)

	_, err = f.conv.Send(ctx, a.ID, match.ID, entity.SendMessageRequest{})
	assert.True(t, apperr.IsValidation(err))

	var count int64
	f.db.Model(&entity.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSendRequiresOpenConversation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	_, err := f.conv.Send(ctx, a.ID, match.ID, entity.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrMatchGone)
}

func TestSendReloadsAndPatchesPreview(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	assert.NoError(t, f.conv.RefreshMatches(ctx, a.ID))
	_, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.NoError(t, err)

	resp, err := f.conv.Send(ctx, a.ID, match.ID, entity.SendMessageRequest{Text: "see you at the canteen"})
	assert.NoError(t, err)
	if assert.Len(t, resp.Messages, 1) {
		assert.Equal(t, "see you at the canteen", resp.Messages[0].Text)
	}

	matches := f.conv.Matches(a.ID)
	if assert.Len(t, matches, 1) {
		assert.Equal(t, "see you at the canteen", matches[0].LastPreview)
	}
}

func TestVoiceNotePreview(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	assert.NoError(t, f.conv.RefreshMatches(ctx, a.ID))
	_, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.NoError(t, err)

	_, err = f.conv.Send(ctx, a.ID, match.ID, entity.SendMessageRequest{AudioRef: "audio/abc.ogg"})
	assert.NoError(t, err)

	matches := f.conv.Matches(a.ID)
	if assert.Len(t, matches, 1) {
		assert.Equal(t, "[voice note]", matches[0].LastPreview)
	}
}

func TestRefreshMatchesUnreadCounts(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)
	f.seedMessages(t, match.ID, b.ID, 3)

	assert.NoError(t, f.conv.RefreshMatches(ctx, a.ID))

	matches := f.conv.Matches(a.ID)
	if assert.Len(t, matches, 1) {
		assert.Equal(t, int64(3), matches[0].UnreadCount)
		assert.Equal(t, "msg 2", matches[0].LastPreview)
		assert.Equal(t, b.ID, matches[0].Profile.ID)
	}
}

func TestMarkReadResetsLocalAndRows(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)
	f.seedMessages(t, match.ID, b.ID, 3)

	assert.NoError(t, f.conv.RefreshMatches(ctx, a.ID))
	assert.NoError(t, f.conv.MarkRead(ctx, a.ID, match.ID))

	matches := f.conv.Matches(a.ID)
	if assert.Len(t, matches, 1) {
		assert.Equal(t, int64(0), matches[0].UnreadCount)
	}

	var count int64
	f.db.Model(&entity.Message{}).Where("status = ?", entity.MessageSent).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUnmatchCascades(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)
	f.seedMessages(t, match.ID, b.ID, 2)

	assert.NoError(t, f.conv.RefreshMatches(ctx, a.ID))
	assert.NoError(t, f.conv.Unmatch(ctx, a.ID, match.ID))

	assert.Empty(t, f.conv.Matches(a.ID))

	var count int64
	f.db.Model(&entity.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)

	_, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.ErrorIs(t, err, apperr.ErrMatchGone)
}

func TestBlockDestroysMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	assert.NoError(t, f.conv.RefreshMatches(ctx, a.ID))
	assert.NoError(t, f.conv.Block(ctx, a.ID, b.ID))

	assert.Empty(t, f.conv.Matches(a.ID))

	var count int64
	f.db.Model(&entity.Match{}).Count(&count)
	assert.Equal(t, int64(0), count)
	f.db.Model(&entity.Block{}).Count(&count)
	assert.Equal(t, int64(1), count)
	_ = match
}

func TestRealtimeInsertTriggersReload(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.seedProfile(t, "a")
	b := f.seedProfile(t, "b")
	match := f.seedMatch(t, a.ID, b.ID)

	_, err := f.conv.Open(ctx, a.ID, match.ID)
	assert.NoError(t, err)

	// the other side inserts through the repo, which publishes
	_, err = f.messages.CreateMessage(ctx, &entity.Message{
		MatchID:  match.ID,
		SenderID: b.ID,
		Text:     "surprise",
	})
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		resp, err := f.conv.LoadMore(ctx, a.ID, match.ID)
		return err == nil && len(resp.Messages) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
