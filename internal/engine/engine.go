package engine

import (
	"context"
	"sync"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/internal/logger"
	"github.com/campuscrush/app/internal/realtime"
	admirerRepo "github.com/campuscrush/app/internal/repository/admirer"
	blockRepo "github.com/campuscrush/app/internal/repository/block"
	cooldownRepo "github.com/campuscrush/app/internal/repository/cooldown"
	matchRepo "github.com/campuscrush/app/internal/repository/match"
	messageRepo "github.com/campuscrush/app/internal/repository/message"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	socialRepo "github.com/campuscrush/app/internal/repository/social"
	swipeRepo "github.com/campuscrush/app/internal/repository/swipe"
	"github.com/campuscrush/app/internal/usecase/conversation"
	"github.com/campuscrush/app/internal/usecase/discovery"
	"github.com/campuscrush/app/internal/usecase/social"
	"github.com/campuscrush/app/internal/usecase/swipe"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Notifier is the seam the UI hangs user-visible notifications on.
type Notifier interface {
	Notify(userID uint, title, body string)
}

// LogNotifier is the default sink when no UI is attached.
type LogNotifier struct{}

func (LogNotifier) Notify(userID uint, title, body string) {
	logger.Info("notification", "user_id", userID, "title", title, "body", body)
}

// Engine composes the services and owns the paths every mutation and
// every push event converge on. It holds no domain state of its own;
// each service owns its slice behind its interface.
type Engine struct {
	Profiles      profileRepo.IProfileRepo
	Discovery     discovery.IDiscoveryUseCase
	Swipes        swipe.ISwipeUseCase
	Conversations conversation.IConversationUseCase
	Social        social.ISocialUseCase

	socialRepo  socialRepo.ISocialRepo
	admirerRepo admirerRepo.IAdmirerRepo
	sub         *realtime.Subscriber
	notifier    Notifier
	ctx         context.Context

	mu       sync.Mutex
	sessions map[uint]*realtime.Scope
}

func New(ctx context.Context, db *gorm.DB, rdb *redis.Client, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	pub := realtime.NewPublisher(rdb)
	sub := realtime.NewSubscriber(rdb)

	profiles := profileRepo.New(db)
	swipes := swipeRepo.New(db, rdb, pub)
	matches := matchRepo.New(db)
	messages := messageRepo.New(db, pub)
	socials := socialRepo.New(db)
	admirers := admirerRepo.New(db)
	cooldowns := cooldownRepo.New(rdb)
	blocks := blockRepo.New(db)

	e := &Engine{
		Profiles:    profiles,
		socialRepo:  socials,
		admirerRepo: admirers,
		sub:         sub,
		notifier:    notifier,
		ctx:         ctx,
		sessions:    make(map[uint]*realtime.Scope),
	}

	e.Discovery = discovery.New(profiles, swipes, blocks)
	e.Swipes = swipe.New(swipes, e.Discovery, e.onMatched)
	e.Conversations = conversation.New(ctx, matches, messages, profiles, blocks, sub)
	e.Social = social.New(socials, admirers, cooldowns, profiles, e.Swipes)

	return e
}

// StartSession opens the always-on subscription for a user: match
// inserts involving them force a full refresh plus a notification;
// foreign message inserts only produce a lightweight notification (the
// per-conversation scope owns reloads for open conversations).
func (e *Engine) StartSession(userID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.sessions[userID]; exists {
		return
	}

	e.sessions[userID] = e.sub.Open(e.ctx, "session", realtime.Handlers{
		OnMatch: func(ev realtime.MatchEvent) {
			if !ev.Involves(userID) {
				return
			}
			if err := e.Reconcile(e.ctx, userID); err != nil {
				logger.Warn("match event reconcile", "user_id", userID, "err", err)
			}
			e.notifier.Notify(userID, "It's a match!", "You have a new match")
		},
		OnMessage: func(ev realtime.MessageEvent) {
			if ev.SenderID == userID {
				return
			}
			e.notifier.Notify(userID, "New message", "Someone sent you a message")
		},
	}, realtime.TopicMatches, realtime.TopicMessages)
}

// EndSession tears down the user's listeners so nothing reconciles on
// their behalf after they leave.
func (e *Engine) EndSession(userID uint) {
	e.mu.Lock()
	scope, exists := e.sessions[userID]
	delete(e.sessions, userID)
	e.mu.Unlock()

	if exists {
		scope.Close()
	}
	e.Conversations.CloseAll(userID)
}

// Load is the initial bulk load: a batch of independent reads, applied
// only if every one of them succeeds. One failed read fails the whole
// batch; the UI gets a single "failed to load, retry" state.
//
// The discovery and match reads prime their services' local state; the
// nudge, crush and admirer reads are verification only, since their
// handlers fetch on demand. They stay in the batch so a broken social
// store fails the load instead of surfacing mid-session.
func (e *Engine) Load(ctx context.Context, userID uint) error {
	reads := []struct {
		name string
		run  func() error
	}{
		{"own profile", func() error {
			_, err := e.Profiles.GetProfileByID(ctx, userID)
			return err
		}},
		{"discovery queue", func() error {
			return e.Discovery.Refresh(ctx, userID)
		}},
		{"match list", func() error {
			return e.Conversations.RefreshMatches(ctx, userID)
		}},
		{"swipe quota", func() error {
			_, err := e.Swipes.RemainingToday(ctx, userID)
			return err
		}},
		{"nudges", func() error {
			_, err := e.socialRepo.GetNudgesForReceiver(ctx, userID)
			return err
		}},
		{"crushes", func() error {
			_, err := e.socialRepo.GetCrushesForReceiver(ctx, userID)
			return err
		}},
		{"admirer count", func() error {
			_, err := e.admirerRepo.CountAdmirers(ctx, userID)
			return err
		}},
	}

	errs := make([]error, len(reads))
	var wg sync.WaitGroup
	for i, read := range reads {
		i, read := i, read
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = read.run()
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return apperr.BatchLoad(reads[i].name, err)
		}
	}
	return nil
}

// Reconcile is the routine every mutation path and push event converge
// on. Full-replace and idempotent, so interleaved completions from
// racing triggers settle on the same state.
func (e *Engine) Reconcile(ctx context.Context, userID uint) error {
	return e.Load(ctx, userID)
}

// onMatched is hung off right-swipes that detect a formed match.
func (e *Engine) onMatched(ctx context.Context, match *entity.Match) {
	for _, userID := range []uint{match.UserAID, match.UserBID} {
		if err := e.Conversations.RefreshMatches(ctx, userID); err != nil {
			logger.Warn("refresh matches after match", "user_id", userID, "err", err)
		}
	}
}
