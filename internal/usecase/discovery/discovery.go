package discovery

import (
	"context"
	"math/rand"
	"sync"

	"github.com/campuscrush/app/internal/entity"
	blockRepo "github.com/campuscrush/app/internal/repository/block"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	swipeRepo "github.com/campuscrush/app/internal/repository/swipe"
)

type IDiscoveryUseCase interface {
	// Refresh rebuilds the queue from a fresh read of profiles, swipe
	// history and blocks. Idempotent full replace; safe to call from
	// any reload path.
	Refresh(ctx context.Context, userID uint) error

	// Queue returns the user's current candidates in fetch order with
	// per-viewer compatibility attached. An empty queue is the "no more
	// candidates" terminal state, never an error.
	Queue(userID uint) []entity.Profile

	// Remove drops one target from the user's queue after a confirmed
	// swipe.
	Remove(userID, targetID uint)
}

type discoveryUseCase struct {
	profileRepo profileRepo.IProfileRepo
	swipeRepo   swipeRepo.ISwipeRepo
	blockRepo   blockRepo.IBlockRepo
	rules       []Rule
	jitter      func() int

	mu     sync.RWMutex
	queues map[uint][]entity.Profile
}

func New(profiles profileRepo.IProfileRepo, swipes swipeRepo.ISwipeRepo, blocks blockRepo.IBlockRepo, opts ...Option) IDiscoveryUseCase {
	u := &discoveryUseCase{
		profileRepo: profiles,
		swipeRepo:   swipes,
		blockRepo:   blocks,
		rules:       DefaultRules(),
		jitter:      func() int { return rand.Intn(10) },
		queues:      make(map[uint][]entity.Profile),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type Option func(*discoveryUseCase)

// WithRules swaps the eligibility rule chain; the campus sex policy
// lives there, not in this file's control flow.
func WithRules(rules []Rule) Option {
	return func(u *discoveryUseCase) { u.rules = rules }
}

// WithJitter fixes the score jitter source, for deterministic tests.
func WithJitter(jitter func() int) Option {
	return func(u *discoveryUseCase) { u.jitter = jitter }
}

func (u *discoveryUseCase) Refresh(ctx context.Context, userID uint) error {
	self, err := u.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return err
	}

	swipedIDs, err := u.swipeRepo.GetSwipedProfileIDs(ctx, userID)
	if err != nil {
		return err
	}

	blockedIDs, err := u.blockRepo.GetBlockedIDs(ctx, userID)
	if err != nil {
		return err
	}

	exclude := append(append([]uint{}, swipedIDs...), blockedIDs...)
	candidates, err := u.profileRepo.GetVisibleProfiles(ctx, userID, exclude)
	if err != nil {
		return err
	}

	queue := make([]entity.Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if !eligible(u.rules, self, &candidate) {
			continue
		}
		candidate.Compatibility = Score(self, &candidate, u.jitter())
		queue = append(queue, candidate)
	}

	u.mu.Lock()
	u.queues[userID] = queue
	u.mu.Unlock()
	return nil
}

func (u *discoveryUseCase) Queue(userID uint) []entity.Profile {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]entity.Profile, len(u.queues[userID]))
	copy(out, u.queues[userID])
	return out
}

func (u *discoveryUseCase) Remove(userID, targetID uint) {
	u.mu.Lock()
	defer u.mu.Unlock()
	queue := u.queues[userID]
	for i, p := range queue {
		if p.ID == targetID {
			u.queues[userID] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}
