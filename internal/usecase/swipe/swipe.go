package swipe

import (
	"context"
	"sync"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	swipeRepo "github.com/campuscrush/app/internal/repository/swipe"
	"github.com/campuscrush/app/internal/usecase/discovery"
)

type ISwipeUseCase interface {
	SwipeLeft(ctx context.Context, userID, targetID uint) (*entity.SwipeResponse, error)
	SwipeRight(ctx context.Context, userID, targetID uint) (*entity.SwipeResponse, error)

	// RemainingToday is 50 minus rows since local midnight; it reads
	// the derived count, so drift from another session self-heals.
	RemainingToday(ctx context.Context, userID uint) (int, error)
}

// MatchedFunc is invoked after a right-swipe detects a formed Match.
// The coordinator hangs the full-reload path off it.
type MatchedFunc func(ctx context.Context, match *entity.Match)

type swipeUseCase struct {
	swipeRepo swipeRepo.ISwipeRepo
	queue     discovery.IDiscoveryUseCase
	onMatched MatchedFunc

	mu         sync.Mutex
	todayCount map[uint]int
}

func New(swipes swipeRepo.ISwipeRepo, queue discovery.IDiscoveryUseCase, onMatched MatchedFunc) ISwipeUseCase {
	return &swipeUseCase{
		swipeRepo:  swipes,
		queue:      queue,
		onMatched:  onMatched,
		todayCount: make(map[uint]int),
	}
}

func (u *swipeUseCase) SwipeLeft(ctx context.Context, userID, targetID uint) (*entity.SwipeResponse, error) {
	return u.swipe(ctx, userID, targetID, entity.DirectionDislike)
}

func (u *swipeUseCase) SwipeRight(ctx context.Context, userID, targetID uint) (*entity.SwipeResponse, error) {
	return u.swipe(ctx, userID, targetID, entity.DirectionLike)
}

func (u *swipeUseCase) RemainingToday(ctx context.Context, userID uint) (int, error) {
	count, err := u.swipeRepo.GetTodaySwipeCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	u.mu.Lock()
	u.todayCount[userID] = count
	u.mu.Unlock()

	remaining := entity.SwipeQuota - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// swipe checks the quota before touching anything, writes the row, and
// only then patches local state. A failed write leaves the queue and
// counts exactly as they were; nothing is removed optimistically.
func (u *swipeUseCase) swipe(ctx context.Context, userID, targetID uint, direction entity.Direction) (*entity.SwipeResponse, error) {
	remaining, err := u.RemainingToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, apperr.Quota("daily swipes")
	}

	outcome, match, err := u.swipeRepo.CreateSwipe(ctx, userID, targetID, direction)
	if err != nil {
		return nil, err
	}

	if outcome == entity.OutcomeNotFound {
		return &entity.SwipeResponse{
			Outcome:     outcome.String(),
			OutcomeEnum: outcome,
			Remaining:   remaining,
		}, nil
	}

	u.queue.Remove(userID, targetID)
	u.mu.Lock()
	u.todayCount[userID]++
	remaining = entity.SwipeQuota - u.todayCount[userID]
	u.mu.Unlock()

	if match != nil && u.onMatched != nil {
		u.onMatched(ctx, match)
	}

	return &entity.SwipeResponse{
		Outcome:     outcome.String(),
		OutcomeEnum: outcome,
		Remaining:   remaining,
	}, nil
}
