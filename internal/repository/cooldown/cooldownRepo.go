package cooldownRepo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/redis/go-redis/v9"
)

// One persisted last-reveal timestamp per user, not per admirer. Whether
// a reveal is allowed is always a pure function of (now, lastReveal,
// window); nothing here ticks.
type ICooldownRepo interface {
	GetLastReveal(ctx context.Context, userID uint) (time.Time, error)
	SetLastReveal(ctx context.Context, userID uint, at time.Time) error
}

type CooldownRepo struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) ICooldownRepo {
	return &CooldownRepo{rdb: rdb}
}

func (r *CooldownRepo) GetLastReveal(ctx context.Context, userID uint) (time.Time, error) {
	val, err := r.rdb.Get(ctx, revealKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil // never revealed
	}
	if err != nil {
		return time.Time{}, err
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(unix, 0), nil
}

func (r *CooldownRepo) SetLastReveal(ctx context.Context, userID uint, at time.Time) error {
	if err := r.rdb.Set(ctx, revealKey(userID), at.Unix(), 0).Err(); err != nil {
		return apperr.TransientWrite("persist reveal timestamp", err)
	}
	return nil
}

func revealKey(userID uint) string {
	return ":user:" + strconv.FormatUint(uint64(userID), 10) + ":reveal:last"
}
