package cooldownRepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	cooldownRepo "github.com/campuscrush/app/internal/repository/cooldown"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestLastRevealRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := cooldownRepo.New(rdb)

	// never revealed reads as zero time, not an error
	last, err := repo.GetLastReveal(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, last.IsZero())

	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, repo.SetLastReveal(ctx, 1, at))

	last, err = repo.GetLastReveal(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, at.Unix(), last.Unix())

	// per user, not global
	last, err = repo.GetLastReveal(ctx, 2)
	assert.NoError(t, err)
	assert.True(t, last.IsZero())
}
