package swipeRepo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/internal/logger"
	"github.com/campuscrush/app/internal/realtime"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ISwipeRepo interface {
	// CreateSwipe appends one decision row. A like that completes a
	// mutual pair forms the Match in the same transaction, which is
	// what makes formation atomic and idempotent: clients only detect
	// matches, they never create them.
	CreateSwipe(ctx context.Context, swiperID, swipedID uint, direction entity.Direction) (entity.Outcome, *entity.Match, error)

	// GetTodaySwipeCount derives the daily quota usage from rows with
	// timestamp at or after local midnight, cached in redis until the
	// day rolls over. The row count stays canonical, so drift from a
	// second session self-heals on the next cache miss.
	GetTodaySwipeCount(ctx context.Context, userID uint) (int, error)

	// GetSwipedProfileIDs lists every target the user has decided on,
	// either direction outcome. Discovery excludes all of them.
	GetSwipedProfileIDs(ctx context.Context, userID uint) ([]uint, error)

	HasLiked(ctx context.Context, swiperID, swipedID uint) (bool, error)
}

type SwipeRepo struct {
	db  *gorm.DB
	rdb *redis.Client
	pub *realtime.Publisher
}

func New(db *gorm.DB, rdb *redis.Client, pub *realtime.Publisher) ISwipeRepo {
	return &SwipeRepo{db: db, rdb: rdb, pub: pub}
}

func (r *SwipeRepo) CreateSwipe(ctx context.Context, swiperID, swipedID uint, direction entity.Direction) (entity.Outcome, *entity.Match, error) {
	var formed *entity.Match

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target entity.Profile
		if err := tx.Where("id = ?", swipedID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		var existing entity.Swipe
		err := tx.Where("swiper_id = ? AND swiped_id = ?", swiperID, swipedID).First(&existing).Error
		if err == nil {
			return apperr.ErrAlreadySwiped
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		swipe := entity.Swipe{
			SwiperID:  swiperID,
			SwipedID:  swipedID,
			Direction: direction,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&swipe).Error; err != nil {
			return err
		}

		if direction != entity.DirectionLike {
			return nil
		}

		var reverse entity.Swipe
		err = tx.Where("swiper_id = ? AND swiped_id = ? AND direction = ?",
			swipedID, swiperID, entity.DirectionLike).First(&reverse).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		a, b := entity.NormalizePair(swiperID, swipedID)
		match := entity.Match{UserAID: a, UserBID: b}
		if err := tx.Where("user_a_id = ? AND user_b_id = ?", a, b).
			FirstOrCreate(&match).Error; err != nil {
			return err
		}
		formed = &match
		return nil
	})

	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return entity.OutcomeNotFound, nil, nil
		}
		if errors.Is(err, apperr.ErrAlreadySwiped) {
			return 0, nil, err
		}
		return 0, nil, apperr.TransientWrite("create swipe", err)
	}

	r.bumpTodayCount(ctx, swiperID)

	if formed != nil {
		r.pub.MatchFormed(ctx, realtime.MatchEvent{
			MatchID:   formed.ID,
			UserAID:   formed.UserAID,
			UserBID:   formed.UserBID,
			CreatedAt: formed.CreatedAt,
		})
		return entity.OutcomeMatch, formed, nil
	}

	return entity.OutcomeNoMatch, nil, nil
}

func (r *SwipeRepo) GetTodaySwipeCount(ctx context.Context, userID uint) (int, error) {
	if r.rdb == nil {
		return r.countToday(ctx, userID)
	}

	countKey := swipeCountKey(userID)
	exists, err := r.rdb.Exists(ctx, countKey).Result()
	if err != nil {
		// cache down, fall back to the canonical count
		logger.Warn("swipe count cache unavailable", "err", err)
		return r.countToday(ctx, userID)
	}

	if exists == 0 {
		count, err := r.countToday(ctx, userID)
		if err != nil {
			return 0, err
		}
		r.rdb.Set(ctx, countKey, count, ttlUntilMidnight(time.Now()))
		return count, nil
	}

	return r.rdb.Get(ctx, countKey).Int()
}

func (r *SwipeRepo) GetSwipedProfileIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	result := r.db.WithContext(ctx).
		Model(&entity.Swipe{}).
		Select("swiped_id").
		Where("swiper_id = ?", userID).
		Find(&ids)
	return ids, result.Error
}

func (r *SwipeRepo) HasLiked(ctx context.Context, swiperID, swipedID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND direction = ?", swiperID, swipedID, entity.DirectionLike).
		Count(&count)
	return count > 0, result.Error
}

// Private functions

func (r *SwipeRepo) countToday(ctx context.Context, userID uint) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Swipe{}).
		Where("swiper_id = ? AND created_at >= ?", userID, startOfToday(time.Now())).
		Count(&count)
	return int(count), result.Error
}

func (r *SwipeRepo) bumpTodayCount(ctx context.Context, userID uint) {
	if r.rdb == nil {
		return
	}
	countKey := swipeCountKey(userID)
	if exists, err := r.rdb.Exists(ctx, countKey).Result(); err != nil || exists == 0 {
		return
	}
	if err := r.rdb.Incr(ctx, countKey).Err(); err != nil {
		logger.Warn("bump swipe count cache", "err", err)
	}
}

// Helper

func swipeCountKey(userID uint) string {
	return ":user:" + strconv.FormatUint(uint64(userID), 10) + ":swipes:count"
}

func startOfToday(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func ttlUntilMidnight(now time.Time) time.Duration {
	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return startOfTomorrow.Sub(now)
}
