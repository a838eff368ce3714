package admirerRepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"gorm.io/gorm"
)

type IAdmirerRepo interface {
	// GetHints lists profiles that liked the user without a mutual
	// match yet, projected down to coarse attributes. Blocked-either-
	// direction and shadow-banned admirers never appear.
	GetHints(ctx context.Context, userID uint) ([]entity.SecretAdmirerHint, error)

	CountAdmirers(ctx context.Context, userID uint) (int64, error)

	// GetAdmirerProfile returns the full profile, but only if the user
	// actually has a pending like from them. Callers gate this behind
	// the reveal cooldown.
	GetAdmirerProfile(ctx context.Context, userID, admirerID uint) (*entity.Profile, error)
}

type AdmirerRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IAdmirerRepo {
	return &AdmirerRepo{db: db}
}

func (r *AdmirerRepo) GetHints(ctx context.Context, userID uint) ([]entity.SecretAdmirerHint, error) {
	profiles, err := r.admirerProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}

	hints := make([]entity.SecretAdmirerHint, 0, len(profiles))
	for _, p := range profiles {
		hints = append(hints, entity.SecretAdmirerHint{
			AdmirerID:        p.ID,
			Program:          p.Program,
			Section:          p.Section,
			PhotoFingerprint: photoFingerprint(p.Photos),
		})
	}
	return hints, nil
}

func (r *AdmirerRepo) CountAdmirers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	result := r.admirerQuery(ctx, userID).Count(&count)
	return count, result.Error
}

func (r *AdmirerRepo) GetAdmirerProfile(ctx context.Context, userID, admirerID uint) (*entity.Profile, error) {
	var profiles []entity.Profile
	result := r.admirerQuery(ctx, userID).
		Where("profiles.id = ?", admirerID).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(profiles) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &profiles[0], nil
}

// Private functions

// admirerQuery selects profiles with a pending like toward the user:
// they liked, no mutual match, no block either way, not shadow banned.
func (r *AdmirerRepo) admirerQuery(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Joins("JOIN swipes ON swipes.swiper_id = profiles.id").
		Where("swipes.swiped_id = ? AND swipes.direction = ?", userID, entity.DirectionLike).
		Where("profiles.is_shadow_banned = ?", false).
		Where(`NOT EXISTS (
			SELECT 1 FROM matches
			WHERE (matches.user_a_id = profiles.id AND matches.user_b_id = ?)
			   OR (matches.user_a_id = ? AND matches.user_b_id = profiles.id)
		)`, userID, userID).
		Where(`NOT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocks.blocker_id = profiles.id AND blocks.blocked_id = ?)
			   OR (blocks.blocker_id = ? AND blocks.blocked_id = profiles.id)
		)`, userID, userID)
}

func (r *AdmirerRepo) admirerProfiles(ctx context.Context, userID uint) ([]entity.Profile, error) {
	var profiles []entity.Profile
	result := r.admirerQuery(ctx, userID).
		Order("swipes.created_at DESC").
		Find(&profiles)
	return profiles, result.Error
}

// photoFingerprint hashes the first photo reference so a hint can hint
// at a photo without identifying it.
func photoFingerprint(photos entity.Photos) string {
	if len(photos) == 0 {
		return ""
	}
	sum := sha256.Sum256([]byte(photos[0]))
	return hex.EncodeToString(sum[:8])
}
