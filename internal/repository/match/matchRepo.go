package matchRepo

import (
	"context"
	"errors"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"gorm.io/gorm"
)

type IMatchRepo interface {
	// FindByPair looks the unordered pair up; zero or one row.
	FindByPair(ctx context.Context, a, b uint) (*entity.Match, error)

	GetMatchByID(ctx context.Context, id uint) (*entity.Match, error)
	GetMatchesForUser(ctx context.Context, userID uint) ([]entity.Match, error)

	// DeleteMatch destroys the match and cascades to its messages in
	// one transaction. Both unmatch and block end up here.
	DeleteMatch(ctx context.Context, id uint) error
}

type MatchRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IMatchRepo {
	return &MatchRepo{db: db}
}

func (r *MatchRepo) FindByPair(ctx context.Context, a, b uint) (*entity.Match, error) {
	na, nb := entity.NormalizePair(a, b)

	var match entity.Match
	result := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", na, nb).
		First(&match)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &match, result.Error
}

func (r *MatchRepo) GetMatchByID(ctx context.Context, id uint) (*entity.Match, error) {
	var match entity.Match
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&match)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrMatchGone
	}
	return &match, result.Error
}

func (r *MatchRepo) GetMatchesForUser(ctx context.Context, userID uint) ([]entity.Match, error) {
	var matches []entity.Match
	result := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches)
	return matches, result.Error
}

func (r *MatchRepo) DeleteMatch(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", id).Delete(&entity.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Match{}).Error
	})
	if err != nil {
		return apperr.TransientWrite("delete match", err)
	}
	return nil
}
