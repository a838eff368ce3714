package blockRepo

import (
	"context"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"gorm.io/gorm"
)

type IBlockRepo interface {
	CreateBlock(ctx context.Context, blockerID, blockedID uint) error

	// GetBlockedIDs returns every user blocked in either direction;
	// discovery and the match list exclude all of them symmetrically.
	GetBlockedIDs(ctx context.Context, userID uint) ([]uint, error)

	IsBlockedEitherWay(ctx context.Context, a, b uint) (bool, error)
}

type BlockRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IBlockRepo {
	return &BlockRepo{db: db}
}

func (r *BlockRepo) CreateBlock(ctx context.Context, blockerID, blockedID uint) error {
	block := entity.Block{BlockerID: blockerID, BlockedID: blockedID}
	err := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		FirstOrCreate(&block).Error
	if err != nil {
		return apperr.TransientWrite("create block", err)
	}
	return nil
}

func (r *BlockRepo) GetBlockedIDs(ctx context.Context, userID uint) ([]uint, error) {
	var blocks []entity.Block
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks)
	if result.Error != nil {
		return nil, result.Error
	}

	ids := make([]uint, 0, len(blocks))
	for _, b := range blocks {
		if b.BlockerID == userID {
			ids = append(ids, b.BlockedID)
		} else {
			ids = append(ids, b.BlockerID)
		}
	}
	return ids, nil
}

func (r *BlockRepo) IsBlockedEitherWay(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count)
	return count > 0, result.Error
}
