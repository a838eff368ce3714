package socialRepo

import (
	"context"
	"errors"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"gorm.io/gorm"
)

type ISocialRepo interface {
	// Nudges. The daily cap is an existence check against today's rows,
	// not a counter.
	CreateNudge(ctx context.Context, nudge *entity.Nudge) (*entity.Nudge, error)
	HasNudgedToday(ctx context.Context, senderID uint, now time.Time) (bool, error)
	MarkNudgeSeen(ctx context.Context, nudgeID, receiverID uint) error
	GetNudgesForReceiver(ctx context.Context, receiverID uint) ([]entity.Nudge, error)

	// Crushes. The lifetime cap is authoritative here; the client-side
	// check against the local sent list is only a fast path.
	CreateCrush(ctx context.Context, crush *entity.Crush) (*entity.Crush, error)
	CountCrushesBySender(ctx context.Context, senderID uint) (int64, error)
	GetCrushByID(ctx context.Context, id uint) (*entity.Crush, error)
	UpdateCrushGuess(ctx context.Context, id uint, guessesLeft int, revealed bool) error
	GetCrushesForReceiver(ctx context.Context, receiverID uint) ([]entity.Crush, error)
	GetCrushesBySender(ctx context.Context, senderID uint) ([]entity.Crush, error)

	CreateReport(ctx context.Context, report *entity.Report) error
}

type SocialRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) ISocialRepo {
	return &SocialRepo{db: db}
}

func (r *SocialRepo) CreateNudge(ctx context.Context, nudge *entity.Nudge) (*entity.Nudge, error) {
	if err := r.db.WithContext(ctx).Create(nudge).Error; err != nil {
		return nil, apperr.TransientWrite("send nudge", err)
	}
	return nudge, nil
}

func (r *SocialRepo) HasNudgedToday(ctx context.Context, senderID uint, now time.Time) (bool, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Nudge{}).
		Where("sender_id = ? AND created_at >= ?", senderID, midnight).
		Count(&count)
	return count > 0, result.Error
}

// MarkNudgeSeen is idempotent; marking an already-seen nudge is a no-op.
func (r *SocialRepo) MarkNudgeSeen(ctx context.Context, nudgeID, receiverID uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Nudge{}).
		Where("id = ? AND receiver_id = ?", nudgeID, receiverID).
		Update("seen", true)
	if result.Error != nil {
		return apperr.TransientWrite("mark nudge seen", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *SocialRepo) GetNudgesForReceiver(ctx context.Context, receiverID uint) ([]entity.Nudge, error) {
	var nudges []entity.Nudge
	result := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&nudges)
	return nudges, result.Error
}

func (r *SocialRepo) CreateCrush(ctx context.Context, crush *entity.Crush) (*entity.Crush, error) {
	if crush.GuessesLeft == 0 {
		crush.GuessesLeft = entity.CrushGuesses
	}
	if err := r.db.WithContext(ctx).Create(crush).Error; err != nil {
		return nil, apperr.TransientWrite("send crush", err)
	}
	return crush, nil
}

func (r *SocialRepo) CountCrushesBySender(ctx context.Context, senderID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Crush{}).
		Where("sender_id = ?", senderID).
		Count(&count)
	return count, result.Error
}

func (r *SocialRepo) GetCrushByID(ctx context.Context, id uint) (*entity.Crush, error) {
	var crush entity.Crush
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&crush)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &crush, result.Error
}

func (r *SocialRepo) UpdateCrushGuess(ctx context.Context, id uint, guessesLeft int, revealed bool) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Crush{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"guesses_left": guessesLeft,
			"revealed":     revealed,
		})
	if result.Error != nil {
		return apperr.TransientWrite("update crush", result.Error)
	}
	return nil
}

func (r *SocialRepo) GetCrushesForReceiver(ctx context.Context, receiverID uint) ([]entity.Crush, error) {
	var crushes []entity.Crush
	result := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&crushes)
	return crushes, result.Error
}

func (r *SocialRepo) GetCrushesBySender(ctx context.Context, senderID uint) ([]entity.Crush, error) {
	var crushes []entity.Crush
	result := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Find(&crushes)
	return crushes, result.Error
}

func (r *SocialRepo) CreateReport(ctx context.Context, report *entity.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return apperr.TransientWrite("create report", err)
	}
	return nil
}
