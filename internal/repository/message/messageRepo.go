package messageRepo

import (
	"context"
	"errors"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/internal/realtime"
	"gorm.io/gorm"
)

// PageSize is the conversation page length. hasMore is derived from a
// fetch returning a full page.
const PageSize = 30

type IMessageRepo interface {
	// GetPage fetches up to limit messages newest-first, strictly older
	// than before when a cursor is given. Callers reverse for display.
	GetPage(ctx context.Context, matchID uint, before *time.Time, limit int) ([]entity.Message, error)

	CreateMessage(ctx context.Context, message *entity.Message) (*entity.Message, error)

	// MarkAllRead flips every sent message in the match not authored by
	// the reader. Receiver-only by construction.
	MarkAllRead(ctx context.Context, matchID, readerID uint) error

	CountUnread(ctx context.Context, matchID, readerID uint) (int64, error)
	GetLastMessage(ctx context.Context, matchID uint) (*entity.Message, error)
}

type MessageRepo struct {
	db  *gorm.DB
	pub *realtime.Publisher
}

func New(db *gorm.DB, pub *realtime.Publisher) IMessageRepo {
	return &MessageRepo{db: db, pub: pub}
}

func (r *MessageRepo) GetPage(ctx context.Context, matchID uint, before *time.Time, limit int) ([]entity.Message, error) {
	var messages []entity.Message

	query := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("match_id = ?", matchID)

	if before != nil {
		query = query.Where("created_at < ?", *before)
	}

	result := query.Order("created_at DESC").Limit(limit).Find(&messages)
	return messages, result.Error
}

func (r *MessageRepo) CreateMessage(ctx context.Context, message *entity.Message) (*entity.Message, error) {
	if message.Status == "" {
		message.Status = entity.MessageSent
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, apperr.TransientWrite("send message", err)
	}

	r.pub.MessageCreated(ctx, realtime.MessageEvent{
		MessageID: message.ID,
		MatchID:   message.MatchID,
		SenderID:  message.SenderID,
		CreatedAt: message.CreatedAt,
	})

	return message, nil
}

func (r *MessageRepo) MarkAllRead(ctx context.Context, matchID, readerID uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("match_id = ? AND sender_id <> ? AND status = ?", matchID, readerID, entity.MessageSent).
		Update("status", entity.MessageRead)
	if result.Error != nil {
		return apperr.TransientWrite("mark read", result.Error)
	}
	return nil
}

func (r *MessageRepo) CountUnread(ctx context.Context, matchID, readerID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("match_id = ? AND sender_id <> ? AND status = ?", matchID, readerID, entity.MessageSent).
		Count(&count)
	return count, result.Error
}

func (r *MessageRepo) GetLastMessage(ctx context.Context, matchID uint) (*entity.Message, error) {
	var message entity.Message
	result := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		First(&message)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &message, result.Error
}
