package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campuscrush/app/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Row-insert notifications pushed by the backend. Two channels: one for
// match formation, one for every message insert. Subscribers filter by
// involvement, the broker does not.
const (
	TopicMatches  = "events:matches"
	TopicMessages = "events:messages"
)

type MatchEvent struct {
	MatchID   uint      `json:"match_id"`
	UserAID   uint      `json:"user_a_id"`
	UserBID   uint      `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (e MatchEvent) Involves(userID uint) bool {
	return e.UserAID == userID || e.UserBID == userID
}

type MessageEvent struct {
	MessageID uint      `json:"message_id"`
	MatchID   uint      `json:"match_id"`
	SenderID  uint      `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher fans row-insert events out over redis pub/sub. A nil
// Publisher is a no-op so repositories stay usable without the push
// channel wired (unit tests, offline tools).
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) MatchFormed(ctx context.Context, ev MatchEvent) {
	p.publish(ctx, TopicMatches, ev)
}

func (p *Publisher) MessageCreated(ctx context.Context, ev MessageEvent) {
	p.publish(ctx, TopicMessages, ev)
}

// publish is fire-and-forget: a dropped notification only delays
// reconciliation until the next full reload, it never loses data.
func (p *Publisher) publish(ctx context.Context, topic string, ev any) {
	if p == nil || p.rdb == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("marshal realtime event", "topic", topic, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		logger.Warn("publish realtime event", "topic", topic, "err", err)
	}
}
