package entity

import "time"

// Match holds an unordered user pair. Rows are stored with
// UserAID < UserBID so the unique index makes formation idempotent no
// matter which side discovers mutuality first.
type Match struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	UserAID   uint      `gorm:"column:user_a_id;not null;uniqueIndex:idx_match_pair"`
	UserBID   uint      `gorm:"column:user_b_id;not null;uniqueIndex:idx_match_pair"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// NormalizePair orders a pair for storage and lookup.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// Other returns the opposite side of the pair from the given user.
func (m *Match) Other(userID uint) uint {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// Involves reports whether the user is one side of the pair.
func (m *Match) Involves(userID uint) bool {
	return m.UserAID == userID || m.UserBID == userID
}

type MessageStatus string

const (
	MessageSent MessageStatus = "sent"
	MessageRead MessageStatus = "read"
)

// Message is immutable once created except for the sent→read status
// transition, which only the receiver performs.
type Message struct {
	ID        uint          `gorm:"primaryKey;column:id"`
	MatchID   uint          `gorm:"column:match_id;not null;index:idx_match_created"`
	SenderID  uint          `gorm:"column:sender_id;not null"`
	Text      string        `gorm:"column:text"`
	AudioRef  string        `gorm:"column:audio_ref"`
	Status    MessageStatus `gorm:"column:status;type:varchar(8);not null;default:sent"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime;index:idx_match_created"`
}
