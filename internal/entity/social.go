package entity

import "time"

// NudgePresets is the fixed list a sender picks from. Free-text nudges
// are rejected before any write.
var NudgePresets = []string{
	"Someone thinks your playlist is elite",
	"Someone wants to split a midnight maggi with you",
	"Someone noticed you in the library",
	"Someone says your red flag is a green flag",
}

func IsNudgePreset(message string) bool {
	for _, preset := range NudgePresets {
		if preset == message {
			return true
		}
	}
	return false
}

// Nudge is an anonymous preset-message signal, at most one per sender
// per calendar day regardless of receiver.
type Nudge struct {
	ID         uint      `gorm:"primaryKey;column:id"`
	SenderID   uint      `gorm:"column:sender_id;not null;index"`
	ReceiverID uint      `gorm:"column:receiver_id;not null;index"`
	Message    string    `gorm:"column:message;not null"`
	Seen       bool      `gorm:"column:seen;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

const (
	// CrushLifetimeCap is the number of crushes a user may ever send.
	CrushLifetimeCap = 3
	// CrushGuesses is how many name guesses each received crush allows.
	CrushGuesses = 3
)

// Crush carries a hint toward the sender's identity. GuessesLeft only
// decreases; Revealed=true is terminal.
type Crush struct {
	ID          uint      `gorm:"primaryKey;column:id"`
	SenderID    uint      `gorm:"column:sender_id;not null;index"`
	ReceiverID  uint      `gorm:"column:receiver_id;not null;index"`
	Hint        string    `gorm:"column:hint;not null"`
	GuessesLeft int       `gorm:"column:guesses_left;not null;default:3"`
	Revealed    bool      `gorm:"column:revealed;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Exhausted reports the silent terminal state: no guesses left and the
// sender never identified.
func (c *Crush) Exhausted() bool {
	return c.GuessesLeft <= 0 && !c.Revealed
}

// Block removes both users from each other's discovery queue and match
// list in both directions.
type Block struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	BlockerID uint      `gorm:"column:blocker_id;not null;uniqueIndex:idx_blocker_blocked"`
	BlockedID uint      `gorm:"column:blocked_id;not null;uniqueIndex:idx_blocker_blocked"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Report struct {
	ID         uint      `gorm:"primaryKey;column:id"`
	ReporterID uint      `gorm:"column:reporter_id;not null"`
	ReportedID uint      `gorm:"column:reported_id;not null"`
	Reason     string    `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// SecretAdmirerHint is a deliberately coarse projection of a profile
// that liked the viewer without a mutual match yet. AdmirerID is only an
// opaque handle for targeting a reveal; name and photos stay hidden and
// the fingerprint is non-reversible.
type SecretAdmirerHint struct {
	AdmirerID        uint   `json:"admirer_id"`
	Program          string `json:"program"`
	Section          string `json:"section"`
	PhotoFingerprint string `json:"photo_fingerprint"`
}

// RevealCooldown is the global gate between secret-admirer reveals.
// One persisted last-reveal timestamp per user, no token accumulation.
const RevealCooldown = time.Hour
