package entity

import "time"

type SignUpResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type SwipeResponse struct {
	Outcome     string  `json:"outcome"`
	OutcomeEnum Outcome `json:"outcome_enum"`
	Remaining   int     `json:"remaining_today"`
}

type DiscoveryResponse struct {
	Profiles         []Profile `json:"profiles"`
	NoMoreCandidates bool      `json:"no_more_candidates"`
}

// MatchSummary is one row of the match list: the other party, unread
// count, and the last-message preview patched locally on send.
type MatchSummary struct {
	MatchID     uint      `json:"match_id"`
	Profile     Profile   `json:"profile"`
	UnreadCount int64     `json:"unread_count"`
	LastPreview string    `json:"last_preview"`
	FormedAt    time.Time `json:"formed_at"`
}

type ConversationResponse struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

type NudgeResponse struct {
	ID         RemoteID  `json:"id"`
	ReceiverID uint      `json:"receiver_id"`
	Message    string    `json:"message"`
	Seen       bool      `json:"seen"`
	SentAt     time.Time `json:"sent_at"`
}

type CrushResponse struct {
	ID          RemoteID  `json:"id"`
	Hint        string    `json:"hint"`
	GuessesLeft int       `json:"guesses_left"`
	Revealed    bool      `json:"revealed"`
	SenderName  string    `json:"sender_name,omitempty"` // set only once revealed
	SentAt      time.Time `json:"sent_at"`
}

type GuessCrushResponse struct {
	Correct     bool   `json:"correct"`
	GuessesLeft int    `json:"guesses_left"`
	Revealed    bool   `json:"revealed"`
	SenderName  string `json:"sender_name,omitempty"`
}

type AdmirerListResponse struct {
	Count int64               `json:"count"`
	Hints []SecretAdmirerHint `json:"hints"`
}

type RevealResponse struct {
	Profile      Profile       `json:"profile"`
	NextRevealIn time.Duration `json:"next_reveal_in"`
}
