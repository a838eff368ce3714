package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"github.com/campuscrush/app/internal/logger"
	"github.com/campuscrush/app/internal/realtime"
	blockRepo "github.com/campuscrush/app/internal/repository/block"
	matchRepo "github.com/campuscrush/app/internal/repository/match"
	messageRepo "github.com/campuscrush/app/internal/repository/message"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
)

type IConversationUseCase interface {
	// RefreshMatches rebuilds the caller's match list with unread
	// counts and last-message previews. Full replace, idempotent.
	RefreshMatches(ctx context.Context, userID uint) error
	Matches(userID uint) []entity.MatchSummary

	// Open loads the newest page and subscribes the conversation to
	// inserts for its match. Close tears the subscription down; a
	// leaked scope means duplicate reconciliation triggers.
	Open(ctx context.Context, userID, matchID uint) (*entity.ConversationResponse, error)
	Close(userID, matchID uint)
	CloseAll(userID uint)

	LoadMore(ctx context.Context, userID, matchID uint) (*entity.ConversationResponse, error)
	Send(ctx context.Context, userID, matchID uint, req entity.SendMessageRequest) (*entity.ConversationResponse, error)
	MarkRead(ctx context.Context, userID, matchID uint) error

	Unmatch(ctx context.Context, userID, matchID uint) error
	Block(ctx context.Context, userID, targetID uint) error
}

// conversationState is the locally held window over one match's
// messages, ascending for display. The cursor is the timestamp of the
// oldest held message and strictly decreases across LoadMore calls.
type conversationState struct {
	mu       sync.Mutex
	messages []entity.Message
	hasMore  bool
	scope    *realtime.Scope
}

type convKey struct {
	userID  uint
	matchID uint
}

type conversationUseCase struct {
	matchRepo   matchRepo.IMatchRepo
	messageRepo messageRepo.IMessageRepo
	profileRepo profileRepo.IProfileRepo
	blockRepo   blockRepo.IBlockRepo
	sub         *realtime.Subscriber
	sessionCtx  context.Context

	mu        sync.RWMutex
	summaries map[uint][]entity.MatchSummary
	open      map[convKey]*conversationState
}

func New(
	sessionCtx context.Context,
	matches matchRepo.IMatchRepo,
	messages messageRepo.IMessageRepo,
	profiles profileRepo.IProfileRepo,
	blocks blockRepo.IBlockRepo,
	sub *realtime.Subscriber,
) IConversationUseCase {
	return &conversationUseCase{
		matchRepo:   matches,
		messageRepo: messages,
		profileRepo: profiles,
		blockRepo:   blocks,
		sub:         sub,
		sessionCtx:  sessionCtx,
		summaries:   make(map[uint][]entity.MatchSummary),
		open:        make(map[convKey]*conversationState),
	}
}

func (u *conversationUseCase) RefreshMatches(ctx context.Context, userID uint) error {
	matches, err := u.matchRepo.GetMatchesForUser(ctx, userID)
	if err != nil {
		return err
	}

	blockedIDs, err := u.blockRepo.GetBlockedIDs(ctx, userID)
	if err != nil {
		return err
	}
	blocked := make(map[uint]bool, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = true
	}

	summaries := make([]entity.MatchSummary, 0, len(matches))
	for _, m := range matches {
		otherID := m.Other(userID)
		if blocked[otherID] {
			continue
		}

		profile, err := u.profileRepo.GetProfileByID(ctx, otherID)
		if err != nil {
			return err
		}

		unread, err := u.messageRepo.CountUnread(ctx, m.ID, userID)
		if err != nil {
			return err
		}

		summary := entity.MatchSummary{
			MatchID:     m.ID,
			Profile:     *profile,
			UnreadCount: unread,
			FormedAt:    m.CreatedAt,
		}
		if last, err := u.messageRepo.GetLastMessage(ctx, m.ID); err == nil {
			summary.LastPreview = preview(last)
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		summaries = append(summaries, summary)
	}

	u.mu.Lock()
	u.summaries[userID] = summaries
	u.mu.Unlock()
	return nil
}

func (u *conversationUseCase) Matches(userID uint) []entity.MatchSummary {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]entity.MatchSummary, len(u.summaries[userID]))
	copy(out, u.summaries[userID])
	return out
}

func (u *conversationUseCase) Open(ctx context.Context, userID, matchID uint) (*entity.ConversationResponse, error) {
	if err := u.authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	key := convKey{userID: userID, matchID: matchID}

	u.mu.Lock()
	state, exists := u.open[key]
	if !exists {
		state = &conversationState{}
		u.open[key] = state
	}
	u.mu.Unlock()

	if !exists {
		// Per-conversation subscription: own messages are already
		// reflected by the send-triggered reload, so only the other
		// party's inserts force one here.
		state.scope = u.sub.Open(u.sessionCtx, "conversation", realtime.Handlers{
			OnMessage: func(ev realtime.MessageEvent) {
				if ev.MatchID != matchID || ev.SenderID == userID {
					return
				}
				if err := u.reload(u.sessionCtx, state, matchID); err != nil {
					logger.Warn("realtime conversation reload", "match_id", matchID, "err", err)
				}
			},
		}, realtime.TopicMessages)
	}

	if err := u.reload(ctx, state, matchID); err != nil {
		return nil, err
	}
	return state.snapshot(), nil
}

func (u *conversationUseCase) Close(userID, matchID uint) {
	key := convKey{userID: userID, matchID: matchID}

	u.mu.Lock()
	state, exists := u.open[key]
	delete(u.open, key)
	u.mu.Unlock()

	if exists && state.scope != nil {
		state.scope.Close()
	}
}

func (u *conversationUseCase) CloseAll(userID uint) {
	u.mu.Lock()
	var states []*conversationState
	for key, state := range u.open {
		if key.userID == userID {
			states = append(states, state)
			delete(u.open, key)
		}
	}
	u.mu.Unlock()

	for _, state := range states {
		if state.scope != nil {
			state.scope.Close()
		}
	}
}

func (u *conversationUseCase) LoadMore(ctx context.Context, userID, matchID uint) (*entity.ConversationResponse, error) {
	state, err := u.openState(userID, matchID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if len(state.messages) == 0 || !state.hasMore {
		return state.snapshotLocked(), nil
	}

	cursor := state.messages[0].CreatedAt
	page, err := u.messageRepo.GetPage(ctx, matchID, &cursor, messageRepo.PageSize)
	if err != nil {
		return nil, err
	}

	// page is newest-first; reverse and prepend to keep ascending order
	state.messages = append(reverse(page), state.messages...)
	state.hasMore = len(page) == messageRepo.PageSize
	return state.snapshotLocked(), nil
}

func (u *conversationUseCase) Send(ctx context.Context, userID, matchID uint, req entity.SendMessageRequest) (*entity.ConversationResponse, error) {
	if problems := req.Validate(ctx); len(problems) > 0 {
		return nil, apperr.Validation(problems)
	}

	state, err := u.openState(userID, matchID)
	if err != nil {
		return nil, err
	}

	message, err := u.messageRepo.CreateMessage(ctx, &entity.Message{
		MatchID:  matchID,
		SenderID: userID,
		Text:     req.Text,
		AudioRef: req.AudioRef,
	})
	if err != nil {
		return nil, err
	}

	// Patch the list preview immediately for responsiveness; the held
	// window itself is replaced by a full reload rather than an
	// optimistic append, so a racing realtime reload converges to the
	// same state.
	u.patchPreview(userID, matchID, preview(message))

	if err := u.reload(ctx, state, matchID); err != nil {
		return nil, err
	}
	return state.snapshot(), nil
}

func (u *conversationUseCase) MarkRead(ctx context.Context, userID, matchID uint) error {
	if err := u.authorize(ctx, userID, matchID); err != nil {
		return err
	}

	// Local counter resets with the call, not on confirmation; the next
	// refresh re-derives it from canonical rows either way.
	u.mu.Lock()
	for i := range u.summaries[userID] {
		if u.summaries[userID][i].MatchID == matchID {
			u.summaries[userID][i].UnreadCount = 0
		}
	}
	u.mu.Unlock()

	return u.messageRepo.MarkAllRead(ctx, matchID, userID)
}

func (u *conversationUseCase) Unmatch(ctx context.Context, userID, matchID uint) error {
	if err := u.authorize(ctx, userID, matchID); err != nil {
		return err
	}

	if err := u.matchRepo.DeleteMatch(ctx, matchID); err != nil {
		return err
	}

	u.Close(userID, matchID)
	return u.RefreshMatches(ctx, userID)
}

func (u *conversationUseCase) Block(ctx context.Context, userID, targetID uint) error {
	if err := u.blockRepo.CreateBlock(ctx, userID, targetID); err != nil {
		return err
	}

	// A block destroys any match with the target, cascading messages.
	match, err := u.matchRepo.FindByPair(ctx, userID, targetID)
	if err == nil {
		if err := u.matchRepo.DeleteMatch(ctx, match.ID); err != nil {
			return err
		}
		u.Close(userID, match.ID)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	return u.RefreshMatches(ctx, userID)
}

// Private functions

func (u *conversationUseCase) authorize(ctx context.Context, userID, matchID uint) error {
	match, err := u.matchRepo.GetMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.Involves(userID) {
		return apperr.ErrMatchGone
	}
	return nil
}

func (u *conversationUseCase) openState(userID, matchID uint) (*conversationState, error) {
	u.mu.RLock()
	state, exists := u.open[convKey{userID: userID, matchID: matchID}]
	u.mu.RUnlock()
	if !exists {
		return nil, apperr.ErrMatchGone
	}
	return state, nil
}

// reload replaces the held window with the newest page. Reconciliation
// is full-replace rather than incrementally merged, so racing reloads
// (a send racing a realtime trigger) converge regardless of order.
func (u *conversationUseCase) reload(ctx context.Context, state *conversationState, matchID uint) error {
	page, err := u.messageRepo.GetPage(ctx, matchID, nil, messageRepo.PageSize)
	if err != nil {
		return err
	}

	state.mu.Lock()
	state.messages = reverse(page)
	state.hasMore = len(page) == messageRepo.PageSize
	state.mu.Unlock()
	return nil
}

func (u *conversationUseCase) patchPreview(userID, matchID uint, text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.summaries[userID] {
		if u.summaries[userID][i].MatchID == matchID {
			u.summaries[userID][i].LastPreview = text
		}
	}
}

func (s *conversationState) snapshot() *entity.ConversationResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *conversationState) snapshotLocked() *entity.ConversationResponse {
	out := make([]entity.Message, len(s.messages))
	copy(out, s.messages)
	return &entity.ConversationResponse{Messages: out, HasMore: s.hasMore}
}

func preview(m *entity.Message) string {
	if m.Text != "" {
		return m.Text
	}
	if m.AudioRef != "" {
		return "[voice note]"
	}
	return ""
}

func reverse(messages []entity.Message) []entity.Message {
	out := make([]entity.Message, len(messages))
	for i, m := range messages {
		out[len(messages)-1-i] = m
	}
	return out
}
