package social

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	admirerRepo "github.com/campuscrush/app/internal/repository/admirer"
	cooldownRepo "github.com/campuscrush/app/internal/repository/cooldown"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	socialRepo "github.com/campuscrush/app/internal/repository/social"
	"github.com/campuscrush/app/internal/usecase/swipe"
)

type ISocialUseCase interface {
	SendNudge(ctx context.Context, userID uint, req entity.SendNudgeRequest) (*entity.NudgeResponse, error)
	NudgesReceived(ctx context.Context, userID uint) ([]entity.Nudge, error)
	MarkNudgeSeen(ctx context.Context, userID, nudgeID uint) error

	SendCrush(ctx context.Context, userID uint, req entity.SendCrushRequest) (*entity.CrushResponse, error)
	CrushesReceived(ctx context.Context, userID uint) ([]entity.CrushResponse, error)
	GuessCrush(ctx context.Context, userID, crushID uint, req entity.GuessCrushRequest) (*entity.GuessCrushResponse, error)

	Admirers(ctx context.Context, userID uint) (*entity.AdmirerListResponse, error)
	Reveal(ctx context.Context, userID, admirerID uint) (*entity.RevealResponse, error)
	LikeAdmirer(ctx context.Context, userID, admirerID uint) (*entity.SwipeResponse, error)
	PassAdmirer(ctx context.Context, userID, admirerID uint) (*entity.SwipeResponse, error)

	Report(ctx context.Context, userID, targetID uint, req entity.ReportRequest) error
}

type socialUseCase struct {
	socialRepo   socialRepo.ISocialRepo
	admirerRepo  admirerRepo.IAdmirerRepo
	cooldownRepo cooldownRepo.ICooldownRepo
	profileRepo  profileRepo.IProfileRepo
	swipeCase    swipe.ISwipeUseCase
	now          func() time.Time

	mu         sync.Mutex
	sentCrush  map[uint][]entity.CrushResponse
	sentNudge  map[uint][]entity.NudgeResponse
	revealedBy map[uint]map[uint]bool // session-scoped reveal set
}

func New(
	socials socialRepo.ISocialRepo,
	admirers admirerRepo.IAdmirerRepo,
	cooldowns cooldownRepo.ICooldownRepo,
	profiles profileRepo.IProfileRepo,
	swipeCase swipe.ISwipeUseCase,
	opts ...Option,
) ISocialUseCase {
	u := &socialUseCase{
		socialRepo:   socials,
		admirerRepo:  admirers,
		cooldownRepo: cooldowns,
		profileRepo:  profiles,
		swipeCase:    swipeCase,
		now:          time.Now,
		sentCrush:    make(map[uint][]entity.CrushResponse),
		sentNudge:    make(map[uint][]entity.NudgeResponse),
		revealedBy:   make(map[uint]map[uint]bool),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type Option func(*socialUseCase)

// WithNow fixes the clock, for cooldown tests.
func WithNow(now func() time.Time) Option {
	return func(u *socialUseCase) { u.now = now }
}

func (u *socialUseCase) SendNudge(ctx context.Context, userID uint, req entity.SendNudgeRequest) (*entity.NudgeResponse, error) {
	if problems := req.Validate(ctx); len(problems) > 0 {
		return nil, apperr.Validation(problems)
	}

	nudged, err := u.socialRepo.HasNudgedToday(ctx, userID, u.now())
	if err != nil {
		return nil, err
	}
	if nudged {
		return nil, apperr.Quota("daily nudge")
	}

	// Appended locally under a provisional id, reconciled to the
	// canonical one once the backend write returns.
	resp := entity.NudgeResponse{
		ID:         entity.PendingID(),
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
		SentAt:     u.now(),
	}
	u.mu.Lock()
	u.sentNudge[userID] = append(u.sentNudge[userID], resp)
	u.mu.Unlock()

	nudge, err := u.socialRepo.CreateNudge(ctx, &entity.Nudge{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	})
	if err != nil {
		u.dropPendingNudge(userID, resp.ID)
		return nil, err
	}

	resp.ID.Confirm(nudge.ID)
	u.confirmNudge(userID, resp.ID)
	return &resp, nil
}

func (u *socialUseCase) NudgesReceived(ctx context.Context, userID uint) ([]entity.Nudge, error) {
	return u.socialRepo.GetNudgesForReceiver(ctx, userID)
}

func (u *socialUseCase) MarkNudgeSeen(ctx context.Context, userID, nudgeID uint) error {
	return u.socialRepo.MarkNudgeSeen(ctx, nudgeID, userID)
}

func (u *socialUseCase) SendCrush(ctx context.Context, userID uint, req entity.SendCrushRequest) (*entity.CrushResponse, error) {
	if problems := req.Validate(ctx); len(problems) > 0 {
		return nil, apperr.Validation(problems)
	}

	// Fast local check against the held sent list; the backend count
	// stays authoritative.
	u.mu.Lock()
	localSent := len(u.sentCrush[userID])
	u.mu.Unlock()
	if localSent >= entity.CrushLifetimeCap {
		return nil, apperr.Quota("lifetime crushes")
	}

	count, err := u.socialRepo.CountCrushesBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= entity.CrushLifetimeCap {
		return nil, apperr.Quota("lifetime crushes")
	}

	resp := entity.CrushResponse{
		ID:          entity.PendingID(),
		Hint:        req.Hint,
		GuessesLeft: entity.CrushGuesses,
		SentAt:      u.now(),
	}
	u.mu.Lock()
	u.sentCrush[userID] = append(u.sentCrush[userID], resp)
	u.mu.Unlock()

	crush, err := u.socialRepo.CreateCrush(ctx, &entity.Crush{
		SenderID:    userID,
		ReceiverID:  req.ReceiverID,
		Hint:        req.Hint,
		GuessesLeft: entity.CrushGuesses,
	})
	if err != nil {
		u.dropPendingCrush(userID, resp.ID)
		return nil, err
	}

	resp.ID.Confirm(crush.ID)
	u.confirmCrush(userID, resp.ID)
	return &resp, nil
}

func (u *socialUseCase) CrushesReceived(ctx context.Context, userID uint) ([]entity.CrushResponse, error) {
	crushes, err := u.socialRepo.GetCrushesForReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]entity.CrushResponse, 0, len(crushes))
	for _, c := range crushes {
		resp := entity.CrushResponse{
			ID:          entity.ConfirmedID(c.ID),
			Hint:        c.Hint,
			GuessesLeft: c.GuessesLeft,
			Revealed:    c.Revealed,
			SentAt:      c.CreatedAt,
		}
		// Sender identity only leaves the backend once revealed.
		if c.Revealed {
			if sender, err := u.profileRepo.GetProfileByID(ctx, c.SenderID); err == nil {
				resp.SenderName = sender.Name
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (u *socialUseCase) GuessCrush(ctx context.Context, userID, crushID uint, req entity.GuessCrushRequest) (*entity.GuessCrushResponse, error) {
	if problems := req.Validate(ctx); len(problems) > 0 {
		return nil, apperr.Validation(problems)
	}

	crush, err := u.socialRepo.GetCrushByID(ctx, crushID)
	if err != nil {
		return nil, err
	}
	if crush.ReceiverID != userID {
		return nil, apperr.ErrNotFound
	}
	if crush.Revealed {
		return nil, apperr.ErrAlreadyRevealed
	}
	if crush.GuessesLeft <= 0 {
		// Exhausted crushes expire silently; revealed stays false and
		// neither party is told anything further.
		return nil, apperr.ErrGuessesExhausted
	}

	sender, err := u.profileRepo.GetProfileByID(ctx, crush.SenderID)
	if err != nil {
		return nil, err
	}

	if nameMatches(req.Name, sender) {
		if err := u.socialRepo.UpdateCrushGuess(ctx, crushID, 0, true); err != nil {
			return nil, err
		}
		return &entity.GuessCrushResponse{
			Correct:     true,
			GuessesLeft: 0,
			Revealed:    true,
			SenderName:  sender.Name,
		}, nil
	}

	left := crush.GuessesLeft - 1
	if left < 0 {
		left = 0
	}
	if err := u.socialRepo.UpdateCrushGuess(ctx, crushID, left, false); err != nil {
		return nil, err
	}
	return &entity.GuessCrushResponse{
		Correct:     false,
		GuessesLeft: left,
		Revealed:    false,
	}, nil
}

func (u *socialUseCase) Admirers(ctx context.Context, userID uint) (*entity.AdmirerListResponse, error) {
	count, err := u.admirerRepo.CountAdmirers(ctx, userID)
	if err != nil {
		return nil, err
	}
	hints, err := u.admirerRepo.GetHints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entity.AdmirerListResponse{Count: count, Hints: hints}, nil
}

func (u *socialUseCase) Reveal(ctx context.Context, userID, admirerID uint) (*entity.RevealResponse, error) {
	last, err := u.cooldownRepo.GetLastReveal(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if wait := entity.RevealCooldown - now.Sub(last); !last.IsZero() && wait > 0 {
		return nil, apperr.QuotaWait("reveal cooldown", wait)
	}

	profile, err := u.admirerRepo.GetAdmirerProfile(ctx, userID, admirerID)
	if err != nil {
		return nil, err
	}

	// The cooldown resets no matter which admirer was chosen; reveals
	// never accumulate or roll over.
	if err := u.cooldownRepo.SetLastReveal(ctx, userID, now); err != nil {
		return nil, err
	}

	u.mu.Lock()
	if u.revealedBy[userID] == nil {
		u.revealedBy[userID] = make(map[uint]bool)
	}
	u.revealedBy[userID][admirerID] = true
	u.mu.Unlock()

	return &entity.RevealResponse{
		Profile:      *profile,
		NextRevealIn: entity.RevealCooldown,
	}, nil
}

// LikeAdmirer runs a regular swipe transaction; the admirer's like
// already exists, so this always forms a Match immediately.
func (u *socialUseCase) LikeAdmirer(ctx context.Context, userID, admirerID uint) (*entity.SwipeResponse, error) {
	if err := u.requireRevealed(userID, admirerID); err != nil {
		return nil, err
	}
	return u.swipeCase.SwipeRight(ctx, userID, admirerID)
}

func (u *socialUseCase) PassAdmirer(ctx context.Context, userID, admirerID uint) (*entity.SwipeResponse, error) {
	if err := u.requireRevealed(userID, admirerID); err != nil {
		return nil, err
	}
	return u.swipeCase.SwipeLeft(ctx, userID, admirerID)
}

func (u *socialUseCase) Report(ctx context.Context, userID, targetID uint, req entity.ReportRequest) error {
	if problems := req.Validate(ctx); len(problems) > 0 {
		return apperr.Validation(problems)
	}
	return u.socialRepo.CreateReport(ctx, &entity.Report{
		ReporterID: userID,
		ReportedID: targetID,
		Reason:     req.Reason,
	})
}

// Private functions

func (u *socialUseCase) requireRevealed(userID, admirerID uint) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.revealedBy[userID][admirerID] {
		return apperr.ErrNotFound
	}
	return nil
}

func (u *socialUseCase) dropPendingNudge(userID uint, id entity.RemoteID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	list := u.sentNudge[userID]
	for i := range list {
		if list[i].ID.Is(id) {
			u.sentNudge[userID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (u *socialUseCase) confirmNudge(userID uint, id entity.RemoteID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	list := u.sentNudge[userID]
	for i := range list {
		if list[i].ID.Is(id) {
			list[i].ID = id
			return
		}
	}
}

func (u *socialUseCase) dropPendingCrush(userID uint, id entity.RemoteID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	list := u.sentCrush[userID]
	for i := range list {
		if list[i].ID.Is(id) {
			u.sentCrush[userID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (u *socialUseCase) confirmCrush(userID uint, id entity.RemoteID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	list := u.sentCrush[userID]
	for i := range list {
		if list[i].ID.Is(id) {
			list[i].ID = id
			return
		}
	}
}

// nameMatches implements the guess rule: case-insensitive, trimmed
// equality against the sender's first name or full name.
func nameMatches(guess string, sender *entity.Profile) bool {
	g := strings.ToLower(strings.TrimSpace(guess))
	if g == "" {
		return false
	}
	return g == strings.ToLower(strings.TrimSpace(sender.FirstName())) ||
		g == strings.ToLower(strings.TrimSpace(sender.Name))
}
