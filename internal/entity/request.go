package entity

import (
	"context"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type SignUpRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Program    string   `json:"program"`
	Batch      string   `json:"batch"`
	Section    string   `json:"section"`
	Sex        Sex      `json:"sex"`
	Age        int      `json:"age"`
	Photos     []string `json:"photos"`
	Chronotype int      `json:"chronotype"`
	DreamTrip  string   `json:"dream_trip"`
	PartySpot  string   `json:"party_spot"`
	RedFlag    string   `json:"red_flag"`
}

func (r *SignUpRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if len(r.Name) < 2 {
		problems["Name"] = append(problems["Name"], "Name is too short")
	}
	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	} else if !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Invalid email format")
	}
	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}
	if len([]byte(r.Password)) > 72 {
		problems["Password"] = append(problems["Password"], "Password length should not exceed 72 bytes")
	}
	if r.Age < 18 || r.Age > 30 {
		problems["Age"] = append(problems["Age"], "Age must be between 18 and 30")
	}
	if len(r.Photos) == 0 {
		problems["Photos"] = append(problems["Photos"], "At least one photo is required")
	}
	if r.Sex != SexMale && r.Sex != SexFemale {
		problems["Sex"] = append(problems["Sex"], "Sex must be male or female")
	}
	if r.Chronotype < 0 || r.Chronotype > 100 {
		problems["Chronotype"] = append(problems["Chronotype"], "Chronotype must be between 0 and 100")
	}

	return problems
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Email == "" {
		problems["Email"] = append(problems["Email"], "Email is required")
	} else if !emailRegex.MatchString(r.Email) {
		problems["Email"] = append(problems["Email"], "Invalid email format")
	}
	if r.Password == "" {
		problems["Password"] = append(problems["Password"], "Password is required")
	}

	return problems
}

type SendMessageRequest struct {
	Text     string `json:"text"`
	AudioRef string `json:"audio_ref"`
}

func (r *SendMessageRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Text == "" && r.AudioRef == "" {
		problems["Text"] = append(problems["Text"], "Either text or an audio reference is required")
	}

	return problems
}

type SendNudgeRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Message    string `json:"message"`
}

func (r *SendNudgeRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.ReceiverID == 0 {
		problems["ReceiverID"] = append(problems["ReceiverID"], "Receiver is required")
	}
	if !IsNudgePreset(r.Message) {
		problems["Message"] = append(problems["Message"], "Message must be one of the preset nudges")
	}

	return problems
}

type SendCrushRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Hint       string `json:"hint"`
}

func (r *SendCrushRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.ReceiverID == 0 {
		problems["ReceiverID"] = append(problems["ReceiverID"], "Receiver is required")
	}
	if r.Hint == "" {
		problems["Hint"] = append(problems["Hint"], "Hint is required")
	}
	if len(r.Hint) > 140 {
		problems["Hint"] = append(problems["Hint"], "Hint is too long")
	}

	return problems
}

type GuessCrushRequest struct {
	Name string `json:"name"`
}

func (r *GuessCrushRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Name == "" {
		problems["Name"] = append(problems["Name"], "A name guess is required")
	}

	return problems
}

type ReportRequest struct {
	Reason string `json:"reason"`
}

func (r *ReportRequest) Validate(ctx context.Context) (problems map[string][]string) {
	problems = make(map[string][]string)

	if r.Reason == "" {
		problems["Reason"] = append(problems["Reason"], "Reason is required")
	}

	return problems
}
