package entity

import (
	"database/sql/driver"
	"strings"
	"time"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Profile is the campus-visible identity of a user. Compatibility is
// derived per viewer on every load and never persisted.
type Profile struct {
	ID         uint   `gorm:"primaryKey;column:id"`
	Name       string `gorm:"not null;column:name"`
	Email      string `gorm:"unique;not null;column:email"`
	Password   string `gorm:"not null;column:password" json:"-"`
	Program    string `gorm:"column:program"`
	Batch      string `gorm:"column:batch"`
	Section    string `gorm:"column:section"`
	Sex        Sex    `gorm:"column:sex;type:varchar(8);not null"`
	Age        int    `gorm:"column:age;not null"`
	Photos     Photos `gorm:"column:photos;type:text"`
	Chronotype int    `gorm:"column:chronotype;not null"` // 0 night owl .. 100 early bird
	DreamTrip  string `gorm:"column:dream_trip"`
	PartySpot  string `gorm:"column:party_spot"`
	RedFlag    string `gorm:"column:red_flag"`

	IsShadowBanned bool      `gorm:"column:is_shadow_banned;not null;default:false" json:"-"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`

	Compatibility int `gorm:"-" json:"compatibility"`
}

// Photos keeps the upload order, serialized as a comma-joined list of
// object storage references.
type Photos []string

func (p Photos) Value() (driver.Value, error) {
	return strings.Join(p, ","), nil
}

func (p *Photos) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	}
	if raw == "" {
		*p = nil
		return nil
	}
	*p = strings.Split(raw, ",")
	return nil
}

// FirstName is what crush guesses are checked against, alongside the
// full name.
func (p *Profile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// CampusStats is the aggregate read backing the stats endpoint.
type CampusStats struct {
	TotalProfiles int64 `json:"total_profiles"`
	SwipesToday   int64 `json:"swipes_today"`
	TotalMatches  int64 `json:"total_matches"`
}
