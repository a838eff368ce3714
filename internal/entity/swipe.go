package entity

import "time"

type Swipe struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	SwiperID  uint      `gorm:"column:swiper_id;not null;uniqueIndex:idx_swiper_swiped"`
	SwipedID  uint      `gorm:"column:swiped_id;not null;uniqueIndex:idx_swiper_swiped"`
	Direction Direction `gorm:"column:direction;type:smallint;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Direction uint

const (
	DirectionLike Direction = iota + 1
	DirectionDislike
)

func (d Direction) String() string {
	switch d {
	case DirectionLike:
		return "Like"
	case DirectionDislike:
		return "Dislike"
	default:
		return "Unknown"
	}
}

// SwipeQuota is the daily cap on swipe rows per user. Remaining quota is
// always re-derived from row counts since local midnight, never from a
// separately maintained counter.
const SwipeQuota = 50

type Outcome uint

const (
	OutcomeMatch    Outcome = iota + 1 // both users liked each other
	OutcomeNoMatch                     // swipe stored, no mutual like yet
	OutcomeNotFound                    // target profile does not exist
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "Match"
	case OutcomeNoMatch:
		return "No Match"
	case OutcomeNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}
