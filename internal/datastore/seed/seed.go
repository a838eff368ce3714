package seed

import (
	"fmt"
	"math/rand"

	"github.com/campuscrush/app/internal/entity"
	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var programs = []string{"CSE", "ECE", "ME", "BBA", "Design"}
var sections = []string{"", "A", "B", "C"}

// Migrate creates the full schema. The integration harness uses SQL
// migrations instead; this path serves dev boots and sqlite tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Profile{},
		&entity.Swipe{},
		&entity.Match{},
		&entity.Message{},
		&entity.Nudge{},
		&entity.Crush{},
		&entity.Block{},
		&entity.Report{},
	)
}

// PopulateProfiles seeds n fake campus profiles, alternating sex so the
// discovery queue has candidates for everyone.
func PopulateProfiles(db *gorm.DB, n int) ([]entity.Profile, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profiles := make([]entity.Profile, 0, n)
	for i := 0; i < n; i++ {
		sex := entity.SexFemale
		if i%2 == 0 {
			sex = entity.SexMale
		}
		p := entity.Profile{
			Name:       faker.Name(),
			Email:      fmt.Sprintf("%d.%s", i, faker.Email()),
			Password:   string(hashed),
			Program:    programs[rand.Intn(len(programs))],
			Batch:      fmt.Sprintf("20%d", 22+rand.Intn(4)),
			Section:    sections[rand.Intn(len(sections))],
			Sex:        sex,
			Age:        18 + rand.Intn(8),
			Photos:     entity.Photos{faker.UUIDDigit() + ".jpg"},
			Chronotype: rand.Intn(101),
			DreamTrip:  faker.Sentence(),
			PartySpot:  faker.Word(),
			RedFlag:    faker.Sentence(),
		}
		if err := db.Create(&p).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
