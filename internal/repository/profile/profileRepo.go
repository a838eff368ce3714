package profileRepo

import (
	"context"
	"errors"
	"time"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	"gorm.io/gorm"
)

type IProfileRepo interface {
	CreateProfile(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	GetProfileByID(ctx context.Context, id uint) (*entity.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, profile *entity.Profile) error

	// GetVisibleProfiles returns every profile except the excluded ids,
	// in fetch order. Eligibility rules (shadow ban, sex policy) are the
	// discovery layer's job, not a query concern here.
	GetVisibleProfiles(ctx context.Context, ownID uint, excludeIDs []uint) ([]entity.Profile, error)

	GetCampusStats(ctx context.Context) (*entity.CampusStats, error)
}

type ProfileRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) CreateProfile(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	result := r.db.WithContext(ctx).Create(profile)
	if result.Error != nil {
		return nil, apperr.TransientWrite("create profile", result.Error)
	}
	return profile, nil
}

func (r *ProfileRepo) GetProfileByID(ctx context.Context, id uint) (*entity.Profile, error) {
	var profile entity.Profile
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&profile)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &profile, result.Error
}

func (r *ProfileRepo) GetProfileByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var profile entity.Profile
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&profile)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &profile, result.Error
}

func (r *ProfileRepo) UpdateProfile(ctx context.Context, profile *entity.Profile) error {
	result := r.db.WithContext(ctx).Save(profile)
	if result.Error != nil {
		return apperr.TransientWrite("update profile", result.Error)
	}
	return nil
}

func (r *ProfileRepo) GetVisibleProfiles(ctx context.Context, ownID uint, excludeIDs []uint) ([]entity.Profile, error) {
	var profiles []entity.Profile

	query := r.db.WithContext(ctx).Model(&entity.Profile{}).Where("id <> ?", ownID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	result := query.Find(&profiles)
	return profiles, result.Error
}

func (r *ProfileRepo) GetCampusStats(ctx context.Context) (*entity.CampusStats, error) {
	var stats entity.CampusStats

	if err := r.db.WithContext(ctx).Model(&entity.Profile{}).Count(&stats.TotalProfiles).Error; err != nil {
		return nil, err
	}

	midnight := startOfToday(time.Now())
	if err := r.db.WithContext(ctx).
		Model(&entity.Swipe{}).
		Where("created_at >= ?", midnight).
		Count(&stats.SwipesToday).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&entity.Match{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func startOfToday(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
