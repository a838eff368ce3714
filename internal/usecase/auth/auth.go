package authUseCase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/campuscrush/app/internal/apperr"
	"github.com/campuscrush/app/internal/entity"
	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	"github.com/campuscrush/app/pkg/jwt"
	"github.com/labstack/echo"
	"golang.org/x/crypto/bcrypt"
)

// The email+OTP verification flow and the admin service are external
// collaborators; this only covers password sessions for the engine.
type IAuthUseCase interface {
	SignUp(ctx context.Context, request entity.SignUpRequest) (*entity.Profile, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	GetUserFromJWTRequest(c echo.Context) (*entity.Profile, error)
}

type authUseCase struct {
	profileRepo profileRepo.IProfileRepo
}

func New(profiles profileRepo.IProfileRepo) IAuthUseCase {
	return &authUseCase{profileRepo: profiles}
}

func (u *authUseCase) SignUp(ctx context.Context, request entity.SignUpRequest) (*entity.Profile, error) {
	if problems := request.Validate(ctx); len(problems) > 0 {
		return nil, apperr.Validation(problems)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password+request.Email), 12)
	if err != nil {
		return nil, err
	}

	profile := entity.Profile{
		Name:       request.Name,
		Email:      request.Email,
		Password:   string(hashedPassword),
		Program:    request.Program,
		Batch:      request.Batch,
		Section:    request.Section,
		Sex:        request.Sex,
		Age:        request.Age,
		Photos:     entity.Photos(request.Photos),
		Chronotype: request.Chronotype,
		DreamTrip:  request.DreamTrip,
		PartySpot:  request.PartySpot,
		RedFlag:    request.RedFlag,
	}

	return u.profileRepo.CreateProfile(ctx, &profile)
}

func (u *authUseCase) SignIn(ctx context.Context, email, password string) (string, error) {
	profile, err := u.profileRepo.GetProfileByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password+profile.Email)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return jwt.CreateToken(profile.ID, profile.Email)
}

func (u *authUseCase) GetUserFromJWTRequest(c echo.Context) (*entity.Profile, error) {
	// The auth middleware stores the profile it resolved; reuse it to
	// avoid a second lookup per request.
	if profile, ok := c.Get("userProfile").(*entity.Profile); ok {
		return profile, nil
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token format"})
	}

	claims, err := jwt.ValidateToken(parts[1])
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
	}

	return u.profileRepo.GetProfileByID(c.Request().Context(), claims.GetUserID())
}
