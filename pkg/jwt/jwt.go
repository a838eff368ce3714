package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func secretKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev_only_secret")
}

type jwtUserDataClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

func CreateToken(id uint, email string) (string, error) {
	claims := jwtUserDataClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		UserID: id,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

func ValidateToken(tokenString string) (*jwtUserDataClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtUserDataClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey(), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*jwtUserDataClaims)
	if !ok {
		return nil, errors.New("could not parse claims")
	}

	return claims, nil
}

// UserID exposes the authenticated identity without exporting the
// claims struct.
func (c *jwtUserDataClaims) GetUserID() uint { return c.UserID }
