package middleware

import (
	"net/http"
	"strings"

	profileRepo "github.com/campuscrush/app/internal/repository/profile"
	"github.com/campuscrush/app/pkg/jwt"
	"github.com/labstack/echo"
)

// JWTMiddlewareSkipper applies JWTMiddleware to every route except the
// health check and the sign-up/sign-in endpoints.
func JWTMiddlewareSkipper(profiles profileRepo.IProfileRepo) echo.MiddlewareFunc {
	auth := JWTMiddleware(profiles)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := auth(next)
		return func(c echo.Context) error {
			p := c.Request().URL.Path
			if p == "/healthz" || strings.HasPrefix(p, "/v1/auth/") {
				return next(c)
			}
			return guarded(c)
		}
	}
}

func JWTMiddleware(profiles profileRepo.IProfileRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token format"})
			}
			token := parts[1]

			claims, err := jwt.ValidateToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			profile, err := profiles.GetProfileByID(c.Request().Context(), claims.GetUserID())
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			c.Set("claims", claims)
			c.Set("userProfile", profile)

			return next(c)
		}
	}
}
