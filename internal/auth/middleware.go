package auth

import (
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "github.com/AlonaKolesneva/user-service-api/internal/errors"
	"github.com/AlonaKolesneva/user-service-api/internal/model"
	"github.com/AlonaKolesneva/user-service-api/internal/repository"
)

// ContextUserKey is the echo context key under which the resolved user is
// stored by ResolveUser.
const ContextUserKey = "currentUser"

// NewGuard returns the bearer-token verification middleware. A missing or
// malformed Authorization header rejects with "Authentication required"; a
// present token that fails verification rejects with "Invalid token".
func NewGuard(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c echo.Context, err error) error {
			// A missing or malformed header never carried a token; everything
			// else is a token that failed verification.
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return apperrors.MapErrorToHTTP(apperrors.ErrAuthRequired)
			}
			return apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
		},
	})
}

// ResolveUser loads the user record behind the verified token and attaches it
// to the request context. A token whose subject no longer resolves to a
// record is treated the same as a bad token.
func ResolveUser(repo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			}
			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok {
				return apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			}
			id, ok := claims["id"].(float64)
			if !ok || id <= 0 {
				return apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			}

			user, err := repo.FindByID(c.Request().Context(), uint(id))
			if err != nil {
				return apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by ResolveUser, or nil when the
// request did not pass through the guard.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextUserKey).(*model.User)
	return user
}
