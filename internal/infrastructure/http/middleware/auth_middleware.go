package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/caption-relay/errors"
	"github.com/johnquangdev/caption-relay/pkg/jwt"
	pkgmiddleware "github.com/johnquangdev/caption-relay/pkg/middleware"
)

// ClaimsContextKey holds the validated *jwt.Claims
const ClaimsContextKey = "claims"

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets "user_id" (uuid.UUID) and "claims" (*jwt.Claims) into Echo context
func EchoAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request())
			if token == "" {
				return respondError(c, errors.ErrUnauthenticated())
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return respondError(c, errors.ErrTokenExpired())
				}
				return respondError(c, errors.ErrInvalidToken())
			}

			c.Set(ClaimsContextKey, claims)
			c.Set(pkgmiddleware.UserIDContextKey, claims.UserID)
			return next(c)
		}
	}
}

// OptionalAuth validates the token if present but doesn't require it
func OptionalAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := ExtractToken(c.Request()); token != "" {
				if claims, err := validator.ValidateAccessToken(token); err == nil {
					c.Set(ClaimsContextKey, claims)
					c.Set(pkgmiddleware.UserIDContextKey, claims.UserID)
				}
			}
			return next(c)
		}
	}
}

// ExtractToken reads the token from the Authorization header, then the
// access_token cookie
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

func respondError(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    int(appErr.Code),
		"message": appErr.Message,
	})
}
