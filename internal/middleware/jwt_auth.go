package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// Context key under which the authenticated user's claims are stored.
const UserContextKey = "user"

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return jwtMiddleware(secret, true)
}

// OptionalJWTAuthMiddleware extracts user claims when a token is present
// but lets anonymous requests through. Listings and single-article reads
// accept anonymous viewers; a supplied token must still be valid.
func OptionalJWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return jwtMiddleware(secret, false)
}

func jwtMiddleware(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
				}
				return next(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})

			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// ViewerID returns the authenticated user id, or 0 for anonymous requests.
func ViewerID(c echo.Context) uint {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}
