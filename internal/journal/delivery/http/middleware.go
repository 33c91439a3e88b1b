package http

import (
	"net/http"

	"golang-trading-journal/internal/journal/dto"
	"golang-trading-journal/pkg/ratelimit"

	"github.com/labstack/echo/v4"
)

// userIDHeader carries the acting user, resolved by the auth gateway in front
// of this service.
const userIDHeader = "X-User-ID"

// UserID extracts the acting user from the request, or fails the request when
// the header is absent.
func UserID(c echo.Context) (string, error) {
	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return userID, nil
}

// RateLimitMiddleware throttles requests per user identity (falling back to
// the client IP). The limiter state lives behind an injected store so nothing
// here is process-global.
func RateLimitMiddleware(store ratelimit.LimiterStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(userIDHeader)
			if key == "" {
				key = c.RealIP()
			}
			if !store.Limiter(key).Allow() {
				return c.JSON(http.StatusTooManyRequests,
					dto.NewErrorResponse("Rate limit exceeded", "too many requests, slow down"))
			}
			return next(c)
		}
	}
}
