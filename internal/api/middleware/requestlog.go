package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// probePaths are logged on their first success and after every failure;
// repeated successes are dropped.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestID returns the request ID stored on ctx by RequestLog, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header, the echo context and the request context.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu       sync.Mutex
		probeOK  = make(map[string]bool)
		quietFor = func(path string, ok bool) bool {
			if _, probe := probePaths[path]; !probe {
				return false
			}
			mu.Lock()
			defer mu.Unlock()
			prev := probeOK[path]
			probeOK[path] = ok
			return ok && prev
		}
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)
			c.SetRequest(c.Request().WithContext(
				context.WithValue(c.Request().Context(), requestIDKey{}, reqID),
			))

			err := next(c)
			if err != nil {
				// Let echo write the error so the logged status is the one sent.
				c.Error(err)
				err = nil
			}

			status := c.Response().Status
			path := c.Request().URL.Path
			if quietFor(path, status < http.StatusBadRequest) {
				return err
			}

			log.Log(c.Request().Context(), levelFor(path, status), "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}

// levelFor picks the record level. Failing probes log at WARN.
func levelFor(path string, status int) slog.Level {
	_, probe := probePaths[path]
	switch {
	case status >= http.StatusInternalServerError && !probe:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
