package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsPreflightMaxAge = 12 * time.Hour

// createCORSMiddleware returns nil when CORS is off or no usable origin is configured.
// Only the methods of the key routes are allowed.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	valid := make([]string, 0, len(origins))
	for _, origin := range origins {
		if !isHTTPOrigin(origin) {
			logger.Warn("ignoring invalid cors origin", slog.String("origin", origin))
			continue
		}
		valid = append(valid, origin)
	}
	if len(valid) == 0 {
		logger.Warn("cors enabled without a valid origin, skipping middleware")
		return nil
	}

	logger.Info("cors enabled", slog.Any("origins", valid))

	return cors.New(cors.Config{
		AllowOrigins:  valid,
		AllowMethods:  []string{http.MethodGet, http.MethodPut},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        corsPreflightMaxAge,
	})
}

func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}

	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// isHTTPOrigin reports whether origin is a bare scheme://host[:port].
func isHTTPOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Path == "" && u.RawQuery == "" && u.Fragment == ""
}
