package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/plangate/internal/config"
)

// CORS applies the configured cross-origin policy. The trace headers set by
// Trace are exposed so browser clients can correlate plan requests.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   append([]string{"X-Provider", headerRequestID}, cfg.AllowedHeaders...),
		ExposedHeaders:   []string{headerTraceID, headerRequestID},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}
