package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/cms/internal"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// DefaultCORSConfig allows any origin to call the JSON API.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	MaxAge:       DefaultCORSMaxAge,
}

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins is a static list of origins. "*" allows all.
	AllowOrigins []string
	// AllowOriginFunc overrides AllowOrigins when set.
	AllowOriginFunc func(origin string) bool
	AllowMethods    []string
	AllowHeaders    []string
	ExposeHeaders   []string
	// AllowCredentials echoes the request origin instead of "*".
	AllowCredentials bool
	MaxAge           time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins sets the allowed origins.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowOrigins = origins }
}

// WithAllowOriginFunc sets a dynamic origin validator.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowOriginFunc = fn }
}

// WithAllowMethods sets the allowed HTTP methods.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowMethods = methods }
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowHeaders = headers }
}

// WithExposeHeaders sets the headers exposed to the client.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.ExposeHeaders = headers }
}

// WithAllowCredentials enables credentials support.
func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowCredentials = true }
}

// WithMaxAge sets the preflight cache duration.
func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) { cfg.MaxAge = d }
}

// CORS answers preflight requests with 204 and adds CORS headers to
// responses for allowed origins. Requests from other origins pass through
// without headers and are blocked by the browser.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := DefaultCORSConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))
	wildcard := slices.Contains(cfg.AllowOrigins, "*")

	allowed := func(origin string) bool {
		if cfg.AllowOriginFunc != nil {
			return cfg.AllowOriginFunc(origin)
		}
		return wildcard || slices.Contains(cfg.AllowOrigins, origin)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Ctx) error {
			origin := c.Header("Origin")
			if origin == "" || !allowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials || !wildcard {
				h.Set("Access-Control-Allow-Origin", origin)
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				h.Set("Access-Control-Expose-Headers", exposeHeaders)
			}

			if c.Request().Method == http.MethodOptions && c.Header("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", maxAge)
				}
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
