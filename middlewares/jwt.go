package middlewares

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/cms/internal"
	"github.com/dmitrymomot/cms/pkg/cookie"
)

// Claims are the registered JWT claims plus an optional role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// NewClaims allocates empty Claims for JWTExtractor.
func NewClaims() *Claims { return &Claims{} }

// JWTConfig configures JWTExtractor.
type JWTConfig struct {
	Extractor internal.Extractor
	Issuer    string
	Audience  string
	Leeway    time.Duration
}

// JWTOption configures JWTConfig.
type JWTOption func(*JWTConfig)

// WithJWTExtractor sets the token source chain. The default reads a
// bearer token from the Authorization header.
func WithJWTExtractor(ext internal.Extractor) JWTOption {
	return func(cfg *JWTConfig) { cfg.Extractor = ext }
}

// WithJWTIssuer requires the "iss" claim to match.
func WithJWTIssuer(iss string) JWTOption {
	return func(cfg *JWTConfig) { cfg.Issuer = iss }
}

// WithJWTAudience requires the "aud" claim to contain aud.
func WithJWTAudience(aud string) JWTOption {
	return func(cfg *JWTConfig) { cfg.Audience = aud }
}

// WithJWTLeeway allows clock skew when validating time claims.
func WithJWTLeeway(d time.Duration) JWTOption {
	return func(cfg *JWTConfig) { cfg.Leeway = d }
}

// JWTExtractor returns a RequestExtractor that validates an HMAC-signed
// token and yields its claims. newClaims must return a fresh pointer on
// every call. Failures are reported as 401.
func JWTExtractor[C jwt.Claims](key []byte, newClaims func() C, opts ...JWTOption) internal.RequestExtractor[C] {
	cfg := &JWTConfig{Extractor: internal.NewExtractor(internal.FromBearerToken())}
	for _, opt := range opts {
		opt(cfg)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
	}
	if cfg.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(parserOpts...)
	keyFunc := func(*jwt.Token) (any, error) { return key, nil }

	return func(r *http.Request, _ internal.Context) (C, error) {
		claims := newClaims()
		token, ok := cfg.Extractor.Extract(r)
		if !ok || token == "" {
			return claims, internal.ErrUnauthorized("missing authentication token")
		}

		if _, err := parser.ParseWithClaims(token, claims, keyFunc); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return claims, internal.ErrUnauthorized("token expired", internal.WithError(err))
			}
			return claims, internal.ErrUnauthorized("invalid token", internal.WithError(err))
		}
		return claims, nil
	}
}

// FromEncryptedCookie reads a token stored with cookie.Manager.SetEncrypted.
func FromEncryptedCookie(m *cookie.Manager, name string) internal.ExtractorSource {
	return func(r *http.Request) (string, bool) {
		v, err := m.GetEncrypted(r, name)
		return v, err == nil && v != ""
	}
}

// SignToken signs claims with HS256.
func SignToken(key []byte, claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
