package internal

import (
	"net/http"
	"strings"
)

// ExtractorSource reads one string from a request.
// Returns ("", false) when the value is absent.
type ExtractorSource = func(*http.Request) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
// Request extractors use it to find credentials without reading the body.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value.
func (e Extractor) Extract(r *http.Request) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		v := r.Header.Get(name)
		return v, v != ""
	}
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		v := r.URL.Query().Get(name)
		return v, v != ""
	}
}

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource {
	return func(r *http.Request) (string, bool) {
		ck, err := r.Cookie(name)
		if err != nil || ck.Value == "" {
			return "", false
		}
		return ck.Value, true
	}
}

// FromBearerToken reads a Bearer token from the Authorization header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return func(r *http.Request) (string, bool) {
		auth := r.Header.Get("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		token := strings.TrimSpace(auth[7:])
		return token, token != ""
	}
}
