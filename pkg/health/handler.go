package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LivenessHandler always reports healthy while the process serves requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request; 503 when any fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := run(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		write(w, r, status, resp)
	}
}

func write(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
	} else {
		_, _ = w.Write([]byte("Service Unavailable"))
	}
}

// wantsJSON honors ?format=json before the Accept header.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
