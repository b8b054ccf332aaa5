package htmx

import (
	"net/http"
	"strings"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}

// IsBoosted reports whether r comes from an hx-boost link or form.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderHXBoosted) == "true"
}

// Trigger asks htmx to dispatch events on the client after the response.
// Existing events are kept.
func Trigger(w http.ResponseWriter, events ...string) {
	if len(events) == 0 {
		return
	}
	if prev := w.Header().Get(HeaderHXTrigger); prev != "" {
		events = append([]string{prev}, events...)
	}
	w.Header().Set(HeaderHXTrigger, strings.Join(events, ", "))
}
