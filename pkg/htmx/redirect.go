package htmx

import "net/http"

// Redirect sends a 303 See Other so the browser follows a form POST with GET.
// For htmx requests it answers 200 with HX-Redirect instead, which htmx
// turns into a full page navigation.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	RedirectWithStatus(w, r, url, http.StatusSeeOther)
}

// RedirectWithStatus is Redirect with an explicit status for non-htmx requests.
func RedirectWithStatus(w http.ResponseWriter, r *http.Request, url string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, status)
}
