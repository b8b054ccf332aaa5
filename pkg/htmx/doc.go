// Package htmx holds the small part of the htmx protocol the generated UI
// speaks: detecting htmx requests, redirecting after form posts, and
// triggering client events.
//
// The UI handlers post plain HTML forms. With htmx loaded and hx-boost on,
// the same handlers answer with HX-Redirect instead of a 303, so one code
// path serves both:
//
//	func submit(w http.ResponseWriter, r *http.Request) {
//		// ... persist ...
//		htmx.Trigger(w, "articles-changed")
//		htmx.Redirect(w, r, "/articles")
//	}
package htmx
