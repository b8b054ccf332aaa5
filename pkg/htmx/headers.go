package htmx

// Request headers sent by htmx.
const (
	HeaderHXRequest = "HX-Request"
	HeaderHXBoosted = "HX-Boosted"
	HeaderHXTarget  = "HX-Target"
)

// Response headers understood by htmx.
const (
	HeaderHXRedirect = "HX-Redirect"
	HeaderHXTrigger  = "HX-Trigger"
	HeaderHXRefresh  = "HX-Refresh"
)
