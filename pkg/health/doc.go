// Package health provides liveness and readiness checks.
//
// [LivenessHandler] always answers OK while the process is serving.
// [ReadinessHandler] runs a set of named [Checks] concurrently and answers
// 503 when any of them fails. [Run] exposes the same aggregation without HTTP.
//
// Any func(context.Context) error is a check:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "store": db.Healthcheck(s),
//	}, health.WithTimeout(3*time.Second), health.WithLogger(logger)))
//
// cms.WithHealthChecks mounts both handlers on the application router.
//
// # Response formats
//
// Plain text by default ("OK" / "Service Unavailable") for container health checks.
// JSON is returned for Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "store": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// # Errors
//
//   - [ErrCheckFailed] - one or more checks failed
//   - [ErrCheckTimeout] - a check ran past the timeout
package health
