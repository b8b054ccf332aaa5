// Package middlewares provides HTTP middleware and request extractors for
// cms applications.
//
// # Request ID
//
// RequestID assigns each request an ID, reusing an upstream one when a
// tracing header is present, and echoes it in X-Request-ID. The default
// error handler copies it into error responses. RequestIDExtractor adds it
// to every log record:
//
//	app, err := cms.New(
//	    cms.WithLogger(logCfg, middlewares.RequestIDExtractor()),
//	    cms.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	)
//
// # Recover
//
// Recover turns panics into *PanicError values. The default error handler
// answers them with 500 and logs the cause.
//
// # CORS
//
// CORS answers preflight requests and sets Access-Control headers for
// browser clients of the JSON API:
//
//	middlewares.CORS(middlewares.WithAllowOrigins("https://admin.example.com"))
//
// # JWT
//
// JWTExtractor is a RequestExtractor for entity hooks. It validates an
// HMAC-signed bearer token and hands the claims to the hooks:
//
//	hooks := cms.Hooks[Article, *middlewares.Claims]{
//	    Extract: middlewares.JWTExtractor(secret, middlewares.NewClaims),
//	    OnCreate: func(ctx context.Context, a Article, c *middlewares.Claims) (Article, error) {
//	        a.Author = column.Text(c.Subject)
//	        return a, nil
//	    },
//	}
package middlewares
