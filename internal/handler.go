package internal

// HandlerFunc is the signature of every route handler.
// A returned error is passed to the App's ErrorHandler.
type HandlerFunc func(c Ctx) error

// Middleware wraps a HandlerFunc.
//
// Example:
//
//	func Admin(next cms.HandlerFunc) cms.HandlerFunc {
//	    return func(c cms.Ctx) error {
//	        if c.Header("X-Admin") == "" {
//	            return cms.ErrForbidden("admins only")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler turns an error returned from a handler into a response.
type ErrorHandler func(Ctx, error) error

// Handler declares extra routes next to the generated ones.
type Handler interface {
	Routes(r Router)
}
