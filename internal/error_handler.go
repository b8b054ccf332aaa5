package internal

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/view"
)

// RequestIDHeader is read by the default error handler to tag responses.
const RequestIDHeader = "X-Request-ID"

// apiError is the JSON body of a failed API request.
type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// defaultErrorHandler answers /api/ requests with JSON and everything else
// with the renderer's error page. Server errors are logged here and nowhere
// else.
func (a *App) defaultErrorHandler(c Ctx, err error) error {
	he := AsHTTPError(err)
	if he == nil {
		he = ErrInternal("internal server error", WithError(err), WithErrorCode("internal"))
	}
	if he.RequestID == "" {
		// Handlers may return shared errors; tag a copy.
		tagged := *he
		tagged.RequestID = c.Response().Header().Get(RequestIDHeader)
		he = &tagged
	}

	if he.Code >= http.StatusInternalServerError {
		cause := he.Err
		if cause == nil {
			cause = errors.New(he.Message)
		}
		c.LogError("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", he.Code,
			logger.Err(cause))
	}

	if isAPIRequest(c.Request()) {
		return c.JSON(he.Code, apiError{Error: apiErrorBody{
			Code:      errorCode(he),
			Message:   he.Message,
			RequestID: he.RequestID,
		}})
	}
	return c.Render(he.Code, a.renderer.Error(view.ErrorPage{
		Code:      he.Code,
		Title:     he.StatusText(),
		Message:   he.Message,
		RequestID: he.RequestID,
	}))
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// errorCode falls back to the snake-cased status text.
func errorCode(he *HTTPError) string {
	if he.ErrorCode != "" {
		return he.ErrorCode
	}
	return strings.ReplaceAll(strings.ToLower(http.StatusText(he.Code)), " ", "_")
}
