package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/cms"
	"github.com/dmitrymomot/cms/middlewares"
	"github.com/dmitrymomot/cms/pkg/cookie"
)

// sessionHandler lets browsers exchange a bearer token for an encrypted
// session cookie, so admin UI forms can pass the article hooks.
type sessionHandler struct {
	cookies *cookie.Manager
	auth    cms.RequestExtractor[*middlewares.Claims]
	ttl     time.Duration
}

func (h *sessionHandler) Routes(r cms.Router) {
	r.GET("/login", h.form)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
}

func (h *sessionHandler) form(c cms.Ctx) error {
	return c.Render(http.StatusOK, loginPage(""))
}

func (h *sessionHandler) login(c cms.Ctx) error {
	token := c.Request().PostFormValue("token")

	authReq := c.Request().Clone(c)
	authReq.Header.Set("Authorization", "Bearer "+token)
	claims, err := h.auth(authReq, nil)
	if err != nil {
		msg := "invalid token"
		if he := cms.AsHTTPError(err); he != nil {
			msg = he.Message
		}
		return c.Render(http.StatusUnauthorized, loginPage(msg))
	}

	maxAge := int(h.ttl.Seconds())
	if exp := claims.ExpiresAt; exp != nil {
		maxAge = int(time.Until(exp.Time).Seconds())
	}
	if err := h.cookies.SetEncrypted(c.Response(), tokenCookie, token, maxAge); err != nil {
		return cms.ErrInternal("failed to start session", cms.WithError(err))
	}
	h.cookies.SetFlash(c.Response(), "Signed in as "+claims.Subject)
	return c.Redirect(http.StatusSeeOther, "/articles")
}

func (h *sessionHandler) logout(c cms.Ctx) error {
	h.cookies.Delete(c.Response(), tokenCookie)
	return c.Redirect(http.StatusSeeOther, "/login")
}

func loginPage(errMsg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		page := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Sign in</title></head><body><main><h1>Sign in</h1>`
		if errMsg != "" {
			page += `<p class="error" role="alert">` + templ.EscapeString(errMsg) + `</p>`
		}
		page += `<form method="post" action="/login"><label for="token">Token</label>` +
			`<input type="password" id="token" name="token" required><button type="submit">Sign in</button></form></main></body></html>`
		_, err := io.WriteString(w, page)
		return err
	})
}
