package view

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// Option configures the stock renderer.
type Option func(*HTML)

// WithSiteName sets the brand shown in the header and title.
func WithSiteName(name string) Option {
	return func(h *HTML) {
		if name != "" {
			h.siteName = name
		}
	}
}

// WithHTMX loads htmx from src and boosts links and forms.
func WithHTMX(src string) Option {
	return func(h *HTML) {
		h.htmxSrc = src
	}
}

// HTML is the stock Renderer.
type HTML struct {
	siteName string
	htmxSrc  string
}

// New returns the stock Renderer.
func New(opts ...Option) *HTML {
	h := &HTML{siteName: "CMS"}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTML) List(p ListPage) templ.Component {
	return h.page(p.NamePlural, p.Nav, func(w *writer) {
		w.raw(`<h1>`)
		w.text(p.NamePlural)
		w.raw(`</h1>`)
		w.flash(p.Flash)
		w.raw(`<p><a href="`)
		w.url(AddHref(p.NamePlural))
		w.raw(`">Add `)
		w.text(p.Name)
		w.raw(`</a></p>`)
		if len(p.Items) == 0 {
			w.raw(`<p class="empty">Nothing here yet.</p>`)
			return
		}
		w.raw(`<table><thead><tr><th>ID</th>`)
		for _, l := range p.Labels {
			w.raw(`<th>`)
			w.text(l)
			w.raw(`</th>`)
		}
		w.raw(`</tr></thead><tbody>`)
		for _, it := range p.Items {
			w.raw(`<tr><td><a href="`)
			w.url(ItemHref(p.Name, it.ID))
			w.raw(`">`)
			w.text(it.ID)
			w.raw(`</a></td>`)
			for _, f := range it.Fields {
				w.raw(`<td>`)
				w.display(f)
				w.raw(`</td>`)
			}
			w.raw(`</tr>`)
		}
		w.raw(`</tbody></table>`)
	})
}

func (h *HTML) Detail(p DetailPage) templ.Component {
	return h.page(p.Name+" "+p.Item.ID, p.Nav, func(w *writer) {
		w.raw(`<p><a href="`)
		w.url(ListHref(p.NamePlural))
		w.raw(`">&larr; `)
		w.text(p.NamePlural)
		w.raw(`</a></p><h1>`)
		w.text(p.Name)
		w.raw(` <code>`)
		w.text(p.Item.ID)
		w.raw(`</code></h1>`)
		w.flash(p.Flash)
		w.errorBox(p.Error)
		w.form(ItemHref(p.Name, p.Item.ID), p.Item.Fields, "Save")
		w.raw(`<form method="post" action="`)
		w.url(DeleteHref(p.Name, p.Item.ID))
		w.raw(`" class="delete"><button type="submit">Delete</button></form>`)
	})
}

func (h *HTML) Form(p FormPage) templ.Component {
	return h.page("New "+p.Name, p.Nav, func(w *writer) {
		w.raw(`<p><a href="`)
		w.url(ListHref(p.NamePlural))
		w.raw(`">&larr; `)
		w.text(p.NamePlural)
		w.raw(`</a></p><h1>New `)
		w.text(p.Name)
		w.raw(`</h1>`)
		w.errorBox(p.Error)
		w.form(AddHref(p.NamePlural), p.Fields, "Create")
	})
}

func (h *HTML) Error(p ErrorPage) templ.Component {
	title := p.Title
	if title == "" {
		title = "Error"
	}
	return h.page(title, nil, func(w *writer) {
		w.raw(`<h1>`)
		w.text(strconv.Itoa(p.Code))
		w.raw(` `)
		w.text(title)
		w.raw(`</h1><p>`)
		w.text(p.Message)
		w.raw(`</p>`)
		if p.RequestID != "" {
			w.raw(`<p class="request-id">Request ID: <code>`)
			w.text(p.RequestID)
			w.raw(`</code></p>`)
		}
	})
}

func (h *HTML) page(title string, nav []string, body func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(` | `)
		w.text(h.siteName)
		w.raw(`</title>`)
		if h.htmxSrc != "" {
			w.raw(`<script src="`)
			w.url(h.htmxSrc)
			w.raw(`"></script>`)
		}
		w.raw(`</head><body`)
		if h.htmxSrc != "" {
			w.raw(` hx-boost="true"`)
		}
		w.raw(`><header><strong>`)
		w.text(h.siteName)
		w.raw(`</strong>`)
		if len(nav) > 0 {
			w.raw(`<nav>`)
			for _, name := range nav {
				w.raw(`<a href="`)
				w.url(ListHref(name))
				w.raw(`">`)
				w.text(name)
				w.raw(`</a> `)
			}
			w.raw(`</nav>`)
		}
		w.raw(`</header><main>`)
		body(w)
		w.raw(`</main></body></html>`)
		return w.err
	})
}

// writer remembers the first write error so page bodies stay linear.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) text(s string) { w.raw(templ.EscapeString(s)) }

func (w *writer) url(s string) { w.text(string(templ.URL(s))) }

func (w *writer) flash(msg string) {
	if msg == "" {
		return
	}
	w.raw(`<p class="flash" role="status">`)
	w.text(msg)
	w.raw(`</p>`)
}

func (w *writer) errorBox(msg string) {
	if msg == "" {
		return
	}
	w.raw(`<p class="error" role="alert">`)
	w.text(msg)
	w.raw(`</p>`)
}

func (w *writer) display(f Field) {
	switch {
	case f.HTML != "":
		w.raw(f.HTML)
	case f.Href != "":
		w.raw(`<a href="`)
		w.url(f.Href)
		w.raw(`">`)
		w.text(f.Value)
		w.raw(`</a>`)
	default:
		w.text(f.Value)
	}
}

func (w *writer) form(action string, fields []Field, submit string) {
	w.raw(`<form method="post" action="`)
	w.url(action)
	w.raw(`"`)
	for _, f := range fields {
		if f.InputType == "file" {
			w.raw(` enctype="multipart/form-data"`)
			break
		}
	}
	w.raw(`>`)
	for _, f := range fields {
		w.input(f)
	}
	w.raw(`<button type="submit">`)
	w.text(submit)
	w.raw(`</button></form>`)
}

func (w *writer) input(f Field) {
	w.raw(`<p><label for="f-`)
	w.text(f.Name)
	w.raw(`">`)
	w.text(f.Label)
	w.raw(`</label> `)
	switch f.InputType {
	case "textarea":
		w.raw(`<textarea id="f-`)
		w.text(f.Name)
		w.raw(`" name="`)
		w.text(f.Name)
		w.raw(`" rows="10">`)
		w.text(f.Value)
		w.raw(`</textarea>`)
	case "checkbox":
		w.raw(`<input type="checkbox" id="f-`)
		w.text(f.Name)
		w.raw(`" name="`)
		w.text(f.Name)
		w.raw(`" value="true"`)
		if f.Value == "true" {
			w.raw(` checked`)
		}
		w.raw(`>`)
	case "file":
		if f.Href != "" {
			w.raw(`<a href="`)
			w.url(f.Href)
			w.raw(`">`)
			w.text(f.Value)
			w.raw(`</a> `)
		}
		w.raw(`<input type="file" id="f-`)
		w.text(f.Name)
		w.raw(`" name="`)
		w.text(f.Name)
		w.raw(`">`)
	default:
		kind := f.InputType
		if kind == "" {
			kind = "text"
		}
		w.raw(`<input type="`)
		w.text(kind)
		w.raw(`" id="f-`)
		w.text(f.Name)
		w.raw(`" name="`)
		w.text(f.Name)
		w.raw(`" value="`)
		w.text(inputValue(kind, f.Value))
		w.raw(`">`)
	}
	w.raw(`</p>`)
}

// inputValue adapts stored text to what the browser widget expects.
func inputValue(kind, v string) string {
	if kind == "datetime-local" && v != "" {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.Format("2006-01-02T15:04")
		}
	}
	return v
}
