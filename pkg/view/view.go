package view

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/cms/pkg/slug"
)

// Renderer builds the components served by the UI routes.
type Renderer interface {
	List(p ListPage) templ.Component
	Detail(p DetailPage) templ.Component
	Form(p FormPage) templ.Component
	Error(p ErrorPage) templ.Component
}

// Field is one column of one entity, ready for display.
type Field struct {
	Name      string
	Label     string
	Value     string
	InputType string
	// HTML is a sanitized rendering used instead of Value for display.
	HTML string
	// Href links to the stored file of an upload column.
	Href string
}

// Item is one entity.
type Item struct {
	ID     string
	Fields []Field
}

// ListPage lists the entities of one type.
type ListPage struct {
	Nav        []string
	Name       string
	NamePlural string
	Labels     []string
	Items      []Item
	// Flash is a one-time notice from the previous request.
	Flash string
}

// DetailPage shows one entity with its edit and delete forms.
type DetailPage struct {
	Nav        []string
	Name       string
	NamePlural string
	Item       Item
	Error      string
	Flash      string
}

// FormPage is the empty form for a new entity.
type FormPage struct {
	Nav        []string
	Name       string
	NamePlural string
	Fields     []Field
	Error      string
}

// ErrorPage describes a failed request.
type ErrorPage struct {
	Code      int
	Title     string
	Message   string
	RequestID string
}

// ListHref links to the collection page of the plural name.
func ListHref(plural string) string { return "/" + slug.Path(plural) }

// AddHref links to the create form of the plural name.
func AddHref(plural string) string { return ListHref(plural) + "/add" }

// ItemHref links to the detail page of one entity.
func ItemHref(name, id string) string { return "/" + slug.Path(name) + "/" + url.PathEscape(id) }

// DeleteHref is the delete action of one entity.
func DeleteHref(name, id string) string { return ItemHref(name, id) + "/delete" }
