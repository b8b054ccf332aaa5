// Package view renders the default HTML pages for generated entity routes.
//
// Pages are templ components built from plain data structs, so any type
// implementing Renderer can replace the stock look:
//
//	r := view.New(view.WithSiteName("Newsroom"), view.WithHTMX("/static/htmx.min.js"))
//	component := r.List(view.ListPage{
//		Nav:        []string{"Articles", "Authors"},
//		Name:       "Article",
//		NamePlural: "Articles",
//		Labels:     []string{"Title"},
//		Items:      items,
//	})
//
// All links are built with ListHref, ItemHref, AddHref and DeleteHref, which
// derive path segments with slug.Path exactly as route registration does.
// Every value is HTML-escaped; only Field.HTML is written as is and must
// already be sanitized.
package view
