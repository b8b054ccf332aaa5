package main

import (
	"context"

	"github.com/dmitrymomot/cms"
	"github.com/dmitrymomot/cms/middlewares"
	"github.com/dmitrymomot/cms/pkg/column"
	"github.com/dmitrymomot/cms/pkg/cookie"
	"github.com/dmitrymomot/cms/pkg/rules"
)

// tokenCookie holds the encrypted bearer token of a browser session.
const tokenCookie = "cms_token"

type Article struct {
	ID          column.UUID
	Title       column.Text
	Body        column.Markdown
	AuthorID    column.Int
	Editor      column.Text
	Published   column.Bool
	PublishedAt column.Time
	Cover       column.File
}

func articleSchema() cms.Schema[Article] {
	return cms.Schema[Article]{
		Name:       "Article",
		NamePlural: "Articles",
		ID:         cms.Field[Article]{Name: "id", Ref: func(a *Article) cms.Column { return &a.ID }},
		Columns: []cms.Field[Article]{
			{Name: "title", Label: "Title", Ref: func(a *Article) cms.Column { return &a.Title }},
			{Name: "body", Label: "Body", Ref: func(a *Article) cms.Column { return &a.Body }},
			{Name: "author_id", Label: "Author", Ref: func(a *Article) cms.Column { return &a.AuthorID }},
			{Name: "editor", Label: "Last edited by", Ref: func(a *Article) cms.Column { return &a.Editor }},
			{Name: "published", Label: "Published", Ref: func(a *Article) cms.Column { return &a.Published }},
			{Name: "published_at", Label: "Published at", Ref: func(a *Article) cms.Column { return &a.PublishedAt }},
			{Name: "cover", Label: "Cover", Ref: func(a *Article) cms.Column { return &a.Cover }},
		},
	}
}

type Author struct {
	ID    column.Int
	Name  column.Text
	Email column.Text
}

func authorSchema() cms.Schema[Author] {
	return cms.Schema[Author]{
		Name:       "Author",
		NamePlural: "Authors",
		ID:         cms.Field[Author]{Name: "id", Ref: func(a *Author) cms.Column { return &a.ID }},
		Columns: []cms.Field[Author]{
			{Name: "name", Label: "Name", Ref: func(a *Author) cms.Column { return &a.Name }},
			{Name: "email", Label: "Email", Ref: func(a *Author) cms.Column { return &a.Email }},
		},
	}
}

var articleRules = []rules.Rule{
	{Name: "title", Expr: `trim(record.title) == ""`, Message: "title is required"},
	{Name: "author", Expr: `record.author_id <= 0`, Message: "author is required"},
	{Name: "published_at", Expr: `record.published && record.published_at.IsZero()`, Message: "published articles need a publication date"},
}

var authorRules = []rules.Rule{
	{Name: "name", Expr: `trim(record.name) == ""`, Message: "name is required"},
	{Name: "email", Expr: `record.email != "" && !(record.email contains "@")`, Message: "email is invalid"},
}

// articleHooks stamps the editor from the caller's token and only lets
// admins delete.
func articleHooks(auth cms.RequestExtractor[*middlewares.Claims], set *rules.Set) cms.Hooks[Article, *middlewares.Claims] {
	schema := articleSchema()
	hooks := cms.Hooks[Article, *middlewares.Claims]{
		Extract: auth,
		OnCreate: func(_ context.Context, a Article, c *middlewares.Claims) (Article, error) {
			a.Editor = column.Text(c.Subject)
			return a, nil
		},
		OnUpdate: func(_ context.Context, _, a Article, c *middlewares.Claims) (Article, error) {
			a.Editor = column.Text(c.Subject)
			return a, nil
		},
		OnDelete: func(_ context.Context, a Article, c *middlewares.Claims) (Article, error) {
			if c.Role != "admin" {
				return a, cms.ErrForbidden("only admins may delete articles")
			}
			return a, nil
		},
	}
	return hooks.WithRules(&schema, set)
}

// authenticator validates tokens from the Authorization header or, when
// cookies are enabled, the browser session.
func authenticator(cfg jwtConfig, cookies *cookie.Manager) cms.RequestExtractor[*middlewares.Claims] {
	sources := []cms.ExtractorSource{cms.FromBearerToken()}
	if cookies != nil {
		sources = append(sources, middlewares.FromEncryptedCookie(cookies, tokenCookie))
	}
	return middlewares.JWTExtractor([]byte(cfg.Secret), middlewares.NewClaims,
		middlewares.WithJWTIssuer(cfg.Issuer),
		middlewares.WithJWTExtractor(cms.NewExtractor(sources...)),
	)
}

func registrations(auth cms.RequestExtractor[*middlewares.Claims]) ([]cms.Registration, error) {
	articleSet, err := rules.Compile(articleRules...)
	if err != nil {
		return nil, err
	}
	authorSet, err := rules.Compile(authorRules...)
	if err != nil {
		return nil, err
	}

	authors := authorSchema()
	return []cms.Registration{
		cms.Entity(articleSchema(), articleHooks(auth, articleSet)),
		cms.Entity(authors, cms.RulesHooks(&authors, authorSet)),
	}, nil
}
