// Package cms generates a JSON API and a server-rendered admin UI for plain
// Go structs stored in SQLite or PostgreSQL.
//
// An entity is any struct whose fields are column values. A [Schema] names
// the entity, its table columns and its identifier:
//
//	type Article struct {
//	    ID    column.UUID
//	    Title column.Text
//	    Body  column.Markdown
//	    Cover column.File
//	}
//
//	var articles = cms.Schema[Article]{
//	    Name:       "Article",
//	    NamePlural: "Articles",
//	    ID:         cms.Field[Article]{Name: "id", Ref: func(a *Article) cms.Column { return &a.ID }},
//	    Columns: []cms.Field[Article]{
//	        {Name: "title", Ref: func(a *Article) cms.Column { return &a.Title }},
//	        {Name: "body", Ref: func(a *Article) cms.Column { return &a.Body }},
//	        {Name: "cover", Ref: func(a *Article) cms.Column { return &a.Cover }},
//	    },
//	}
//
// # Routes
//
// Each registered entity gets these routes, with slugs derived from its
// singular and plural names:
//
//	GET    /api/v1/articles              list (limit, offset)
//	GET    /api/v1/article/{id}          read
//	POST   /api/v1/articles              create
//	POST   /api/v1/article/{id}          update
//	DELETE /api/v1/article/{id}          delete
//	GET    /articles                     list page
//	GET    /article/{id}                 detail and edit form
//	POST   /article/{id}                 update from form
//	GET    /articles/add                 add form
//	POST   /articles/add                 create from form
//	POST   /article/{id}/delete          delete from UI
//
// Uploaded files are served under /uploads/.
//
// # Hooks
//
// [Hooks] run before every write and may change or reject the entity. Their
// extension R comes from a [RequestExtractor], which usually authenticates
// the caller:
//
//	hooks := cms.Hooks[Article, *middlewares.Claims]{
//	    Extract: middlewares.JWTExtractor(secret, middlewares.NewClaims),
//	    OnDelete: func(ctx context.Context, a Article, c *middlewares.Claims) (Article, error) {
//	        if c.Role != "admin" {
//	            return a, cms.ErrForbidden("admins only")
//	        }
//	        return a, nil
//	    },
//	}
//
// Declarative checks live in package rules. [RulesHooks] turns a rule set
// into hooks.
//
// # Running
//
//	app, err := cms.New(
//	    cms.WithStore(st),
//	    cms.WithUploadsDir("./uploads"),
//	    cms.WithEntities(cms.Entity(articles, hooks)),
//	    cms.WithHealthChecks(cms.WithReadinessCheck("db", db.Healthcheck(st))),
//	)
//	if err != nil {
//	    return err
//	}
//	return app.Run(":8080", cms.Logger(log))
//
// The server stops gracefully on SIGINT and SIGTERM.
package cms
