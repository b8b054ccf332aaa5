package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/store"
)

func testConfig(t *testing.T) config {
	t.Helper()
	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)
	cfg.Database.URL = ":memory:"
	cfg.Uploads.Dir = t.TempDir()
	cfg.JWT.Secret = "test-secret"
	return cfg
}

func testStore(t *testing.T, cfg config) *store.Store {
	t.Helper()
	st, closeStore, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })
	require.NoError(t, migrate(context.Background(), st, cfg, logger.NewNop()))
	return st
}

func send(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig(newViper(), "")
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
		assert.False(t, cfg.useS3())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("CMS_DATABASE_DRIVER", "postgres")
		t.Setenv("CMS_JWT_SECRET", "from-env")
		t.Setenv("CMS_S3_BUCKET", "media")
		t.Setenv("CMS_SHUTDOWN_TIMEOUT", "5s")

		cfg, err := loadConfig(newViper(), "")
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "from-env", cfg.JWT.Secret)
		assert.Equal(t, "media", cfg.S3.Bucket)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
		assert.True(t, cfg.useS3())
		assert.Equal(t, "cms_migrations", cfg.postgres().MigrationsTable)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cmsd.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\nlog:\n  level: debug\n"), 0o600))

		cfg, err := loadConfig(newViper(), path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, "debug", cfg.logger().Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(newViper(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestMintToken(t *testing.T) {
	_, err := mintToken(jwtConfig{}, "ed", "editor", time.Hour, time.Now())
	require.ErrorIs(t, err, errNoSecret)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "ed", "--role", "admin"})
	t.Setenv("CMS_JWT_SECRET", "s3cret")
	require.NoError(t, cmd.Execute())
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "."), 3)
}

func TestApp(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	st := testStore(t, cfg)
	app, err := newApp(cfg, st, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	now := time.Now()
	editor, err := mintToken(cfg.JWT, "ed", "editor", time.Hour, now)
	require.NoError(t, err)
	admin, err := mintToken(cfg.JWT, "root", "admin", time.Hour, now)
	require.NoError(t, err)

	rec := send(app, http.MethodPost, "/api/v1/authors", `{"id":1,"name":"Ada","email":"ada@example.com"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(app, http.MethodPost, "/api/v1/authors", `{"id":2,"name":"Bob","email":"bob"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = send(app, http.MethodPost, "/api/v1/articles", `{"title":"Hello","author_id":1}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = send(app, http.MethodPost, "/api/v1/articles", `{"title":"Hello","author_id":1,"published":true}`, editor)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = send(app, http.MethodPost, "/api/v1/articles", `{"title":"Hello","author_id":1}`, editor)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ed", created["editor"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = send(app, http.MethodDelete, "/api/v1/article/"+id, "", editor)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(app, http.MethodDelete, "/api/v1/article/"+id, "", admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = send(app, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorIDsAreAssigned(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	app, err := newApp(cfg, testStore(t, cfg), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	var ids []float64
	for _, name := range []string{"Ada", "Grace"} {
		rec := send(app, http.MethodPost, "/api/v1/authors", `{"name":"`+name+`","email":"`+strings.ToLower(name)+`@example.com"}`, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		ids = append(ids, created["id"].(float64))
	}
	assert.Equal(t, []float64{1, 2}, ids)

	req := httptest.NewRequest(http.MethodPost, "/authors/add", strings.NewReader("name=Linus&email=linus@example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/author/3", rec.Header().Get("Location"))
}

func TestNewAppNeedsSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.JWT.Secret = ""
	_, err := newApp(cfg, testStore(t, cfg), logger.NewNop())
	assert.ErrorIs(t, err, errNoSecret)
}

func TestSeed(t *testing.T) {
	t.Parallel()

	fx, err := readFixtures(strings.NewReader(`
authors:
  - id: 1
    name: Ada
  - id: 2
    name: Grace
articles:
  - title: Engines
    author_id: 1
    body: "# Notes"
  - title: Compilers
    author_id: 2
    published: true
    published_at: "2024-05-01T10:00:00Z"
`))
	require.NoError(t, err)

	cfg := testConfig(t)
	st := testStore(t, cfg)

	authors, articles, err := seed(context.Background(), st, fx)
	require.NoError(t, err)
	assert.Equal(t, 2, authors)
	assert.Equal(t, 2, articles)

	n, err := st.Count(context.Background(), "articles")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, _, err = seed(context.Background(), st, fixtures{Articles: []map[string]any{{"title": "Orphan", "author_id": 99}}})
	assert.Error(t, err)
}

func TestReadFixturesEmpty(t *testing.T) {
	t.Parallel()

	fx, err := readFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Authors)
}

func TestBrowserSession(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Cookie.Secret = "cookie-secret-cookie-secret-cookie-secret"
	st := testStore(t, cfg)
	app, err := newApp(cfg, st, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	rec := send(app, http.MethodPost, "/api/v1/authors", `{"id":1,"name":"Ada"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(app, http.MethodGet, "/login", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="token"`)

	form := func(target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		return rec
	}

	rec = form("/login", "token=garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")

	tok, err := mintToken(cfg.JWT, "ed", "editor", time.Hour, time.Now())
	require.NoError(t, err)
	rec = form("/login", "token="+tok, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.NotEqual(t, tok, session.Value)

	rec = form("/articles/add", "title=From+the+UI&author_id=1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = form("/articles/add", "title=From+the+UI&author_id=1", []*http.Cookie{session})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = send(app, http.MethodGet, "/api/v1/articles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"editor":"ed"`)
}
