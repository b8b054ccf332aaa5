package internal_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/internal"
	"github.com/dmitrymomot/cms/pkg/cookie"
)

const formType = "application/x-www-form-urlencoded"

func createViaUI(t *testing.T, app http.Handler, form string) string {
	t.Helper()
	w := do(t, app, http.MethodPost, "/articles/add", form, "Content-Type", formType)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/article/"), loc)
	return strings.TrimPrefix(loc, "/article/")
}

func TestUIPages(t *testing.T) {
	t.Parallel()

	app := articleApp(t, internal.NoHooks[Article](), nil)

	w := do(t, app, http.MethodGet, "/articles/add", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `action="/articles/add"`)
	assert.Contains(t, w.Body.String(), `enctype="multipart/form-data"`)

	id := createViaUI(t, app, "title=Hello&body=**hi**&views=2&published=on")

	w = do(t, app, http.MethodGet, "/articles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/article/`+id+`"`)
	assert.Contains(t, w.Body.String(), "<strong>hi</strong>", "markdown is rendered")

	w = do(t, app, http.MethodGet, "/article/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Hello"`)
	assert.Contains(t, w.Body.String(), `checked`)
	assert.Contains(t, w.Body.String(), `action="/article/`+id+`/delete"`)
}

func TestUIUpdateAndDelete(t *testing.T) {
	t.Parallel()

	app := articleApp(t, internal.NoHooks[Article](), nil)
	id := createViaUI(t, app, "title=Hello&published=on")

	w := do(t, app, http.MethodPost, "/article/"+id, "title=Renamed", "Content-Type", formType)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/article/"+id, w.Header().Get("Location"))

	w = do(t, app, http.MethodGet, "/api/v1/article/"+id, "")
	got := decode[map[string]any](t, w.Body.String())
	assert.Equal(t, "Renamed", got["title"])
	assert.Equal(t, false, got["published"], "unchecked box clears the flag")

	w = do(t, app, http.MethodPost, "/article/"+id, "views=lots", "Content-Type", formType)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `role="alert"`, "form is shown again with the error")

	w = do(t, app, http.MethodPost, "/article/"+id+"/delete", "", "HX-Request", "true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/articles", w.Header().Get("HX-Redirect"))

	w = do(t, app, http.MethodGet, "/article/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404 Not Found")
}

func TestUIHookRejectionRendersForm(t *testing.T) {
	t.Parallel()

	hooks := internal.Hooks[Article, internal.NoExt]{
		OnCreate: func(_ context.Context, a Article, _ internal.NoExt) (Article, error) {
			if a.Title == "spam" {
				return a, errors.New("looks like spam")
			}
			return a, nil
		},
	}
	app := articleApp(t, hooks, nil)

	w := do(t, app, http.MethodPost, "/articles/add", "title=spam", "Content-Type", formType)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "looks like spam")
	assert.Contains(t, w.Body.String(), `value="spam"`, "submitted values are kept")

	w = do(t, app, http.MethodPost, "/articles/add", "title=spam", "Content-Type", formType, "HX-Request", "true")
	assert.Equal(t, http.StatusOK, w.Code, "htmx only swaps 2xx responses")
}

func TestUIUploads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := openStore(t, nil)
	app := newApp(t,
		internal.WithStore(st),
		internal.WithUploadsDir(dir),
		internal.WithEntities(internal.Entity(articleSchema(), internal.NoHooks[Article]())),
	)
	assert.Equal(t, dir, app.Context().UploadsDir())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "With cover"))
	fw, err := mw.CreateFormFile("cover", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("plain text cover"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/articles/add", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	id := strings.TrimPrefix(w.Header().Get("Location"), "/article/")

	w = do(t, app, http.MethodGet, "/api/v1/article/"+id, "")
	key, _ := decode[map[string]any](t, w.Body.String())["cover"].(string)
	require.True(t, strings.HasPrefix(key, "articles/"), key)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)

	w = do(t, app, http.MethodGet, "/uploads/"+key, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "plain text cover", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	require.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/uploads/articles/missing.txt", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/uploads/../secret", "").Code)

	require.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/api/v1/article/"+id, "").Code)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err), "upload removed with its entity")
}

func TestUIFlash(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New("flash-secret-flash-secret-flash-secret")
	require.NoError(t, err)
	app := newApp(t,
		internal.WithStore(openStore(t, nil)),
		internal.WithCookies(cookies),
		internal.WithEntities(internal.Entity(articleSchema(), internal.NoHooks[Article]())),
	)

	w := do(t, app, http.MethodPost, "/articles/add", "title=Flashy", "Content-Type", formType)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	set := w.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, cookie.FlashName, set[0].Name)

	req := httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil)
	req.AddCookie(set[0])
	page := httptest.NewRecorder()
	app.ServeHTTP(page, req)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `<p class="flash" role="status">Article created</p>`)

	cleared := page.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)

	w = do(t, app, http.MethodGet, "/articles", "")
	assert.NotContains(t, w.Body.String(), `class="flash"`)
}

func TestUIAssignsIntegerIDs(t *testing.T) {
	t.Parallel()

	app := newApp(t,
		internal.WithStore(openStore(t, nil)),
		internal.WithEntities(internal.Entity(authorSchema(), internal.NoHooks[Author]())),
	)

	for i, name := range []string{"Ada", "Linus"} {
		w := do(t, app, http.MethodPost, "/authors/add", "name="+name, "Content-Type", formType)
		require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
		assert.Equal(t, "/author/"+strconv.Itoa(i+1), w.Header().Get("Location"))
	}

	w := do(t, app, http.MethodGet, "/authors", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/author/2"`)
}

func TestUIHookRejectionsKeepStorage(t *testing.T) {
	t.Parallel()

	hooks := internal.Hooks[Article, internal.NoExt]{
		OnCreate: func(_ context.Context, a Article, _ internal.NoExt) (Article, error) {
			if a.Title == "spam" {
				return a, errors.New("looks like spam")
			}
			return a, nil
		},
		OnDelete: func(_ context.Context, a Article, _ internal.NoExt) (Article, error) {
			return a, errors.New("articles are kept forever")
		},
	}
	st := openStore(t, nil)
	app := newApp(t, internal.WithStore(st), internal.WithEntities(internal.Entity(articleSchema(), hooks)))

	w := do(t, app, http.MethodPost, "/articles/add", "title=spam", "Content-Type", formType)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	n, err := st.Count(context.Background(), "articles")
	require.NoError(t, err)
	assert.Zero(t, n, "rejected create inserts nothing")

	id := createViaUI(t, app, "title=Kept")
	w = do(t, app, http.MethodPost, "/article/"+id+"/delete", "", "Content-Type", formType)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "articles are kept forever")

	w = do(t, app, http.MethodGet, "/article/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Kept"`)
}

// multipartForm builds a form with the given fields and, when content is
// not empty, a "cover" file.
func multipartForm(t *testing.T, fields map[string]string, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != "" {
		fw, err := mw.CreateFormFile("cover", "cover.txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postMultipart(t *testing.T, app http.Handler, target string, fields map[string]string, content string) *httptest.ResponseRecorder {
	t.Helper()

	body, ct := multipartForm(t, fields, content)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// storedFiles lists the keys of every file under dir.
func storedFiles(t *testing.T, dir string) []string {
	t.Helper()

	var keys []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return keys
}

func coverOf(t *testing.T, app http.Handler, id string) string {
	t.Helper()

	w := do(t, app, http.MethodGet, "/api/v1/article/"+id, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	key, _ := decode[map[string]any](t, w.Body.String())["cover"].(string)
	return key
}

func TestAPICannotPointAtForeignUploads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hooks := internal.Hooks[Article, internal.NoExt]{
		OnDelete: func(_ context.Context, a Article, _ internal.NoExt) (Article, error) {
			a.Cover = "articles/elsewhere.txt"
			return a, nil
		},
	}
	app := newApp(t,
		internal.WithStore(openStore(t, nil)),
		internal.WithUploadsDir(dir),
		internal.WithEntities(internal.Entity(articleSchema(), hooks)),
	)

	w := postMultipart(t, app, "/articles/add", map[string]string{"title": "Owner"}, "owner cover")
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	owner := strings.TrimPrefix(w.Header().Get("Location"), "/article/")
	key := coverOf(t, app, owner)
	require.NotEmpty(t, key)

	w = do(t, app, http.MethodPost, "/api/v1/articles", `{"title":"Other","cover":"`+key+`"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_payload", decode[apiErr](t, w.Body.String()).Error.Code)

	w = do(t, app, http.MethodPost, "/api/v1/articles", `{"title":"Other"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	other := decode[map[string]any](t, w.Body.String())["id"].(string)

	w = do(t, app, http.MethodPost, "/api/v1/article/"+other, `{"cover":"`+key+`"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/api/v1/article/"+other, "").Code)
	assert.Equal(t, []string{key}, storedFiles(t, dir), "owner upload survives")

	w = do(t, app, http.MethodPost, "/api/v1/article/"+owner, `{"title":"Owner 2","cover":"`+key+`"}`)
	require.Equal(t, http.StatusOK, w.Code, "an unchanged key is accepted")
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/uploads/"+key, "").Code)

	require.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/api/v1/article/"+owner, "").Code)
	assert.Empty(t, storedFiles(t, dir), "the stored cover is removed, not the one the hook returned")
}

func TestAPIClearingCoverRemovesUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app := newApp(t,
		internal.WithStore(openStore(t, nil)),
		internal.WithUploadsDir(dir),
		internal.WithEntities(internal.Entity(articleSchema(), internal.NoHooks[Article]())),
	)

	w := postMultipart(t, app, "/articles/add", map[string]string{"title": "Covered"}, "cover bytes")
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	id := strings.TrimPrefix(w.Header().Get("Location"), "/article/")
	require.Len(t, storedFiles(t, dir), 1)

	w = do(t, app, http.MethodPost, "/api/v1/article/"+id, `{"cover":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, coverOf(t, app, id))
	assert.Empty(t, storedFiles(t, dir))
}

func TestUIUploadLifecycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reject := func(a Article) error {
		if a.Title == "spam" {
			return errors.New("looks like spam")
		}
		return nil
	}
	hooks := internal.Hooks[Article, internal.NoExt]{
		OnCreate: func(_ context.Context, a Article, _ internal.NoExt) (Article, error) { return a, reject(a) },
		OnUpdate: func(_ context.Context, _, a Article, _ internal.NoExt) (Article, error) { return a, reject(a) },
	}
	app := newApp(t,
		internal.WithStore(openStore(t, nil)),
		internal.WithUploadsDir(dir),
		internal.WithEntities(internal.Entity(articleSchema(), hooks)),
	)

	w := postMultipart(t, app, "/articles/add", map[string]string{"title": "spam"}, "rejected cover")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, storedFiles(t, dir), "a rejected create keeps no upload")

	w = postMultipart(t, app, "/articles/add", map[string]string{"title": "Post"}, "first cover")
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	id := strings.TrimPrefix(w.Header().Get("Location"), "/article/")
	first := coverOf(t, app, id)

	w = postMultipart(t, app, "/article/"+id, map[string]string{"title": "spam"}, "rejected replacement")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{first}, storedFiles(t, dir), "a rejected update keeps only the stored cover")

	w = postMultipart(t, app, "/article/"+id, map[string]string{"title": "Post"}, "second cover")
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	second := coverOf(t, app, id)
	require.NotEqual(t, first, second)
	assert.Equal(t, []string{second}, storedFiles(t, dir), "the replaced cover is removed")

	w = postMultipart(t, app, "/article/"+id, map[string]string{"title": "Renamed"}, "")
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, second, coverOf(t, app, id), "no upload keeps the cover")

	require.Equal(t, http.StatusSeeOther, do(t, app, http.MethodPost, "/article/"+id+"/delete", "", "Content-Type", formType).Code)
	assert.Empty(t, storedFiles(t, dir))
}
