package internal

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrymomot/cms/pkg/column"
	"github.com/dmitrymomot/cms/pkg/storage"
)

const uploadsPattern = column.UploadsPrefix + "*"

// serveUpload streams a stored file. Keys are the path below /uploads/.
func (a *App) serveUpload(c Ctx) error {
	key := strings.TrimPrefix(c.Request().URL.Path, column.UploadsPrefix)
	if key == "" || strings.HasSuffix(key, "/") {
		return ErrNotFound("file not found")
	}

	rc, err := a.storage.Get(c, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return ErrNotFound("file not found", WithError(err))
		}
		return ErrInternal("failed to read file", WithError(errors.Join(ErrStorage, err)))
	}
	defer rc.Close()

	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.SetHeader("Content-Type", ct)
	c.SetHeader("Cache-Control", "public, max-age=3600")
	c.SetHeader("X-Content-Type-Options", "nosniff")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := io.Copy(c.Response(), rc); err != nil {
		c.LogError("failed to stream upload", "key", key, "error", err)
	}
	return nil
}
