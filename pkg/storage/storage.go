package storage

import (
	"context"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Storage persists uploaded files under opaque slash-separated keys.
type Storage interface {
	// Put stores r. Without WithKey a key is generated from the prefix and
	// the detected content type.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get opens the file at key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the file at key. Missing keys return ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// FileInfo describes a stored file.
type FileInfo struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Option customizes Put.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	contentType string
	rules       []ValidationRule
}

// WithKey stores the file under an exact key.
func WithKey(key string) Option {
	return func(o *putOptions) { o.key = key }
}

// WithPrefix groups generated keys, e.g. by entity table.
func WithPrefix(prefix string) Option {
	return func(o *putOptions) { o.prefix = prefix }
}

// WithContentType skips MIME detection.
func WithContentType(ct string) Option {
	return func(o *putOptions) { o.contentType = ct }
}

// WithValidation checks size and detected type before storing.
func WithValidation(rules ...ValidationRule) Option {
	return func(o *putOptions) { o.rules = append(o.rules, rules...) }
}

func newPutOptions(opts []Option) *putOptions {
	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// prepare detects the content type, validates and resolves the key.
// The returned reader replays any bytes consumed by detection.
func (o *putOptions) prepare(r io.Reader, size int64) (io.ReadSeeker, string, string, error) {
	contentType := o.contentType
	var (
		body io.ReadSeeker
		err  error
	)
	if contentType == "" {
		contentType, body, err = detectMIMEWithReader(r)
	} else {
		body, err = seekable(r)
	}
	if err != nil {
		return nil, "", "", err
	}

	if err := validate(size, contentType, o.rules...); err != nil {
		return nil, "", "", err
	}

	key := o.key
	if key == "" {
		key = buildKey(o.prefix, contentType)
	}
	if err := checkKey(key); err != nil {
		return nil, "", "", err
	}
	return body, key, contentType, nil
}

// buildKey returns {prefix}/{uuid}{ext}.
func buildKey(prefix, contentType string) string {
	ext := ExtFromMIME(contentType)
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.NewString() + ext
	if p := sanitizeSegment(prefix); p != "" {
		return p + "/" + name
	}
	return name
}

var unsafeSegment = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	segment = unsafeSegment.ReplaceAllString(segment, "_")
	return url.PathEscape(segment)
}

// checkKey rejects absolute keys and keys with empty, "." or ".." segments.
func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
