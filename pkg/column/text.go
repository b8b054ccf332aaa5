package column

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/cms/pkg/sanitizer"
)

// UploadsPrefix is the URL prefix under which File columns are served.
const UploadsPrefix = "/uploads/"

// Text is a single-line string column.
type Text string

func (t Text) String() string    { return string(t) }
func (t Text) Raw() any          { return string(t) }
func (t Text) InputType() string { return "text" }
func (t *Text) UnmarshalText(b []byte) error {
	*t = Text(b)
	return nil
}

func (t *Text) Scan(src any) error {
	s, err := scanString(src)
	*t = Text(s)
	return err
}

func (t Text) Value() (driver.Value, error) { return string(t), nil }

// Markdown is a multi-line column holding CommonMark source.
type Markdown string

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (m Markdown) String() string    { return string(m) }
func (m Markdown) Raw() any          { return string(m) }
func (m Markdown) InputType() string { return "textarea" }

// HTML renders the source to sanitized HTML.
// Rendering errors yield an empty string.
func (m Markdown) HTML() string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(m), &buf); err != nil {
		return ""
	}
	return sanitizer.SanitizeMarkdownHTML(buf.String())
}

func (m *Markdown) UnmarshalText(b []byte) error {
	*m = Markdown(b)
	return nil
}

func (m *Markdown) Scan(src any) error {
	s, err := scanString(src)
	*m = Markdown(s)
	return err
}

func (m Markdown) Value() (driver.Value, error) { return string(m), nil }

// File holds the storage key of an uploaded file.
type File string

func (f File) String() string    { return string(f) }
func (f File) Raw() any          { return string(f) }
func (f File) InputType() string { return "file" }

// URL returns the path the file is served from, or "" for an empty key.
func (f File) URL() string {
	if f == "" {
		return ""
	}
	parts := strings.Split(string(f), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return UploadsPrefix + strings.Join(parts, "/")
}

// SetKey replaces the stored key. Used after a successful upload.
func (f *File) SetKey(key string) { *f = File(key) }

func (f *File) UnmarshalText(b []byte) error {
	*f = File(b)
	return nil
}

func (f *File) Scan(src any) error {
	s, err := scanString(src)
	*f = File(s)
	return err
}

func (f File) Value() (driver.Value, error) { return string(f), nil }

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrScan, src)
	}
}
