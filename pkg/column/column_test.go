package column_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cms/pkg/column"
)

func TestText(t *testing.T) {
	t.Parallel()

	var v column.Text
	require.NoError(t, v.UnmarshalText([]byte("hello")))
	assert.Equal(t, "hello", v.String())
	assert.Equal(t, "hello", v.Raw())

	require.NoError(t, v.Scan([]byte("bytes")))
	assert.Equal(t, column.Text("bytes"), v)

	require.NoError(t, v.Scan(nil))
	assert.Equal(t, column.Text(""), v)

	assert.ErrorIs(t, v.Scan(42), column.ErrScan)
}

func TestInt(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var v column.Int
		require.NoError(t, v.UnmarshalText([]byte(" 42 ")))
		assert.Equal(t, column.Int(42), v)
		assert.Equal(t, "42", v.String())
		assert.Equal(t, int64(42), v.Raw())

		require.NoError(t, v.UnmarshalText(nil))
		assert.Equal(t, column.Int(0), v)

		assert.ErrorIs(t, v.UnmarshalText([]byte("4x")), column.ErrParse)
	})

	t.Run("json accepts numbers", func(t *testing.T) {
		t.Parallel()
		var dst struct {
			N column.Int `json:"n"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"n": 7}`), &dst))
		assert.Equal(t, column.Int(7), dst.N)

		out, err := json.Marshal(dst)
		require.NoError(t, err)
		assert.JSONEq(t, `{"n": 7}`, string(out))
	})

	t.Run("scan", func(t *testing.T) {
		t.Parallel()
		var v column.Int
		require.NoError(t, v.Scan(int64(9)))
		assert.Equal(t, column.Int(9), v)
		require.NoError(t, v.Scan("12"))
		assert.Equal(t, column.Int(12), v)
		assert.ErrorIs(t, v.Scan(true), column.ErrScan)
	})
}

func TestFloat(t *testing.T) {
	t.Parallel()

	var v column.Float
	require.NoError(t, v.UnmarshalText([]byte("1.5")))
	assert.Equal(t, "1.5", v.String())

	var dst struct {
		F column.Float `json:"f"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"f": 2.25}`), &dst))
	assert.Equal(t, column.Float(2.25), dst.F)

	require.NoError(t, v.Scan(int64(3)))
	assert.Equal(t, column.Float(3), v)
}

func TestBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"on", true},
		{"off", false},
		{"true", true},
		{"1", true},
		{"0", false},
		{"YES", true},
	}
	for _, tt := range tests {
		var v column.Bool
		require.NoError(t, v.UnmarshalText([]byte(tt.in)), tt.in)
		assert.Equal(t, tt.want, bool(v), tt.in)
	}

	var v column.Bool
	assert.ErrorIs(t, v.UnmarshalText([]byte("maybe")), column.ErrParse)

	var dst struct {
		B column.Bool `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"b": true}`), &dst))
	assert.True(t, bool(dst.B))

	require.NoError(t, v.Scan(int64(1)))
	assert.True(t, bool(v))
}

func TestTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-01T10:30:00Z", "2024-03-01T10:30", "2024-03-01 10:30:00"} {
		var v column.Time
		require.NoError(t, v.UnmarshalText([]byte(in)), in)
		assert.True(t, want.Equal(v.Time), in)
	}

	var v column.Time
	require.NoError(t, v.UnmarshalText(nil))
	assert.True(t, v.IsZero())
	assert.Equal(t, "", v.String())

	assert.ErrorIs(t, v.UnmarshalText([]byte("yesterday")), column.ErrParse)

	v = column.Time{Time: want}
	assert.Equal(t, "2024-03-01T10:30:00Z", v.String())

	out, err := json.Marshal(struct {
		At column.Time `json:"at"`
	}{v})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at": "2024-03-01T10:30:00Z"}`, string(out))
}

func TestUUID(t *testing.T) {
	t.Parallel()

	var v column.UUID
	assert.True(t, v.IsZero())
	v.Generate()
	assert.False(t, v.IsZero())

	const s = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	require.NoError(t, v.UnmarshalText([]byte(s)))
	assert.Equal(t, s, v.String())

	assert.ErrorIs(t, v.UnmarshalText([]byte("not-a-uuid")), column.ErrParse)

	var scanned column.UUID
	require.NoError(t, scanned.Scan(s))
	assert.Equal(t, s, scanned.String())

	out, err := json.Marshal(struct {
		ID column.UUID `json:"id"`
	}{scanned})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "`+s+`"}`, string(out))
}

func TestMarkdownHTML(t *testing.T) {
	t.Parallel()

	m := column.Markdown("# Title\n\nSome *text*.\n\n<script>alert(1)</script>")
	html := m.HTML()
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<em>text</em>")
	assert.NotContains(t, html, "<script>")
	assert.Equal(t, "textarea", m.InputType())
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", column.File("").URL())
	assert.Equal(t, "/uploads/articles/cover%20image.png", column.File("articles/cover image.png").URL())

	var f column.File
	f.SetKey("a/b.txt")
	assert.Equal(t, "/uploads/a/b.txt", f.URL())
}
