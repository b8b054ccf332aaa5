package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cms/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slug.Option
		expected string
	}{
		{name: "simple text", input: "Hello World", expected: "hello-world"},
		{name: "with punctuation", input: "Hello, World!", expected: "hello-world"},
		{name: "with numbers", input: "Product 123", expected: "product-123"},
		{name: "multiple spaces", input: "Too    Many     Spaces", expected: "too-many-spaces"},
		{name: "leading and trailing spaces", input: "  Trim Me  ", expected: "trim-me"},
		{name: "special characters", input: "Price: $99.99", expected: "price-99-99"},
		{name: "empty string", input: "", expected: ""},
		{name: "only special characters", input: "!@#$%^&*()", expected: ""},
		{name: "unicode diacritics", input: "Café résumé naïve", expected: "cafe-resume-naive"},
		{name: "non-decomposable letters", input: "Straße Smørrebrød", expected: "strasse-smorrebrod"},
		{name: "pascal case", input: "BlogPost", expected: "blog-post"},
		{name: "camel case", input: "blogPost", expected: "blog-post"},
		{name: "acronym prefix", input: "HTTPServer", expected: "http-server"},
		{name: "digit boundaries", input: "Version2Beta", expected: "version-2-beta"},
		{name: "trailing digit", input: "Article2", expected: "article-2"},
		{name: "snake case", input: "blog_post", expected: "blog-post"},
		{name: "cyrillic is kept", input: "Привет World", expected: "привет-world"},
		{name: "cyrillic marks are kept", input: "Мой Йогурт", expected: "мой-йогурт"},
		{name: "cyrillic camel case", input: "СтатьяБлога", expected: "статья-блога"},
		{name: "cjk words", input: "記事 一覧", expected: "記事-一覧"},
		{
			name:     "mixed case with lowercase false",
			input:    "Hello World",
			opts:     []slug.Option{slug.Lowercase(false)},
			expected: "Hello-World",
		},
		{
			name:     "custom separator",
			input:    "Hello World",
			opts:     []slug.Option{slug.Separator("_")},
			expected: "hello_world",
		},
		{
			name:     "max length",
			input:    "This is a very long title that should be truncated",
			opts:     []slug.Option{slug.MaxLength(20)},
			expected: "this-is-a-very-long",
		},
		{
			name:     "strip chars",
			input:    "Price: $100",
			opts:     []slug.Option{slug.StripChars("$:")},
			expected: "price-100",
		},
		{
			name:     "custom replace",
			input:    "Fish & Chips @ Home",
			opts:     []slug.Option{slug.CustomReplace(map[string]string{"&": "and", "@": "at"})},
			expected: "fish-and-chips-at-home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Article", "Articles", "BlogPost", "blog post", "HTTPServer",
		"ArticleCategories", "Café Menu", "already-a-slug", "v2Release",
		"Статья", "Мой Йогурт", "記事一覧", "Article2",
	}
	for _, in := range inputs {
		once := slug.Make(in)
		assert.Equal(t, once, slug.Make(once), "input %q", in)
	}
}

func TestMakeCaseNormalizing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slug.Make("blog-post"), slug.Make("BlogPost"))
	assert.Equal(t, slug.Make("blog-post"), slug.Make("Blog Post"))
	assert.Equal(t, slug.Make("blog-post"), slug.Make("BLOG_POST"))
}

func TestPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "article", slug.Path("Article"))
	assert.Equal(t, "articles", slug.Path("Articles"))
	assert.Equal(t, "blog-posts", slug.Path("BlogPosts"))
	assert.Equal(t, slug.Path("BlogPosts"), slug.Path(slug.Path("BlogPosts")))
	assert.Equal(t, "%D1%81%D1%82%D0%B0%D1%82%D1%8C%D1%8F", slug.Path("Статья"))
	assert.Equal(t, "article-2", slug.Path("Article2"))
}
