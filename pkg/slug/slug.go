package slug

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*config)

type config struct {
	replace   map[string]string
	separator string
	strip     string
	maxLength int
	keepCase  bool
}

// Separator sets the string placed between words. Defaults to "-".
func Separator(sep string) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// Lowercase controls case folding. Defaults to true.
func Lowercase(lower bool) Option {
	return func(c *config) {
		c.keepCase = !lower
	}
}

// MaxLength limits the slug to n runes. Words are never left with a
// trailing separator after truncation.
func MaxLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// StripChars removes every character in chars before processing.
func StripChars(chars string) Option {
	return func(c *config) {
		c.strip += chars
	}
}

// CustomReplace applies string replacements before processing.
// Replacements run in lexical order of their keys.
func CustomReplace(m map[string]string) Option {
	return func(c *config) {
		if c.replace == nil {
			c.replace = make(map[string]string, len(m))
		}
		for k, v := range m {
			c.replace[k] = v
		}
	}
}

// Letters that do not decompose under NFD.
var specialLetters = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "ø", "o", "Ø", "O",
	"œ", "oe", "Œ", "OE", "đ", "d", "Đ", "D", "ł", "l", "Ł", "L",
	"þ", "th", "Þ", "TH",
)

// Make converts s into a slug.
func Make(s string, opts ...Option) string {
	cfg := config{separator: "-"}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(cfg.replace) > 0 {
		keys := make([]string, 0, len(cfg.replace))
		for k := range cfg.replace {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			s = strings.ReplaceAll(s, k, " "+cfg.replace[k]+" ")
		}
	}
	if cfg.strip != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(cfg.strip, r) {
				return -1
			}
			return r
		}, s)
	}

	words := splitWords(fold(s))
	if !cfg.keepCase {
		for i, w := range words {
			words[i] = strings.Map(unicode.ToLower, w)
		}
	}

	out := strings.Join(words, cfg.separator)
	if cfg.maxLength > 0 && utf8.RuneCountInString(out) > cfg.maxLength {
		out = string([]rune(out)[:cfg.maxLength])
		if cfg.separator != "" {
			out = strings.TrimRight(out, cfg.separator)
		}
	}
	return out
}

// Path returns the kebab-case, percent-encoded path segment for name.
// Letters outside ASCII are kept and escaped: "Статья" -> "%D1%81%D1%82...".
func Path(name string) string {
	return url.PathEscape(Make(name))
}

// fold strips diacritics from Latin letters and maps a few non-decomposable
// ones to ASCII. Marks on other scripts are kept: "й" stays "й".
func fold(s string) string {
	s = specialLetters.Replace(s)

	var (
		b    strings.Builder
		base rune
	)
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) && unicode.Is(unicode.Latin, base) {
			continue
		}
		if !unicode.Is(unicode.Mn, r) {
			base = r
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// splitWords splits on anything that is not a letter or digit, and on case
// and digit boundaries inside a run: "blogPost" -> blog|Post,
// "HTTPServer" -> HTTP|Server, "Article2" -> Article|2.
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	rs := []rune(s)
	for i, r := range rs {
		if !isAlnum(r) {
			flush()
			continue
		}
		if unicode.IsMark(r) {
			// Combining marks stay with their letter.
			if len(cur) > 0 {
				cur = append(cur, r)
			}
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && nextLower:
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
