package storage

import "fmt"

// ValidationRule checks an upload before it is stored.
type ValidationRule func(size int64, mimeType string) error

// MaxSize rejects files larger than n bytes.
func MaxSize(n int64) ValidationRule {
	return func(size int64, _ string) error {
		if size > n {
			return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, size, n)
		}
		return nil
	}
}

// AllowedTypes accepts only matching MIME types; "image/*" style wildcards work.
func AllowedTypes(patterns ...string) ValidationRule {
	return func(_ int64, mimeType string) error {
		if !matchesMIME(mimeType, patterns) {
			return fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
		}
		return nil
	}
}

// ImageOnly accepts image/* uploads.
func ImageOnly() ValidationRule { return AllowedTypes("image/*") }

func validate(size int64, mimeType string, rules ...ValidationRule) error {
	for _, rule := range rules {
		if err := rule(size, mimeType); err != nil {
			return err
		}
	}
	return nil
}
