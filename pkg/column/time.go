package column

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Time is a timestamp column. JSON uses RFC 3339 via the embedded time.Time.
type Time struct {
	time.Time
}

// Layouts accepted by UnmarshalText, in order. The second matches the value
// submitted by <input type="datetime-local">, the third is how the sqlite
// driver writes time.Time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (t Time) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func (t Time) Raw() any          { return t.Time }
func (t Time) InputType() string { return "datetime-local" }

// UnmarshalText parses any accepted layout. Empty input yields the zero time.
func (t *Time) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a timestamp", ErrParse, s)
}

func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v.UTC()
	case []byte:
		return t.UnmarshalText(v)
	case string:
		return t.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("%w: %T", ErrScan, src)
	}
	return nil
}

func (t Time) Value() (driver.Value, error) { return t.UTC(), nil }
