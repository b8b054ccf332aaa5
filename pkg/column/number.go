package column

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Int is a 64-bit integer column. As an identifier, a zero value is left
// for the database to assign on insert.
type Int int64

func (i Int) String() string    { return strconv.FormatInt(int64(i), 10) }
func (i Int) Raw() any          { return int64(i) }
func (i Int) InputType() string { return "number" }
func (i Int) IsZero() bool      { return i == 0 }

// UnmarshalText parses a decimal integer. Empty input yields zero.
func (i *Int) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrParse, s)
	}
	*i = Int(v)
	return nil
}

func (i *Int) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*i = 0
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*i = Int(v)
	return nil
}

func (i *Int) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = 0
	case int64:
		*i = Int(v)
	case float64:
		*i = Int(v)
	case []byte:
		return i.UnmarshalText(v)
	case string:
		return i.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("%w: %T", ErrScan, src)
	}
	return nil
}

func (i Int) Value() (driver.Value, error) { return int64(i), nil }

// Float is a 64-bit floating point column.
type Float float64

func (f Float) String() string    { return strconv.FormatFloat(float64(f), 'f', -1, 64) }
func (f Float) Raw() any          { return float64(f) }
func (f Float) InputType() string { return "number" }

// UnmarshalText parses a decimal number. Empty input yields zero.
func (f *Float) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrParse, s)
	}
	*f = Float(v)
	return nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func (f *Float) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = 0
	case float64:
		*f = Float(v)
	case int64:
		*f = Float(v)
	case []byte:
		return f.UnmarshalText(v)
	case string:
		return f.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("%w: %T", ErrScan, src)
	}
	return nil
}

func (f Float) Value() (driver.Value, error) { return float64(f), nil }

// Bool is a boolean column. HTML checkboxes submit "on" when checked and
// nothing when unchecked, so empty input is false.
type Bool bool

func (b Bool) String() string    { return strconv.FormatBool(bool(b)) }
func (b Bool) Raw() any          { return bool(b) }
func (b Bool) InputType() string { return "checkbox" }

func (b *Bool) UnmarshalText(text []byte) error {
	switch s := strings.ToLower(strings.TrimSpace(string(text))); s {
	case "", "off", "no":
		*b = false
	case "on", "yes":
		*b = true
	default:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrParse, s)
		}
		*b = Bool(v)
	}
	return nil
}

func (b *Bool) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = Bool(v)
	return nil
}

func (b *Bool) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case bool:
		*b = Bool(v)
	case int64:
		*b = v != 0
	case []byte:
		return b.UnmarshalText(v)
	case string:
		return b.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("%w: %T", ErrScan, src)
	}
	return nil
}

func (b Bool) Value() (driver.Value, error) { return bool(b), nil }
