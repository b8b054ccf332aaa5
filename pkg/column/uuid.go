package column

import (
	"fmt"

	"github.com/google/uuid"
)

// UUID is an identifier column. Zero values are replaced by a random
// version 4 UUID when an entity is created.
type UUID struct {
	uuid.UUID
}

// NewUUID returns a random UUID column value.
func NewUUID() UUID { return UUID{UUID: uuid.New()} }

func (u UUID) Raw() any          { return u.UUID }
func (u UUID) InputType() string { return "text" }
func (u UUID) IsZero() bool      { return u.UUID == uuid.Nil }
func (u *UUID) Generate()        { u.UUID = uuid.New() }

// UnmarshalText parses the canonical form and the other forms uuid.Parse accepts.
func (u *UUID) UnmarshalText(b []byte) error {
	v, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	u.UUID = v
	return nil
}
