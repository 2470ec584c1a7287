// Package identity provides the stable identifier shared by live entities
// and the records persisted for them.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a globally unique entity identifier. The zero value is the nil
// UUID and never identifies a real entity.
type ID uuid.UUID

// Nil is the zero ID.
var Nil ID

// New returns a fresh random ID.
func New() ID {
	return ID(uuid.New())
}

// Parse decodes an ID from its canonical string form.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("parsing id %q: %w", s, err)
	}
	return ID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// fixtures and level definitions known at compile time.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) IsZero() bool {
	return id == Nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return fmt.Errorf("unmarshalling id: %w", err)
	}
	*id = ID(u)
	return nil
}
