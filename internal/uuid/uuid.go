// Package uuid wraps google/uuid so that resource IDs bind directly from
// gin URI parameters.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID embeds google/uuid and adds URI parameter binding.
type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// UnmarshalParam parses a URI parameter into the UUID. The empty string
// maps to Nil so that optional parameters bind without an error.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}
