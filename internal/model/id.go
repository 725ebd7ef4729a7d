package model

import "github.com/oklog/ulid/v2"

// NewID generates a new ULID string. It is used for request identifiers.
func NewID() string {
	return ulid.Make().String()
}
