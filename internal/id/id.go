package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. Run records sort lexicographically by creation
// time, which keeps SQLite listings chronological for free.
func New() string {
	return ulid.Make().String()
}
