package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, which keeps id-based tie-breaks aligned with created_at.
func New() string {
	return NewAt(time.Now())
}

// NewAt generates a ULID whose timestamp component is t.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
