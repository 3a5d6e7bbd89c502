package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Public identifiers for users and organisations are ULIDs: opaque,
// lexicographically sortable strings that are never the database's
// auto-increment primary key.  A single monotonic entropy source is shared
// behind a mutex so concurrent requests cannot collide.
var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh ULID string using the current UTC time.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), idEntropy).String()
}
