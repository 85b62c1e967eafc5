// Package id hands out run identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader = ulid.Monotonic(cryptoRand.Reader, 0)
)

// NewRun returns a ULID stamped with at. Ids minted in the same
// millisecond still sort in creation order.
func NewRun(at time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(at.UTC()), entropy).String()
}

// CreatedAt recovers the timestamp embedded in a run id.
func CreatedAt(runID string) (time.Time, error) {
	u, err := ulid.ParseStrict(runID)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse run id %q: %w", runID, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}
