package postgres

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator mints ULIDs for alert payloads. Monotonic entropy keeps IDs
// minted in the same millisecond sortable in creation order.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ULIDGenerator{entropy: ulid.Monotonic(seed, 0)}
}

// Generate returns a fresh ULID string.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
