package reply

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	// Marker is the character screams are made of.
	Marker = "A"
	// Trigger is the substring that marks a message as a scream.
	Trigger = "AAA"

	minLength = 1
	maxLength = 100 // exclusive
)

// Generator produces replies and decides random replies.
type Generator interface {
	Scream() string
	Roll(percent float64) bool
}

var _ Generator = (*DefaultGenerator)(nil)

// DefaultGenerator is safe for concurrent use.
type DefaultGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator seeded from the clock.
func New() *DefaultGenerator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed creates a deterministic generator.
func NewWithSeed(seed int64) *DefaultGenerator {
	return &DefaultGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Scream returns Marker repeated between 1 and 99 times.
func (g *DefaultGenerator) Scream() string {
	g.mu.Lock()
	n := minLength + g.rng.Intn(maxLength-minLength)
	g.mu.Unlock()
	return strings.Repeat(Marker, n)
}

// Roll reports true with probability percent/100. Zero never succeeds and
// 100 always does.
func (g *DefaultGenerator) Roll(percent float64) bool {
	g.mu.Lock()
	v := g.rng.Float64() * 100
	g.mu.Unlock()
	return v < percent
}

// IsScream reports whether content contains the trigger, ignoring case.
func IsScream(content string) bool {
	return strings.Contains(strings.ToUpper(content), Trigger)
}
