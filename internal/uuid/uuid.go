// Package uuid hands out identifiers for stored world snapshots
package uuid

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator creates identifiers
type Generator interface {
	New() string
}

// GoogleUUIDGenerator creates random version 4 uuids
type GoogleUUIDGenerator struct{}

// New implements Generator
func (g *GoogleUUIDGenerator) New() string {
	return uuid.NewString()
}

// NewGoogleUUIDGenerator creates a random generator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// SequenceGenerator creates predictable ids "<prefix>-1", "<prefix>-2", ...
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceGenerator creates a generator counting from 1
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// New implements Generator
func (g *SequenceGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

// Valid reports whether id is a well formed uuid
func Valid(id string) bool {
	return uuid.Validate(id) == nil
}
