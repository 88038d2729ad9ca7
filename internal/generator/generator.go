// Package generator builds synthetic records for every entity type.
//
// A generator captures its configuration, a reference time and the upstream
// identifiers it draws foreign keys from when it is constructed. After that it
// is read-only, so one value can serve any number of workers as long as each
// worker passes its own *rand.Rand.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Generator produces the record for one index of a phase.
type Generator[R any] interface {
	Generate(rng *rand.Rand, index int) (R, error)
}

// Func adapts a plain function to Generator.
type Func[R any] func(rng *rand.Rand, index int) (R, error)

func (fn Func[R]) Generate(rng *rand.Rand, index int) (R, error) {
	return fn(rng, index)
}

func newID(kind string) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate %s id: %w", kind, err)
	}
	return id, nil
}

func ptr[T any](v T) *T {
	return &v
}
