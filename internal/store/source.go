package store

import "github.com/starford/herald/internal/models"

// Source defines the snapshot read operations the digest run depends
// on. Consumers should depend on this interface rather than the
// concrete *DB type to facilitate testing with fakes.
type Source interface {
	OpenQuests() ([]models.Quest, error)
	OpenLabors() ([]models.Labor, error)
	Close() error
}

// Verify *DB satisfies Source at compile time.
var _ Source = (*DB)(nil)
