// Package history keeps a record of finished simulation runs.
//
// Records are written by the sim runner after every successful run and read
// back by the CLI's history commands and the HTTP API. Three backends
// implement [Store]:
//   - [MemoryStore]: in-process, for tests and the default server
//   - [FileStore]: one JSON file per run, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
package history

import (
	"context"
	"time"
)

// DefaultLimit is the number of records List returns when no limit is given.
const DefaultLimit = 20

// Record is the stored summary of one run.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	Strategy  string        `json:"strategy" bson:"strategy"`
	Size      int           `json:"size" bson:"size"`
	Seed      uint64        `json:"seed,omitempty" bson:"-"`
	Input     []int64       `json:"input" bson:"input"`
	Output    []int64       `json:"output" bson:"output"`
	Rounds    int           `json:"rounds" bson:"rounds"`
	Sorted    bool          `json:"sorted" bson:"sorted"`
	Converged bool          `json:"converged" bson:"converged"`
	CacheHit  bool          `json:"cache_hit,omitempty" bson:"cache_hit,omitempty"`
	Duration  time.Duration `json:"duration" bson:"duration"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// Store persists run records.
type Store interface {
	// Save stores rec, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit of 0 or less
	// means DefaultLimit.
	List(ctx context.Context, limit int) ([]*Record, error)

	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
