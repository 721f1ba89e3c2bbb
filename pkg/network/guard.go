package network

import "github.com/matzehuels/sortnet/pkg/errors"

// Guarded is a processor that can be held exclusively by one task at a time.
// It is implemented by [Processor] and [Cell].
type Guarded interface {
	Position() int
	lock()
	unlock()
}

// WithLocks runs fn while holding every processor in held.
//
// Processors must be listed in strictly ascending index order; they are
// acquired in that order and released in reverse, including when fn panics.
// A list that is not strictly ascending is rejected with a LOCK_ORDER error
// before anything is acquired.
func WithLocks(fn func(), held ...Guarded) error {
	for i := 1; i < len(held); i++ {
		if held[i-1].Position() >= held[i].Position() {
			return errors.New(errors.ErrCodeLockOrder,
				"processor %d acquired after processor %d", held[i].Position(), held[i-1].Position())
		}
	}
	for _, g := range held {
		g.lock()
		defer g.unlock()
	}
	fn()
	return nil
}
