package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
)

// Sentinel kinds for record store errors.
var (
	// ErrCorrupt means the backing data exists but cannot be read as a
	// sighting log. It is never returned for a store that does not exist yet.
	ErrCorrupt = errors.New("record store is corrupt")
	// ErrRead means the store could not be reached or the read was cut
	// short. The stored data may be fine.
	ErrRead = errors.New("record store read failed")
	// ErrWrite means an append did not reach durable storage.
	ErrWrite = errors.New("record store write failed")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown record store driver")
)

// readError classifies a failed query. Interruptions and connection
// failures are ErrRead; anything else means the data is unreadable.
func readError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrRead, err)
	default:
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
}
