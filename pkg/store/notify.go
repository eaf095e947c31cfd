package store

import (
	"context"

	"github.com/revaer/revaer/pkg/revaerr"
)

// RawNotification is one `settings` channel payload as delivered by
// Postgres, before pkg/config parses it into a typed SettingsChange.
type RawNotification struct {
	Payload string
}

// Listen opens a single dedicated connection, issues LISTEN settings,
// and returns a channel of raw payloads plus a close function. The
// channel is closed (and the connection released) when ctx is
// cancelled or Close is called, whichever comes first — pkg/config's
// watcher owns exactly one of these at a time per spec §5's "Watcher
// owns a single LISTEN connection".
func (s *Store) Listen(ctx context.Context) (<-chan RawNotification, func(), error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, &revaerr.DatabaseError{Operation: "listen_acquire", Source: err}
	}
	if _, err := conn.Exec(ctx, "LISTEN settings"); err != nil {
		conn.Release()
		return nil, nil, &revaerr.DatabaseError{Operation: "listen_exec", Source: err}
	}

	out := make(chan RawNotification, 64)
	done := make(chan struct{})
	closeOnce := func() {
		select {
		case <-done:
		default:
			close(done)
		}
	}

	go func() {
		defer close(out)
		defer conn.Release()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				return
			}
			select {
			case out <- RawNotification{Payload: n.Payload}:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, closeOnce, nil
}
