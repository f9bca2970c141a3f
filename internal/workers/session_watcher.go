package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/session"
)

// WatchedSession is the part of [session.Session] the watcher drives.
type WatchedSession interface {
	Current() session.Snapshot
	Subscribe() (<-chan session.Snapshot, func())
	Revalidate(ctx context.Context) (session.Snapshot, error)
	Expire(ctx context.Context)
}

// SessionWatcher keeps an open session honest while the client idles:
// it ends the session when the token expiry passes on the local clock and
// periodically re-verifies it with the server.
type SessionWatcher struct {
	session  WatchedSession
	interval time.Duration
	logger   *logger.Logger
}

// NewSessionWatcher returns a watcher that re-verifies every cfg.CheckInterval.
func NewSessionWatcher(s WatchedSession, cfg config.ClientWorkers, logger *logger.Logger) *SessionWatcher {
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = config.DefaultCheckInterval
	}
	return &SessionWatcher{session: s, interval: interval, logger: logger}
}

// Run implements [Worker].
func (w *SessionWatcher) Run(ctx context.Context) error {
	updates, unsubscribe := w.session.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	expiry := time.NewTimer(time.Hour)
	defer expiry.Stop()
	w.schedule(expiry, w.session.Current())

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			w.schedule(expiry, snap)
		case <-expiry.C:
			w.logger.Info().Msg("session token expired on the client clock")
			w.session.Expire(ctx)
		case <-ticker.C:
			if !w.session.Current().Authenticated() {
				continue
			}
			if _, err := w.session.Revalidate(ctx); err != nil {
				w.logger.Debug().Err(err).Msg("periodic session check failed")
			}
		}
	}
}

// schedule arms the expiry timer for an authenticated session with a known
// expiry and disarms it otherwise.
func (w *SessionWatcher) schedule(expiry *time.Timer, snap session.Snapshot) {
	if !snap.Authenticated() || snap.ExpiresAt.IsZero() {
		expiry.Stop()
		return
	}
	expiry.Reset(max(time.Until(snap.ExpiresAt), 0))
}
