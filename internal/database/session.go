package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/uptrace/bun"

	"ms-events/internal/logger"
)

var (
	ErrNoSession          = errors.New("no database session in context")
	ErrSessionUnavailable = errors.New("database unavailable")
)

type sessionKey struct{}

// Opener hands out dedicated connections; *bun.DB satisfies it.
type Opener interface {
	Conn(ctx context.Context) (bun.Conn, error)
}

// session acquires its connection on first use and at most once per request.
type session struct {
	db Opener

	mu       sync.Mutex
	conn     bun.Conn
	acquired bool
	err      error
}

func (s *session) get(ctx context.Context) (bun.IDB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.acquired {
		return s.conn, nil
	}
	if s.err != nil {
		return nil, s.err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.err = fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
		return nil, s.err
	}
	s.conn, s.acquired = conn, true
	return conn, nil
}

func (s *session) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acquired {
		return nil
	}
	s.acquired = false
	return s.conn.Close()
}

// SessionFromContext returns the request's connection, opening it on the
// first call. Errors wrap ErrNoSession or ErrSessionUnavailable.
func SessionFromContext(ctx context.Context) (bun.IDB, error) {
	s, ok := ctx.Value(sessionKey{}).(*session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s.get(ctx)
}

// SessionMiddleware gives every request a session that connects on first use
// and is returned to the pool on every exit path, panics included. Requests
// that never ask for it never touch the database.
func SessionMiddleware(db Opener, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &session{db: db}
			defer func() {
				if err := sess.release(); err != nil {
					log.Warn("SESSION", fmt.Sprintf("Failed to release database session: %v", err))
				}
			}()

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
		})
	}
}
