package session

import (
	"context"
	"fmt"
	"log/slog"
)

// Session is a unit of work against the store.
type Session interface {
	Commit() error
	Close() error
}

// Provider opens sessions.
type Provider interface {
	Begin(ctx context.Context) (Session, error)
}

// Do runs fn inside a session.
//
// When s is non-nil, fn runs in it and the caller keeps ownership: Do
// neither commits nor closes it. When s is nil, Do begins a fresh session,
// commits it if fn succeeds and closes it on every exit path, including a
// panic in fn (which is re-raised after closing).
func Do[T any](ctx context.Context, p Provider, s Session, fn func(context.Context, Session) (T, error)) (result T, err error) {
	if s != nil {
		return fn(ctx, s)
	}

	s, err = p.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin session: %w", err)
	}

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			slog.Debug("session close failed", "error", closeErr)
			if err == nil {
				err = fmt.Errorf("close session: %w", closeErr)
			}
		}
	}()

	result, err = fn(ctx, s)
	if err != nil {
		return result, err
	}

	if err := s.Commit(); err != nil {
		var zero T
		return zero, fmt.Errorf("commit session: %w", err)
	}
	return result, nil
}

// Run is Do for functions without a result.
func Run(ctx context.Context, p Provider, s Session, fn func(context.Context, Session) error) error {
	_, err := Do(ctx, p, s, func(ctx context.Context, s Session) (struct{}, error) {
		return struct{}{}, fn(ctx, s)
	})
	return err
}
