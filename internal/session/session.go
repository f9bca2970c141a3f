// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the client-side view of the authenticated account.
//
// A [Session] owns the persisted token: it is the only component that reads
// or writes the [store.TokenStore]. It moves through
// Unknown → Checking → Authenticated | Unauthenticated and notifies
// subscribers on every transition.
//
// Every server call made through the session is retried once on a transport
// failure. A 401 answer clears the token and ends the session; a 403 answer
// is returned to the caller and leaves the session untouched.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-study-platform/internal/adapter"
	"github.com/MKhiriev/go-study-platform/internal/app"
	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/internal/store"
	"github.com/MKhiriev/go-study-platform/internal/utils"
	"github.com/MKhiriev/go-study-platform/models"
	"golang.org/x/sync/singleflight"
)

const (
	verifyFlightKey = "verify"
	// defaultVerifyTimeout bounds a shared verification, which outlives the
	// context of the caller that started it.
	defaultVerifyTimeout = 30 * time.Second

	defaultRetryDelay = 300 * time.Millisecond
)

// Session is safe for concurrent use.
type Session struct {
	adapter adapter.ServerAdapter
	tokens  store.TokenStore

	flights       singleflight.Group
	retryDelay    time.Duration
	verifyTimeout time.Duration

	mu          sync.RWMutex
	current     Snapshot
	subscribers map[uint64]chan Snapshot
	nextSubID   uint64

	logger *logger.Logger
}

// New returns a session in [StateUnknown].
func New(serverAdapter adapter.ServerAdapter, tokens store.TokenStore, logger *logger.Logger) *Session {
	return &Session{
		adapter:       serverAdapter,
		tokens:        tokens,
		retryDelay:    defaultRetryDelay,
		verifyTimeout: defaultVerifyTimeout,
		subscribers:   make(map[uint64]chan Snapshot),
		logger:        logger,
	}
}

// Current returns the latest snapshot without touching the network.
func (s *Session) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel that receives the latest snapshot after every
// transition. Slow readers only see the most recent one. The returned
// function unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Snapshot, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

// Check resolves an unknown session. From [StateUnknown] it verifies the
// stored token with the server once; concurrent callers share the result.
// Settled sessions are returned as they are.
func (s *Session) Check(ctx context.Context) (Snapshot, error) {
	return s.verify(ctx, false)
}

// Revalidate verifies the stored token with the server regardless of the
// current state, so that role and status changes made elsewhere apply.
func (s *Session) Revalidate(ctx context.Context) (Snapshot, error) {
	return s.verify(ctx, true)
}

func (s *Session) verify(ctx context.Context, force bool) (Snapshot, error) {
	if current := s.Current(); !force && settled(current) {
		return current, nil
	}

	flight := s.flights.DoChan(verifyFlightKey, func() (any, error) {
		// a caller may have lost the race with a flight that already settled the session
		if current := s.Current(); !force && settled(current) {
			return current, nil
		}

		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.verifyTimeout)
		defer cancel()
		return s.doVerify(flightCtx)
	})

	select {
	case res := <-flight:
		if res.Shared {
			s.logger.Debug().Msg("session verification shared with a concurrent caller")
		}
		return res.Val.(Snapshot), res.Err
	case <-ctx.Done():
		return s.Current(), fmt.Errorf("verify session: %w", ctx.Err())
	}
}

func settled(snap Snapshot) bool {
	return snap.State == StateAuthenticated || snap.State == StateUnauthenticated
}

func (s *Session) doVerify(ctx context.Context) (Snapshot, error) {
	previous := s.Current()

	token, err := s.tokens.LoadToken(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrTokenNotFound) {
			s.logger.Warn().Err(err).Msg("failed to load session token")
		}
		s.adapter.SetToken("")
		if previous.State == StateUnauthenticated {
			return previous, nil
		}
		return s.set(unauthenticated(ReasonLoginRequired)), nil
	}

	if previous.State == StateUnknown {
		s.set(Snapshot{State: StateChecking})
	}

	s.adapter.SetToken(token)
	resp, err := withRetry(ctx, s.retryDelay, s.adapter.Verify)
	if err != nil {
		if ctx.Err() != nil {
			return s.restore(previous), fmt.Errorf("verify session: %w", err)
		}
		return s.fail(ctx, err), fmt.Errorf("verify session: %w", err)
	}

	expiresAt := resp.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.expiryOf(token)
	}

	return s.set(Snapshot{State: StateAuthenticated, Account: resp.Account, ExpiresAt: expiresAt}), nil
}

// Login exchanges credentials for a token and persists it.
// On failure the session becomes unauthenticated and the error is returned.
// A refused login also forgets the previous token; an unreachable server
// leaves it stored.
func (s *Session) Login(ctx context.Context, email, secret string) (Snapshot, error) {
	s.set(Snapshot{State: StateChecking})

	resp, err := withRetry(ctx, s.retryDelay, func(ctx context.Context) (models.LoginResponse, error) {
		return s.adapter.Login(ctx, models.LoginRequest{Email: email, Secret: secret})
	})
	if err != nil {
		reason := ReasonLoginRequired
		if errors.Is(err, adapter.ErrServerUnreachable) {
			reason = ReasonUnreachable
		}
		var apiErr *adapter.APIError
		if errors.As(err, &apiErr) {
			if clearErr := s.clearToken(ctx); clearErr != nil {
				s.logger.Warn().Err(clearErr).Msg("failed to clear previous session token")
			}
		}
		return s.set(unauthenticated(reason)), fmt.Errorf("login: %w", err)
	}

	if err = s.tokens.SaveToken(ctx, resp.Token); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session token")
	}

	s.logger.Info().Str("account_id", resp.Account.ID).Str("role", resp.Account.Role.String()).Msg("logged in")
	return s.set(Snapshot{
		State:     StateAuthenticated,
		Account:   resp.Account,
		ExpiresAt: s.expiryOf(resp.Token),
	}), nil
}

// Register creates an account and logs in with the same credentials.
// A failed registration leaves the session as it was.
func (s *Session) Register(ctx context.Context, name, email, secret string) (Snapshot, error) {
	_, err := withRetry(ctx, s.retryDelay, func(ctx context.Context) (models.PublicAccount, error) {
		return s.adapter.Register(ctx, models.RegisterRequest{Name: name, Email: email, Secret: secret})
	})
	if err != nil {
		return s.Current(), fmt.Errorf("register: %w", err)
	}

	return s.Login(ctx, email, secret)
}

// Logout forgets the token locally. Tokens are stateless, so the server is
// not contacted.
func (s *Session) Logout(ctx context.Context) error {
	err := s.clearToken(ctx)
	s.set(unauthenticated(ReasonLoginRequired))
	s.logger.Info().Msg("logged out")
	return err
}

// Expire ends a session whose token expiry has passed on the client clock.
func (s *Session) Expire(ctx context.Context) {
	if !s.Current().Authenticated() {
		return
	}
	if err := s.clearToken(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear expired session token")
	}
	s.set(unauthenticated(ReasonExpired))
	s.logger.Info().Msg("session expired")
}

// Profile returns the profile of the current user.
func (s *Session) Profile(ctx context.Context) (models.PublicAccount, error) {
	return call(ctx, s, s.adapter.GetProfile)
}

// UpdateProfile renames the current user and refreshes the snapshot.
func (s *Session) UpdateProfile(ctx context.Context, name string) (models.PublicAccount, error) {
	account, err := call(ctx, s, func(ctx context.Context) (models.PublicAccount, error) {
		return s.adapter.UpdateProfile(ctx, models.UpdateProfileRequest{Name: name})
	})
	if err != nil {
		return models.PublicAccount{}, err
	}

	s.mu.Lock()
	if s.current.Authenticated() && s.current.Account.ID == account.ID {
		next := s.current
		next.Account = account
		s.publishLocked(next)
	}
	s.mu.Unlock()

	return account, nil
}

// ListAccounts returns a page of accounts. Administrators only.
func (s *Session) ListAccounts(ctx context.Context, filter models.AccountFilter) (models.AccountsResponse, error) {
	return call(ctx, s, func(ctx context.Context) (models.AccountsResponse, error) {
		return s.adapter.ListAccounts(ctx, filter)
	})
}

// ChangeRole sets the role of another account. Administrators only.
func (s *Session) ChangeRole(ctx context.Context, id string, role models.Role) (models.PublicAccount, error) {
	return call(ctx, s, func(ctx context.Context) (models.PublicAccount, error) {
		return s.adapter.ChangeRole(ctx, id, role)
	})
}

// ChangeStatus sets the status of another account. Administrators only.
func (s *Session) ChangeStatus(ctx context.Context, id string, status models.AccountStatus) (models.PublicAccount, error) {
	return call(ctx, s, func(ctx context.Context) (models.PublicAccount, error) {
		return s.adapter.ChangeStatus(ctx, id, status)
	})
}

// ServerVersion returns the build version of the server. Public.
func (s *Session) ServerVersion(ctx context.Context) (string, error) {
	return withRetry(ctx, s.retryDelay, s.adapter.GetServerVersion)
}

func call[T any](ctx context.Context, s *Session, fn func(context.Context) (T, error)) (T, error) {
	result, err := withRetry(ctx, s.retryDelay, fn)
	if err != nil && ctx.Err() == nil {
		s.observe(ctx, err)
	}
	return result, err
}

// observe applies the session consequences of a failed protected call.
// Forbidden answers are left to the caller.
func (s *Session) observe(ctx context.Context, err error) {
	switch {
	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrServerUnreachable):
		s.fail(ctx, err)
	}
}

// fail moves the session to unauthenticated. The token is dropped only when
// the server rejected it.
func (s *Session) fail(ctx context.Context, err error) Snapshot {
	if !errors.Is(err, adapter.ErrUnauthorized) {
		s.logger.Warn().Err(err).Msg("server is unreachable")
		return s.set(unauthenticated(ReasonUnreachable))
	}

	if clearErr := s.clearToken(ctx); clearErr != nil {
		s.logger.Warn().Err(clearErr).Msg("failed to clear rejected session token")
	}

	reason := ReasonLoginRequired
	if adapter.ErrorCode(err) == app.CodeTokenExpired {
		reason = ReasonExpired
	}
	s.logger.Info().Str("code", adapter.ErrorCode(err)).Msg("session rejected by server")
	return s.set(unauthenticated(reason))
}

func (s *Session) clearToken(ctx context.Context) error {
	s.adapter.SetToken("")
	if err := s.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

func (s *Session) expiryOf(token string) time.Time {
	expiresAt, err := utils.ParseExpiryUnverified(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token expiry is unreadable")
		return time.Time{}
	}
	return expiresAt
}

// restore undoes the Checking transition of an abandoned verification.
func (s *Session) restore(previous Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.State == StateChecking {
		s.publishLocked(previous)
	}
	return s.current
}

func (s *Session) set(next Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(next)
	return next
}

func (s *Session) publishLocked(next Snapshot) {
	s.current = next
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
