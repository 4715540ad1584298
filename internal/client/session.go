// File: internal/client/session.go
package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/user"

	"go.uber.org/zap"
)

// State is the session lifecycle phase.
type State int

const (
	// StateAnonymous means no tokens and no user.
	StateAnonymous State = iota
	// StateRestoring means tokens from a previous run exist and the user
	// fetch that validates them is in flight.
	StateRestoring
	// StateAuthenticated means tokens and user are both present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session handed to subscribers.
type Snapshot struct {
	State   State
	User    *user.Response
	Loading bool
	Err     string
}

// Authenticated reports whether a user is present alongside valid tokens.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Session orchestrates login, registration, logout and user hydration on top
// of the Client, and exposes the current identity to the rest of the
// application. All methods are safe for concurrent use.
type Session struct {
	api    *Client
	logger *zap.Logger

	mu        sync.Mutex
	state     State
	user      *user.Response
	loading   bool
	lastErr   string
	subs      map[int]func(Snapshot)
	nextSub   int
	pending   []notification
	notifying bool
}

// notification pairs a snapshot with the subscribers registered at the moment
// it was taken, so delivery order matches state-change order.
type notification struct {
	snap Snapshot
	fns  []func(Snapshot)
}

// NewSession creates an anonymous session bound to the given client.
func NewSession(api *Client, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		api:    api,
		logger: logger,
		state:  StateAnonymous,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Authenticated is shorthand for Snapshot().Authenticated().
func (s *Session) Authenticated() bool {
	return s.Snapshot().Authenticated()
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, User: s.user, Loading: s.loading, Err: s.lastErr}
}

// notifyLocked queues the current snapshot for subscribers. Callers hold
// s.mu; a single drainer goroutine delivers queued snapshots in order,
// outside the lock, so rapid transitions never reach a subscriber reordered.
func (s *Session) notifyLocked() {
	n := notification{snap: s.snapshotLocked()}
	if len(s.subs) == 0 {
		return
	}
	n.fns = make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		n.fns = append(n.fns, fn)
	}
	s.pending = append(s.pending, n)
	if s.notifying {
		return
	}
	s.notifying = true
	go s.drainNotifications()
}

func (s *Session) drainNotifications() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.notifying = false
			s.mu.Unlock()
			return
		}
		n := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		for _, fn := range n.fns {
			fn(n.snap)
		}
	}
}

// beginAction marks the session busy and clears the previous error.
func (s *Session) beginAction() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.notifyLocked()
	s.mu.Unlock()
}

// finishAction records the outcome of an operation. An error that proves the
// stored tokens dead ends the session entirely, whichever call surfaced it.
func (s *Session) finishAction(err error) {
	if err != nil && sessionExpired(err) {
		s.clear()
	}
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = userMessage(err)
	}
	s.notifyLocked()
	s.mu.Unlock()
}

// sessionExpired reports whether err means the tokens are unusable: the
// refresh path failed, or an unauthorized response survived the retry.
func sessionExpired(err error) bool {
	return errors.Is(err, ErrSessionInvalid) || IsStatus(err, http.StatusUnauthorized)
}

// userMessage extracts the backend-provided message for display, with a
// generic fallback for transport failures.
func userMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrSessionInvalid) {
		return "Your session has expired. Please sign in again."
	}
	return "Something went wrong. Please try again."
}

// Login authenticates and transitions to Authenticated. On failure the error
// message is recorded and the error returned; the session stays Anonymous.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.beginAction()
	resp, err := s.api.Login(ctx, auth.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.finishAction(err)
		return err
	}

	s.mu.Lock()
	u := resp.User
	s.user = &u
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.finishAction(nil)
	return nil
}

// Register creates an account and immediately logs in with the same
// credentials, since registration alone does not authenticate.
func (s *Session) Register(ctx context.Context, email, password string, displayName *string) error {
	s.beginAction()
	_, err := s.api.Register(ctx, auth.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		s.finishAction(err)
		return err
	}
	s.finishAction(nil)
	return s.Login(ctx, email, password)
}

// Logout ends the session. The backend call is best effort: its failure is
// logged, never surfaced, and local state is cleared regardless.
func (s *Session) Logout(ctx context.Context) {
	s.beginAction()
	if pair, ok := s.api.Tokens().Get(); ok && pair.AccessToken != "" {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.Warn("Backend logout failed, clearing local session anyway", zap.Error(err))
		}
	}
	s.clear()
	s.finishAction(nil)
}

// GetCurrentUser hydrates the cached user from the backend. Without an access
// token it is a no-op. A 401 means the tokens are dead and the whole session
// is cleared; any other failure keeps existing state (soft failure).
func (s *Session) GetCurrentUser(ctx context.Context) error {
	pair, ok := s.api.Tokens().Get()
	if !ok || pair.AccessToken == "" {
		return nil
	}

	s.mu.Lock()
	if s.state == StateAnonymous {
		s.state = StateRestoring
		s.notifyLocked()
	}
	s.mu.Unlock()

	s.beginAction()
	u, err := s.api.Me(ctx)
	if err != nil {
		if !sessionExpired(err) {
			// Soft failure: record the message but keep tokens and any
			// cached user so a transient outage does not log the user out.
			s.mu.Lock()
			if s.state == StateRestoring && s.user == nil {
				s.state = StateAnonymous
			}
			s.mu.Unlock()
		}
		s.finishAction(err)
		return err
	}

	s.mu.Lock()
	s.user = u
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.finishAction(nil)
	return nil
}

// UpdateUser sends a partial update and replaces the cached user on success.
func (s *Session) UpdateUser(ctx context.Context, req user.UpdateRequest) error {
	s.beginAction()
	u, err := s.api.UpdateMe(ctx, req)
	if err != nil {
		s.finishAction(err)
		return err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.finishAction(nil)
	return nil
}

// Initialize restores a persisted session at application start. With no
// stored access token it performs no network calls and stays Anonymous.
func (s *Session) Initialize(ctx context.Context) error {
	pair, ok := s.api.Tokens().Get()
	if !ok || pair.AccessToken == "" {
		return nil
	}
	return s.GetCurrentUser(ctx)
}

// clear drops tokens and cached identity, returning to Anonymous.
func (s *Session) clear() {
	if err := s.api.Tokens().Clear(); err != nil {
		s.logger.Warn("Failed to clear token store", zap.Error(err))
	}
	s.mu.Lock()
	s.user = nil
	s.state = StateAnonymous
	s.notifyLocked()
	s.mu.Unlock()
}
