// File: internal/client/session_test.go
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Ninano9/camera/internal/client/tokenstore"
	"github.com/Ninano9/camera/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// authBackend is a scripted auth surface with one registered account.
type authBackend struct {
	mu           sync.Mutex
	requests     int
	accounts     map[string]string // email -> password
	accessToken  string
	refreshToken string
	failLogout   bool
	failMe       int // non-zero forces this status from GET /users/me
	failUpdate   int // non-zero forces this status from PUT /users/me
}

func newAuthBackend() *authBackend {
	return &authBackend{
		accounts:     map[string]string{"jo@example.com": "hunter22"},
		accessToken:  "access-token",
		refreshToken: "refresh-token",
	}
}

func (b *authBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func (b *authBackend) handler() http.Handler {
	userBody := func(email string) map[string]interface{} {
		return map[string]interface{}{
			"id":       uuid.NewString(),
			"email":    email,
			"isActive": true,
		}
	}

	count := func(r *http.Request) {
		b.mu.Lock()
		b.requests++
		b.mu.Unlock()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		pw, ok := b.accounts[req.Email]
		b.mu.Unlock()
		if !ok || pw != req.Password {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accessToken":  b.accessToken,
			"refreshToken": b.refreshToken,
			"user":         userBody(req.Email),
		})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		if _, exists := b.accounts[req.Email]; exists {
			b.mu.Unlock()
			writeError(w, http.StatusConflict, "Email already registered.")
			return
		}
		b.accounts[req.Email] = req.Password
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(userBody(req.Email))
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		if b.failLogout {
			writeError(w, http.StatusInternalServerError, "Logout exploded.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		if b.failMe != 0 {
			writeError(w, b.failMe, "Cannot fetch user.")
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+b.accessToken {
			writeError(w, http.StatusUnauthorized, "Authentication is required.")
			return
		}
		json.NewEncoder(w).Encode(userBody("jo@example.com"))
	})
	mux.HandleFunc("PUT /users/me", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		if b.failUpdate != 0 {
			writeError(w, b.failUpdate, "Authentication is required.")
			return
		}
		var req struct {
			DisplayName *string `json:"displayName"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		body := userBody("jo@example.com")
		if req.DisplayName != nil {
			body["displayName"] = *req.DisplayName
		}
		json.NewEncoder(w).Encode(body)
	})
	// Refresh always fails: these tests never hand out expired tokens on
	// purpose, so any refresh attempt should end the session.
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		count(r)
		writeError(w, http.StatusUnauthorized, "Invalid refresh token.")
	})
	return mux
}

func newTestSession(t *testing.T, backend *authBackend) (*Session, *tokenstore.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	store := tokenstore.NewMemoryStore()
	return NewSession(New(srv.URL, store), zap.NewNop()), store
}

func TestSession_LoginTransitionsToAuthenticated(t *testing.T) {
	backend := newAuthBackend()
	session, store := newTestSession(t, backend)

	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	snap := session.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.True(t, snap.Authenticated())
	assert.Equal(t, "jo@example.com", snap.User.Email)
	assert.Empty(t, snap.Err)

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
}

func TestSession_LoginFailureStaysAnonymousWithMessage(t *testing.T) {
	backend := newAuthBackend()
	session, store := newTestSession(t, backend)

	err := session.Login(context.Background(), "jo@example.com", "wrong")
	require.Error(t, err)

	snap := session.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.False(t, snap.Authenticated())
	assert.Equal(t, "Invalid email or password.", snap.Err)

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestSession_RegisterAutoLogsIn(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	require.NoError(t, session.Register(context.Background(), "new@example.com", "s3cret-pw", nil))

	snap := session.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, "new@example.com", snap.User.Email)
}

func TestSession_RegisterConflictSurfaces(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	err := session.Register(context.Background(), "jo@example.com", "whatever1", nil)
	require.Error(t, err)
	assert.Equal(t, "Email already registered.", session.Snapshot().Err)
	assert.False(t, session.Authenticated())
}

func TestSession_LogoutClearsEvenWhenBackendFails(t *testing.T) {
	backend := newAuthBackend()
	backend.failLogout = true
	session, store := newTestSession(t, backend)
	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	session.Logout(context.Background())

	snap := session.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Err, "best-effort logout failures are never surfaced")

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestSession_LogoutWithoutTokensSkipsBackendCall(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	session.Logout(context.Background())

	assert.Equal(t, StateAnonymous, session.Snapshot().State)
	assert.Zero(t, backend.requestCount())
}

func TestSession_GetCurrentUserNoTokenIsNoOp(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	require.NoError(t, session.GetCurrentUser(context.Background()))
	assert.Zero(t, backend.requestCount())
	assert.Equal(t, StateAnonymous, session.Snapshot().State)
}

func TestSession_GetCurrentUserUnauthorizedClearsSession(t *testing.T) {
	backend := newAuthBackend()
	session, store := newTestSession(t, backend)
	// Persisted tokens from a previous run that the backend no longer accepts.
	require.NoError(t, store.Set(tokenstore.Pair{AccessToken: "stale", RefreshToken: "stale-refresh"}))

	err := session.GetCurrentUser(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateAnonymous, session.Snapshot().State)
	_, ok := store.Get()
	assert.False(t, ok, "dead tokens must be cleared")
}

func TestSession_GetCurrentUserSoftFailureKeepsState(t *testing.T) {
	backend := newAuthBackend()
	session, store := newTestSession(t, backend)
	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	backend.failMe = http.StatusInternalServerError
	err := session.GetCurrentUser(context.Background())
	require.Error(t, err)

	snap := session.Snapshot()
	assert.True(t, snap.Authenticated(), "a transient failure must not log the user out")
	assert.Equal(t, "Cannot fetch user.", snap.Err)
	_, ok := store.Get()
	assert.True(t, ok, "tokens survive soft failures")
}

func TestSession_InitializeWithoutTokensMakesNoCalls(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	require.NoError(t, session.Initialize(context.Background()))

	assert.Zero(t, backend.requestCount())
	assert.Equal(t, StateAnonymous, session.Snapshot().State)
}

func TestSession_InitializeRestoresPersistedSession(t *testing.T) {
	backend := newAuthBackend()
	session, store := newTestSession(t, backend)
	require.NoError(t, store.Set(tokenstore.Pair{AccessToken: "access-token", RefreshToken: "refresh-token"}))

	require.NoError(t, session.Initialize(context.Background()))

	snap := session.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, "jo@example.com", snap.User.Email)
}

func TestSession_UpdateUserReplacesCachedUser(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)
	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	name := "Jo Doe"
	require.NoError(t, session.UpdateUser(context.Background(), user.UpdateRequest{DisplayName: &name}))

	snap := session.Snapshot()
	require.NotNil(t, snap.User.DisplayName)
	assert.Equal(t, name, *snap.User.DisplayName)
}

func TestSession_UpdateUserDeadTokensClearSession(t *testing.T) {
	backend := newAuthBackend()
	session, store := newTestSession(t, backend)
	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	// The access token stops being honored and the refresh is rejected, so
	// the update cannot be retried into success.
	backend.failUpdate = http.StatusUnauthorized
	err := session.UpdateUser(context.Background(), user.UpdateRequest{})
	require.ErrorIs(t, err, ErrSessionInvalid)

	snap := session.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.User, "a stale identity must not outlive its tokens")
	assert.NotEmpty(t, snap.Err)

	_, ok := store.Get()
	assert.False(t, ok, "dead tokens must be cleared")
}

func TestSession_SubscribersSeeStateChanges(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	var mu sync.Mutex
	var sawAuthenticated bool
	done := make(chan struct{}, 8)
	unsubscribe := session.Subscribe(func(snap Snapshot) {
		mu.Lock()
		if snap.State == StateAuthenticated {
			sawAuthenticated = true
		}
		mu.Unlock()
		done <- struct{}{}
	})
	defer unsubscribe()

	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	// Notifications are delivered asynchronously; wait for a couple.
	<-done
	<-done
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, sawAuthenticated)
}

func TestSession_SubscribersReceiveSnapshotsInOrder(t *testing.T) {
	backend := newAuthBackend()
	session, _ := newTestSession(t, backend)

	var mu sync.Mutex
	var snaps []Snapshot
	done := make(chan struct{}, 8)
	unsubscribe := session.Subscribe(func(snap Snapshot) {
		mu.Lock()
		snaps = append(snaps, snap)
		mu.Unlock()
		done <- struct{}{}
	})
	defer unsubscribe()

	require.NoError(t, session.Login(context.Background(), "jo@example.com", "hunter22"))

	<-done
	<-done
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Loading, "the in-flight snapshot arrives first")
	assert.False(t, snaps[0].Authenticated())
	assert.False(t, snaps[1].Loading, "the settled snapshot arrives last")
	assert.True(t, snaps[1].Authenticated())
}
