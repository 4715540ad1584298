// File: internal/client/guard.go
package client

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Decision is the outcome of a navigation check.
type Decision struct {
	// Allowed means the navigation proceeds to the requested path.
	Allowed bool
	// RedirectTo is the path to navigate instead when not Allowed.
	RedirectTo string
}

// GuardConfig tunes the Guard. Zero values get sensible defaults.
type GuardConfig struct {
	// LoginPath is the login surface. Default "/login".
	LoginPath string
	// RegisterPath also redirects away when authenticated. Default "/register".
	RegisterPath string
	// HomePath is the authenticated landing page. Default "/".
	HomePath string
	// RedirectParam carries the original path through login. Default "redirect".
	RedirectParam string
	// RequiresAuth decides whether a path needs an authenticated session.
	// Default: everything except LoginPath and RegisterPath.
	RequiresAuth func(path string) bool
}

// Guard gates navigation on session state. Protected targets redirect to the
// login surface with the original destination preserved; the login surface
// redirects home when already authenticated.
type Guard struct {
	session *Session
	cfg     GuardConfig
	logger  *zap.Logger
}

// NewGuard creates a Guard over the given session.
func NewGuard(session *Session, cfg GuardConfig, logger *zap.Logger) *Guard {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.RegisterPath == "" {
		cfg.RegisterPath = "/register"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}
	if cfg.RedirectParam == "" {
		cfg.RedirectParam = "redirect"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Guard{session: session, cfg: cfg, logger: logger}
	if g.cfg.RequiresAuth == nil {
		g.cfg.RequiresAuth = g.defaultRequiresAuth
	}
	return g
}

func (g *Guard) defaultRequiresAuth(path string) bool {
	p := pathOnly(path)
	return p != g.cfg.LoginPath && p != g.cfg.RegisterPath
}

// Check evaluates a navigation to target.
func (g *Guard) Check(ctx context.Context, target string) Decision {
	p := pathOnly(target)

	if p == g.cfg.LoginPath || p == g.cfg.RegisterPath {
		if g.session.Authenticated() {
			return Decision{RedirectTo: g.cfg.HomePath}
		}
		return Decision{Allowed: true}
	}

	if !g.cfg.RequiresAuth(p) {
		return Decision{Allowed: true}
	}

	if !g.session.Authenticated() {
		// Tokens may exist without a hydrated user (fresh start). Try one
		// fetch before giving up on the navigation.
		if err := g.session.GetCurrentUser(ctx); err != nil {
			g.logger.Debug("User hydration during navigation failed", zap.Error(err))
		}
	}
	if g.session.Authenticated() {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: g.loginRedirect(target)}
}

// loginRedirect builds the login path carrying the original destination.
func (g *Guard) loginRedirect(target string) string {
	q := url.Values{g.cfg.RedirectParam: []string{target}}
	return g.cfg.LoginPath + "?" + q.Encode()
}

func pathOnly(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i]
	}
	return target
}
