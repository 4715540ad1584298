// File: internal/client/api.go
package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/client/tokenstore"
	"github.com/Ninano9/camera/internal/mapping"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/telemetry"
	"github.com/Ninano9/camera/internal/user"

	"github.com/google/uuid"
)

// --- Auth ---

// Login authenticates with email and password. The returned pair is persisted
// to the token store before the call returns.
func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	if err := c.tokens.Set(tokenstore.Pair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. Registration does not authenticate; callers
// follow up with Login.
func (c *Client) Register(ctx context.Context, req auth.RegisterRequest) (*user.Response, error) {
	var resp user.Response
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the current access token server-side. It does not touch
// the token store; the caller decides when local state is cleared.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// --- Users ---

func (c *Client) Me(ctx context.Context) (*user.Response, error) {
	var resp user.Response
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateMe(ctx context.Context, req user.UpdateRequest) (*user.Response, error) {
	var resp user.Response
	if err := c.do(ctx, http.MethodPut, "/users/me", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Profiles ---

func (c *Client) ListProfiles(ctx context.Context) ([]profile.Response, error) {
	var resp []profile.Response
	if err := c.do(ctx, http.MethodGet, "/profiles", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Response, error) {
	var resp profile.Response
	if err := c.do(ctx, http.MethodGet, "/profiles/"+id.String(), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDefaultProfile(ctx context.Context) (*profile.Response, error) {
	var resp profile.Response
	if err := c.do(ctx, http.MethodGet, "/profiles/default", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateProfile(ctx context.Context, req profile.CreateRequest) (*profile.Response, error) {
	var resp profile.Response
	if err := c.do(ctx, http.MethodPost, "/profiles", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, id uuid.UUID, req profile.UpdateRequest) (*profile.Response, error) {
	var resp profile.Response
	if err := c.do(ctx, http.MethodPut, "/profiles/"+id.String(), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/profiles/"+id.String(), nil, nil, nil)
}

// --- Mappings ---

func (c *Client) ListMappings(ctx context.Context, profileID uuid.UUID) ([]mapping.Response, error) {
	query := url.Values{"profileId": []string{profileID.String()}}
	var resp []mapping.Response
	if err := c.do(ctx, http.MethodGet, "/mappings", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateMapping(ctx context.Context, profileID uuid.UUID, req mapping.CreateRequest) (*mapping.Response, error) {
	var resp mapping.Response
	if err := c.do(ctx, http.MethodPost, "/profiles/"+profileID.String()+"/mappings", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateMapping(ctx context.Context, id uuid.UUID, req mapping.UpdateRequest) (*mapping.Response, error) {
	var resp mapping.Response
	if err := c.do(ctx, http.MethodPut, "/mappings/"+id.String(), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/mappings/"+id.String(), nil, nil, nil)
}

// --- Telemetry ---

// RecordTelemetry submits a usage event. Accepted asynchronously server-side.
func (c *Client) RecordTelemetry(ctx context.Context, req telemetry.CreateRequest) error {
	return c.do(ctx, http.MethodPost, "/telemetry", nil, req, nil)
}
