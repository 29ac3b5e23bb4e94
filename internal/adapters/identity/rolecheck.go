package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dojo/internal/domain/profile"
)

// RoleChecker answers "is the current session an administrator".
type RoleChecker interface {
	IsAdmin(ctx context.Context, s Session) (bool, error)
}

// ProfileLookup is the profile store subset used by StoreRoleChecker.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// StoreRoleChecker reads the role column of the member's profile.
type StoreRoleChecker struct {
	Profiles ProfileLookup
}

// IsAdmin reports whether the session's profile carries the admin role.
func (c StoreRoleChecker) IsAdmin(ctx context.Context, s Session) (bool, error) {
	p, err := c.Profiles.GetByID(ctx, s.UserID)
	if err != nil {
		return false, err
	}
	return p.IsAdmin(), nil
}

// RPCPath is the role-check function exposed by the hosted auth backend.
const RPCPath = "/rest/v1/rpc/is_admin"

// RPCRoleChecker calls a remote is_admin function with the caller's token.
type RPCRoleChecker struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRPCRoleChecker creates a checker with a bounded HTTP client.
func NewRPCRoleChecker(baseURL, apiKey string) *RPCRoleChecker {
	return &RPCRoleChecker{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// IsAdmin posts to the RPC endpoint and normalizes its response.
// POST: Non-2xx responses and undecodable bodies are returned as errors
func (c *RPCRoleChecker) IsAdmin(ctx context.Context, s Session) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+RPCPath, bytes.NewReader([]byte("{}")))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("is_admin rpc: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return false, fmt.Errorf("is_admin rpc: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("is_admin rpc: status %d", resp.StatusCode)
	}
	return DecodeIsAdmin(body)
}

// ErrUnexpectedShape is returned when an is_admin payload is neither a
// boolean, an array of rows, nor null.
var ErrUnexpectedShape = errors.New("unexpected is_admin response shape")

// DecodeIsAdmin normalizes the shapes the role check may return:
// a bare boolean, null, an array of booleans, or an array of rows with an
// is_admin column. Only an explicit true grants admin.
func DecodeIsAdmin(raw []byte) (bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}

	var flag bool
	if err := json.Unmarshal(trimmed, &flag); err == nil {
		return flag, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return false, ErrUnexpectedShape
	}
	if len(items) == 0 {
		return false, nil
	}
	first := bytes.TrimSpace(items[0])
	if err := json.Unmarshal(first, &flag); err == nil {
		return flag, nil
	}
	var row struct {
		IsAdmin *bool `json:"is_admin"`
	}
	if err := json.Unmarshal(first, &row); err != nil {
		return false, ErrUnexpectedShape
	}
	return row.IsAdmin != nil && *row.IsAdmin, nil
}
