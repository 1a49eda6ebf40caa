// Package identity looks up user profiles in an external user directory.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "savearn/1.0"
)

var (
	// ErrUserNotFound indicates the directory has no such user.
	ErrUserNotFound = errors.New("identity: user not found")
	// ErrUnauthorized indicates the directory rejected the API key.
	ErrUnauthorized = errors.New("identity: unauthorized (api key missing or invalid)")
	// ErrRateLimited indicates the directory rate limit was hit.
	ErrRateLimited = errors.New("identity: rate limited")
	// ErrNotConfigured is returned when no directory is set up.
	ErrNotConfigured = errors.New("identity: no user directory configured")
)

// Directory resolves a user id to a profile.
type Directory interface {
	FetchProfile(ctx context.Context, userID string) (Profile, error)
}

// HTTPDirectory fetches profiles from a REST user directory at
// {baseURL}/users/{id}.
type HTTPDirectory struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPDirectory creates a directory client.
// Returns nil if baseURL is empty.
func NewHTTPDirectory(baseURL, apiKey string) *HTTPDirectory {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &HTTPDirectory{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{},
	}
}

// FetchProfile returns the profile for userID.
func (d *HTTPDirectory) FetchProfile(ctx context.Context, userID string) (Profile, error) {
	body, err := d.get(ctx, "/users/"+url.PathEscape(userID))
	if err != nil {
		return Profile{}, err
	}

	var rec userRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return Profile{}, fmt.Errorf("identity: parsing user: %w", err)
	}
	return rec.profile(), nil
}

// get performs an authenticated GET request and returns the response body.
func (d *HTTPDirectory) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("identity: creating request: %w", err)
	}

	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("identity: reading response: %w", err)
	}
	return body, nil
}

// profile flattens the attribute list. Unparseable timestamps are left zero.
func (r userRecord) profile() Profile {
	attrs := make(map[string]string, len(r.Attributes))
	for _, a := range r.Attributes {
		attrs[a.Name] = a.Value
	}
	return Profile{
		UserID:        r.Username,
		Email:         attrs["email"],
		Name:          attrs["name"],
		EmailVerified: attrs["email_verified"] == "true",
		CreatedAt:     parseTimestamp(r.CreatedAt),
		LastModified:  parseTimestamp(r.LastModified),
		Status:        r.Status,
	}
}

func parseTimestamp(s *string) time.Time {
	if s == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}
