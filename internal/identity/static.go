package identity

import (
	"context"
	"errors"
	"fmt"
)

// StaticDirectory serves a fixed set of profiles, typically declared in the
// config file for offline use.
type StaticDirectory struct {
	profiles map[string]Profile
}

// NewStaticDirectory indexes profiles by user id. Later duplicates win.
func NewStaticDirectory(profiles ...Profile) *StaticDirectory {
	d := &StaticDirectory{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		d.profiles[p.UserID] = p
	}
	return d
}

// FetchProfile returns the declared profile for userID.
func (d *StaticDirectory) FetchProfile(_ context.Context, userID string) (Profile, error) {
	p, ok := d.profiles[userID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return p, nil
}

// Chain tries each directory in order and returns the first profile found.
// Only ErrUserNotFound falls through to the next directory.
type Chain []Directory

// FetchProfile implements Directory.
func (c Chain) FetchProfile(ctx context.Context, userID string) (Profile, error) {
	if len(c) == 0 {
		return Profile{}, ErrNotConfigured
	}
	var lastErr error
	for _, d := range c {
		p, err := d.FetchProfile(ctx, userID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return Profile{}, err
		}
		lastErr = err
	}
	return Profile{}, lastErr
}
