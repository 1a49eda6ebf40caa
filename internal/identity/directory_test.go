package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const aliceJSON = `{
  "username": "alice",
  "attributes": [
    {"name": "email", "value": "alice@example.com"},
    {"name": "name", "value": "Alice"},
    {"name": "email_verified", "value": "true"}
  ],
  "createdAt": "2024-05-01T10:00:00Z",
  "lastModified": "not a time",
  "status": "CONFIRMED"
}`

func TestHTTPDirectoryFetchProfile(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(aliceJSON))
	}))
	defer srv.Close()

	d := NewHTTPDirectory(srv.URL+"/", "key-123")
	p, err := d.FetchProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/users/alice" {
		t.Fatalf("path = %q, want /users/alice", gotPath)
	}
	if p.UserID != "alice" || p.Email != "alice@example.com" || p.Name != "Alice" {
		t.Fatalf("profile = %+v", p)
	}
	if !p.EmailVerified {
		t.Fatal("EmailVerified = false, want true")
	}
	if want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC); !p.CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt = %v, want %v", p.CreatedAt, want)
	}
	if !p.LastModified.IsZero() {
		t.Fatalf("LastModified = %v, want zero for bad timestamp", p.LastModified)
	}
	if p.Status != "CONFIRMED" {
		t.Fatalf("Status = %q", p.Status)
	}
}

func TestHTTPDirectoryEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"username":"a/b"}`))
	}))
	defer srv.Close()

	if _, err := NewHTTPDirectory(srv.URL, "").FetchProfile(context.Background(), "a/b"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/users/a%2Fb" {
		t.Fatalf("path = %q, want /users/a%%2Fb", gotPath)
	}
}

func TestHTTPDirectoryStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrUserNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := NewHTTPDirectory(srv.URL, "k").FetchProfile(context.Background(), "x")
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	if _, err := NewHTTPDirectory(srv.URL, "k").FetchProfile(context.Background(), "x"); err == nil {
		t.Fatal("502 returned no error")
	}
}

func TestNewHTTPDirectoryEmpty(t *testing.T) {
	if d := NewHTTPDirectory("  ", "k"); d != nil {
		t.Fatal("empty base URL returned a client")
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	static := NewStaticDirectory(Profile{UserID: "bob", Name: "Bob"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/alice" {
			_, _ = w.Write([]byte(aliceJSON))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	chain := Chain{static, NewHTTPDirectory(srv.URL, "")}

	if p, err := chain.FetchProfile(ctx, "bob"); err != nil || p.Name != "Bob" {
		t.Fatalf("bob = %+v, %v", p, err)
	}
	if p, err := chain.FetchProfile(ctx, "alice"); err != nil || p.Email != "alice@example.com" {
		t.Fatalf("alice = %+v, %v", p, err)
	}
	if _, err := chain.FetchProfile(ctx, "carol"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("carol err = %v, want ErrUserNotFound", err)
	}
	if _, err := (Chain{}).FetchProfile(ctx, "bob"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("empty chain err = %v, want ErrNotConfigured", err)
	}
}

func TestChainStopsOnHardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	chain := Chain{NewHTTPDirectory(srv.URL, "bad"), NewStaticDirectory(Profile{UserID: "bob"})}
	if _, err := chain.FetchProfile(context.Background(), "bob"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
