package identity

import "time"

// Profile is the caller's account as shown by `savearn profile` and
// GET /v1/profile.
type Profile struct {
	UserID        string    `json:"userId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	LastModified  time.Time `json:"lastModified"`
	Status        string    `json:"status"`
}

// userRecord is the raw directory response. Attributes arrive as a
// name/value list and are flattened when building a Profile.
type userRecord struct {
	Username     string      `json:"username"`
	Attributes   []attribute `json:"attributes"`
	CreatedAt    *string     `json:"createdAt"`
	LastModified *string     `json:"lastModified"`
	Status       string      `json:"status"`
}

type attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
