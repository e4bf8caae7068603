package domain

import "time"

// LoginRequest carries the credentials sent to POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the data portion of a successful login envelope. The token
// is opaque to us; it is stored and echoed back as the Authorization header.
type LoginResult struct {
	Token string `json:"token"`
}

// Profile is the data portion of GET /auth/info. Extra attributes the
// backend may add over time are kept in Attributes so nothing is dropped.
type Profile struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname"`
	Avatar      string   `json:"avatar"`
	Email       string   `json:"email"`
	Mobile      string   `json:"mobile"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`

	Attributes map[string]any `json:"-"`
}

// SessionInfo is a read-only snapshot of the running session, served to the
// UI so it can render the header without poking at internals.
type SessionInfo struct {
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username"`
	Nickname      string    `json:"nickname"`
	Roles         []string  `json:"roles"`
	Permissions   []string  `json:"permissions"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}

// Credentials is a remembered (username, password) pair. It is persisted as
// one obfuscated blob; see the vault package for the storage contract.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
