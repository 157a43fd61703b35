package types

import "time"

// Session is the authenticated identity for one request. It is created by the auth
// middleware at login time or from a bearer token and torn down by logout.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}
