package models

import "time"

// User represents an account in the system
type User struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  string
	DisplayName   string
	PhotoURL      string
	IsTeacher     bool
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an authenticated session
type Session struct {
	ID         string
	UserID     int64
	FirstLogin bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordReset holds the single-use reset token for a user.
// There is at most one row per user; Token is nil except during
// an active reset window.
type PasswordReset struct {
	ID        int64
	UserID    int64
	Token     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveToken reports whether a reset token is currently issued
func (p *PasswordReset) HasActiveToken() bool {
	return p.Token != nil && *p.Token != ""
}
