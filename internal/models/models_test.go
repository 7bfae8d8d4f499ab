package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestPasswordResetHasActiveToken(t *testing.T) {
	token := "3f7c9a2e-1d4b-4c8a-9f6e-2b5d8e1a7c3f"
	empty := ""

	tests := []struct {
		name  string
		token *string
		want  bool
	}{
		{
			name:  "token issued",
			token: &token,
			want:  true,
		},
		{
			name:  "token cleared",
			token: nil,
			want:  false,
		},
		{
			name:  "empty token string",
			token: &empty,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset := PasswordReset{UserID: 1, Token: tt.token}
			if got := reset.HasActiveToken(); got != tt.want {
				t.Errorf("PasswordReset.HasActiveToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTeacherInfoDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		fallback string
		want     string
	}{
		{
			name:     "nickname set",
			nickname: "Prof. Lin",
			fallback: "lin42",
			want:     "Prof. Lin",
		},
		{
			name:     "nickname empty",
			nickname: "",
			fallback: "lin42",
			want:     "lin42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := TeacherInfo{Nickname: tt.nickname}
			if got := info.DisplayName(tt.fallback); got != tt.want {
				t.Errorf("TeacherInfo.DisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}
