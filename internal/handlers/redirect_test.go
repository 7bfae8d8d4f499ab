package handlers

import "testing"

func TestSafeNextURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "empty target falls back",
			target: "",
			want:   "/",
		},
		{
			name:   "relative path allowed",
			target: "/questions/42",
			want:   "/questions/42",
		},
		{
			name:   "relative path with query allowed",
			target: "/questions?page=2",
			want:   "/questions?page=2",
		},
		{
			name:   "absolute http URL rejected",
			target: "http://evil.example.com/",
			want:   "/",
		},
		{
			name:   "absolute https URL rejected",
			target: "https://evil.example.com/login",
			want:   "/",
		},
		{
			name:   "protocol-relative URL rejected",
			target: "//evil.example.com",
			want:   "/",
		},
		{
			name:   "backslash trick rejected",
			target: "/\\evil.example.com",
			want:   "/",
		},
		{
			name:   "javascript scheme rejected",
			target: "javascript:alert(1)",
			want:   "/",
		},
		{
			name:   "path without leading slash rejected",
			target: "questions/42",
			want:   "/",
		},
		{
			name:   "mailto scheme rejected",
			target: "mailto:someone@example.com",
			want:   "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeNextURL(tt.target, "/"); got != tt.want {
				t.Errorf("safeNextURL(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestSafeNextURLCustomFallback(t *testing.T) {
	if got := safeNextURL("https://evil.example.com", "/profile"); got != "/profile" {
		t.Errorf("safeNextURL() = %q, want /profile", got)
	}
}
