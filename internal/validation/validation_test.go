package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{
			name:     "valid username",
			username: "teacher_lin",
			wantErr:  false,
		},
		{
			name:     "valid with digits and dots",
			username: "user.42",
			wantErr:  false,
		},
		{
			name:     "too short",
			username: "ab",
			wantErr:  true,
		},
		{
			name:     "empty",
			username: "",
			wantErr:  true,
		},
		{
			name:     "contains spaces",
			username: "teacher lin",
			wantErr:  true,
		},
		{
			name:     "contains special characters",
			username: "teacher@lin",
			wantErr:  true,
		},
		{
			name:     "too long",
			username: strings.Repeat("a", 151),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "correct-horse",
			wantErr:  false,
		},
		{
			name:     "exactly eight characters",
			password: "12345678",
			wantErr:  false,
		},
		{
			name:     "too short",
			password: "1234567",
			wantErr:  true,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTeacherInfoIntroduceBounds(t *testing.T) {
	tests := []struct {
		name     string
		introLen int
		wantErr  bool
	}{
		{
			name:     "one below minimum",
			introLen: 99,
			wantErr:  true,
		},
		{
			name:     "exactly minimum",
			introLen: 100,
			wantErr:  false,
		},
		{
			name:     "exactly maximum",
			introLen: 500,
			wantErr:  false,
		},
		{
			name:     "one above maximum",
			introLen: 501,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			introduce := strings.Repeat("x", tt.introLen)
			err := ValidateTeacherInfo("Mathematics", introduce, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTeacherInfo(introduce length %d) error = %v, wantErr %v",
					tt.introLen, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTeacherInfoFields(t *testing.T) {
	validIntro := strings.Repeat("x", 200)

	tests := []struct {
		name      string
		expertise string
		nickname  string
		wantErr   bool
	}{
		{
			name:      "valid fields",
			expertise: "Physics",
			nickname:  "Prof. Chen",
			wantErr:   false,
		},
		{
			name:      "empty expertise",
			expertise: "",
			nickname:  "",
			wantErr:   true,
		},
		{
			name:      "nickname at limit",
			expertise: "Physics",
			nickname:  strings.Repeat("n", 50),
			wantErr:   false,
		},
		{
			name:      "nickname over limit",
			expertise: "Physics",
			nickname:  strings.Repeat("n", 51),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTeacherInfo(tt.expertise, validIntro, tt.nickname)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTeacherInfo() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
