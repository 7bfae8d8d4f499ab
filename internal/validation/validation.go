package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"tutorhub/internal/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)
)

// ValidationError represents a field-level validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks if a username is acceptable
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) < 3 {
		return ValidationError{Field: "username", Message: "username must be at least 3 characters"}
	}
	if len(username) > 150 {
		return ValidationError{Field: "username", Message: "username must be at most 150 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username may only contain letters, digits and _.-"}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateDisplayName checks an optional profile display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 150 {
		return ValidationError{Field: "display_name", Message: "display name must be at most 150 characters"}
	}
	return nil
}

// ValidateTeacherInfo checks the fields of a teaching profile.
// Introduce length bounds are inclusive on both ends.
func ValidateTeacherInfo(expertise, introduce, nickname string) error {
	expertise = strings.TrimSpace(expertise)
	if expertise == "" {
		return ValidationError{Field: "expertise", Message: "expertise is required"}
	}
	if utf8.RuneCountInString(expertise) > models.ExpertiseMaxLength {
		return ValidationError{
			Field:   "expertise",
			Message: fmt.Sprintf("expertise must be at most %d characters", models.ExpertiseMaxLength),
		}
	}

	introLen := utf8.RuneCountInString(introduce)
	if introLen < models.IntroduceMinLength || introLen > models.IntroduceMaxLength {
		return ValidationError{
			Field: "introduce",
			Message: fmt.Sprintf("introduction must be between %d and %d characters",
				models.IntroduceMinLength, models.IntroduceMaxLength),
		}
	}

	if utf8.RuneCountInString(nickname) > models.NicknameMaxLength {
		return ValidationError{
			Field:   "nickname",
			Message: fmt.Sprintf("nickname must be at most %d characters", models.NicknameMaxLength),
		}
	}

	return nil
}
