package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutorhub/internal/models"
	"tutorhub/internal/repository"
	"tutorhub/internal/security"
	"tutorhub/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidResetToken  = errors.New("invalid or used reset token")
	ErrPasswordMismatch   = errors.New("passwords empty or do not match")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	resetRepo       *repository.ResetRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, resetRepo *repository.ResetRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		resetRepo:       resetRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account. Field problems are returned as a
// slice of validation errors so the caller can surface one message per
// failing category; several may co-occur on a single submission.
func (s *AuthService) Register(username, email, password, confirmPassword string) (*models.User, []validation.ValidationError, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	var fieldErrs []validation.ValidationError

	if err := validation.ValidateUsername(username); err != nil {
		fieldErrs = appendFieldError(fieldErrs, err)
	} else {
		existing, err := s.userRepo.GetUserByUsername(username)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing username: %w", err)
		}
		if existing != nil {
			fieldErrs = append(fieldErrs, validation.ValidationError{
				Field: "username", Message: ErrUsernameTaken.Error(),
			})
		}
	}

	if err := validation.ValidateEmail(email); err != nil {
		fieldErrs = appendFieldError(fieldErrs, err)
	} else {
		existing, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil {
			fieldErrs = append(fieldErrs, validation.ValidationError{
				Field: "email", Message: ErrEmailTaken.Error(),
			})
		}
	}

	if err := validation.ValidatePassword(password); err != nil {
		fieldErrs = appendFieldError(fieldErrs, err)
	}
	if password != confirmPassword {
		fieldErrs = append(fieldErrs, validation.ValidationError{
			Field: "confirm_password", Message: "passwords do not match",
		})
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(username, email, passwordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil, nil
}

// Login authenticates a user and creates a session. firstLogin marks the
// session created right after registration.
func (s *AuthService) Login(username, password string, firstLogin bool) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.establishSession(user, firstLogin)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// StartSession establishes a session for an already-authenticated user,
// e.g. the auto-login right after registration.
func (s *AuthService) StartSession(user *models.User, firstLogin bool) (*models.Session, error) {
	return s.establishSession(user, firstLogin)
}

// establishSession creates a fresh session row for the user
func (s *AuthService) establishSession(user *models.User, firstLogin bool) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, firstLogin, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		// Clean up expired session
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates a session. Unknown session IDs are not an error,
// so logout stays idempotent.
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a fresh single-use reset token for the named
// account and mails it. Each request replaces any previously issued token,
// so only the latest emailed link resolves.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, username string) error {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrAccountNotFound
	}

	reset, err := s.resetRepo.GetOrCreate(user.ID)
	if err != nil {
		return fmt.Errorf("failed to get reset record: %w", err)
	}

	token := security.GenerateResetToken()
	if err := s.resetRepo.SetToken(reset.UserID, token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, user.Email, user.Username, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	return nil
}

// ResolveResetToken maps an active token to the owning user.
// Cleared tokens fail with ErrInvalidResetToken.
func (s *AuthService) ResolveResetToken(token string) (*models.User, error) {
	reset, err := s.resetRepo.GetByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	if reset == nil || !reset.HasActiveToken() {
		return nil, ErrInvalidResetToken
	}

	user, err := s.userRepo.GetUserByID(reset.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidResetToken
	}

	return user, nil
}

// ChangePassword consumes a reset token and stores the new password.
// A mismatched or empty password leaves the token untouched so the
// user can retry with the same link.
func (s *AuthService) ChangePassword(token, newPassword, confirmPassword string) error {
	user, err := s.ResolveResetToken(token)
	if err != nil {
		return err
	}

	if newPassword == "" || newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Single use: null the token the moment the change lands
	if err := s.resetRepo.ClearToken(user.ID); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}

	// Force re-login everywhere after a password change
	if err := s.userRepo.DeleteUserSessions(user.ID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	return nil
}

// UpdateProfile validates and persists a user's editable profile fields
func (s *AuthService) UpdateProfile(userID int64, email, displayName string) []validation.ValidationError {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	var fieldErrs []validation.ValidationError

	if err := validation.ValidateEmail(email); err != nil {
		fieldErrs = appendFieldError(fieldErrs, err)
	} else {
		existing, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return append(fieldErrs, validation.ValidationError{
				Field: "email", Message: "could not verify email",
			})
		}
		if existing != nil && existing.ID != userID {
			fieldErrs = append(fieldErrs, validation.ValidationError{
				Field: "email", Message: ErrEmailTaken.Error(),
			})
		}
	}

	if err := validation.ValidateDisplayName(displayName); err != nil {
		fieldErrs = appendFieldError(fieldErrs, err)
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	if err := s.userRepo.UpdateProfile(userID, email, displayName); err != nil {
		return []validation.ValidationError{{Field: "profile", Message: "could not save profile"}}
	}

	return nil
}

// SetProfilePhoto stores the object-storage reference for a user's photo
func (s *AuthService) SetProfilePhoto(userID int64, photoURL string) error {
	if err := s.userRepo.UpdatePhotoURL(userID, photoURL); err != nil {
		return fmt.Errorf("failed to store photo reference: %w", err)
	}
	return nil
}

// MarkFirstLoginSeen clears the first-login marker on a session
func (s *AuthService) MarkFirstLoginSeen(sessionID string) error {
	return s.userRepo.ClearFirstLogin(sessionID)
}

// GetSession retrieves a session by ID
func (s *AuthService) GetSession(sessionID string) (*models.Session, error) {
	return s.userRepo.GetSession(sessionID)
}

// OAuthLogin authenticates or creates a user using an OAuth provider
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		existingUser, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existingUser != nil {
			if existingUser.OAuthProvider != "" && existingUser.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.userRepo.LinkOAuthProvider(existingUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = existingUser
		} else {
			username, err := s.availableUsername(email, name)
			if err != nil {
				return nil, nil, err
			}
			// OAuth accounts get an unguessable placeholder password
			randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			newUser, err := s.userRepo.CreateUser(username, email, randomPasswordHash)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
			}
			if err := s.userRepo.LinkOAuthProvider(newUser.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			user = newUser
		}
	}

	session, err := s.establishSession(user, false)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// availableUsername derives a free username from the OAuth email/name
func (s *AuthService) availableUsername(email, name string) (string, error) {
	base := strings.Split(email, "@")[0]
	if name != "" {
		candidate := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
		if validation.ValidateUsername(candidate) == nil {
			base = candidate
		}
	}

	candidate := base
	for i := 0; i < 20; i++ {
		existing, err := s.userRepo.GetUserByUsername(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i+2)
	}

	return "", fmt.Errorf("could not find a free username for %s", base)
}

func appendFieldError(errs []validation.ValidationError, err error) []validation.ValidationError {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		return append(errs, ve)
	}
	return append(errs, validation.ValidationError{Field: "form", Message: err.Error()})
}
