package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tutorhub/internal/database"
	"tutorhub/internal/repository"
	"tutorhub/internal/security"
)

type testEnv struct {
	db          *database.DB
	userRepo    *repository.UserRepository
	resetRepo   *repository.ResetRepository
	teacherRepo *repository.TeacherRepository
	qaRepo      *repository.QARepository
	auth        *AuthService
	teacher     *TeacherService
	email       *EmailService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewResetRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	qaRepo := repository.NewQARepository(db)

	// No from-address configured, so mail sends are no-ops
	email, err := NewEmailService("eu-west-1", "", "TutorHub", "http://localhost:8080")
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	return &testEnv{
		db:          db,
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		teacherRepo: teacherRepo,
		qaRepo:      qaRepo,
		auth:        NewAuthService(userRepo, resetRepo, 24*time.Hour),
		teacher:     NewTeacherService(teacherRepo, userRepo, qaRepo),
		email:       email,
	}
}

func TestRegistrationCreatesUserAndSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	user, fieldErrs, err := env.auth.Register("alice", "alice@example.com", "supersecret", "supersecret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(fieldErrs) > 0 {
		t.Fatalf("Expected no field errors, got %v", fieldErrs)
	}
	if user == nil || user.ID == 0 {
		t.Fatal("Expected a persisted user")
	}

	session, err := env.auth.StartSession(user, true)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	got, err := env.auth.ValidateSession(session.ID)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Session resolves to user %d, want %d", got.ID, user.ID)
	}

	stored, err := env.auth.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !stored.FirstLogin {
		t.Error("Expected first-login flag on the registration session")
	}

	if err := env.auth.MarkFirstLoginSeen(session.ID); err != nil {
		t.Fatalf("MarkFirstLoginSeen failed: %v", err)
	}
	stored, err = env.auth.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if stored.FirstLogin {
		t.Error("Expected first-login flag to be cleared")
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	if _, _, err := env.auth.Register("bob", "bob@example.com", "supersecret", "supersecret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, fieldErrs, err := env.auth.Register("bob", "bob@example.com", "supersecret", "supersecret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(fieldErrs) != 2 {
		t.Fatalf("Expected username and email errors, got %v", fieldErrs)
	}
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.auth.Register("carol", "carol@example.com", "supersecret", "supersecret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Two requests in a row: each assigns a fresh token
	if err := env.auth.RequestPasswordReset(ctx, env.email, "carol"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	first, err := env.resetRepo.GetByUserID(user.ID)
	if err != nil || first == nil || first.Token == nil {
		t.Fatalf("Expected an active reset token, got %v (err %v)", first, err)
	}
	firstToken := *first.Token

	if err := env.auth.RequestPasswordReset(ctx, env.email, "carol"); err != nil {
		t.Fatalf("Second RequestPasswordReset failed: %v", err)
	}
	second, err := env.resetRepo.GetByUserID(user.ID)
	if err != nil || second == nil || second.Token == nil {
		t.Fatalf("Expected an active reset token, got %v (err %v)", second, err)
	}
	secondToken := *second.Token

	if firstToken == secondToken {
		t.Fatal("Expected a fresh token on every request")
	}
	if _, err := env.auth.ResolveResetToken(firstToken); err == nil {
		t.Error("Expected the superseded token to be rejected")
	}
	if _, err := env.auth.ResolveResetToken(secondToken); err != nil {
		t.Errorf("Expected the latest token to resolve, got %v", err)
	}

	// A mismatched submission leaves the token valid
	if err := env.auth.ChangePassword(secondToken, "newpassword1", "different"); err != ErrPasswordMismatch {
		t.Fatalf("Expected ErrPasswordMismatch, got %v", err)
	}
	if _, err := env.auth.ResolveResetToken(secondToken); err != nil {
		t.Errorf("Expected the token to survive a mismatch, got %v", err)
	}

	// A matching submission consumes the token
	if err := env.auth.ChangePassword(secondToken, "newpassword1", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := env.auth.ResolveResetToken(secondToken); err == nil {
		t.Error("Expected the consumed token to be rejected")
	}

	// The new password works, the old one does not
	if _, _, err := env.auth.Login("carol", "supersecret", false); err != ErrInvalidCredentials {
		t.Errorf("Expected the old password to fail, got %v", err)
	}
	if _, _, err := env.auth.Login("carol", "newpassword1", false); err != nil {
		t.Errorf("Expected the new password to work, got %v", err)
	}
}

func TestResetRequestForUnknownUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	err := env.auth.RequestPasswordReset(context.Background(), env.email, "nobody")
	if err != ErrAccountNotFound {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestTeacherPromotionIsOneWay(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	user, _, err := env.auth.Register("dave", "dave@example.com", "supersecret", "supersecret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.IsTeacher {
		t.Fatal("New users must not be teachers")
	}

	introduce := make([]byte, 150)
	for i := range introduce {
		introduce[i] = 'a'
	}

	info, err := env.teacher.SaveProfile(user, "Mathematics", string(introduce), "Mr Dave", "Weekdays after 5pm")
	if err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if info.ID == 0 {
		t.Fatal("Expected a persisted teaching profile")
	}

	promoted, err := env.userRepo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if !promoted.IsTeacher {
		t.Error("Expected the first profile save to promote the user")
	}

	// Update path must not touch the flag or create a second row
	updated, err := env.teacher.SaveProfile(promoted, "Physics", string(introduce), "", "")
	if err != nil {
		t.Fatalf("Second SaveProfile failed: %v", err)
	}
	if updated.ID != info.ID {
		t.Errorf("Expected the same profile row, got %d and %d", info.ID, updated.ID)
	}

	again, err := env.userRepo.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if !again.IsTeacher {
		t.Error("Teacher flag must never revert")
	}
}

func TestActivityProjectionsFilterByOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	alice, _, err := env.auth.Register("alice", "alice@example.com", "supersecret", "supersecret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	bob, _, err := env.auth.Register("bob", "bob@example.com", "supersecret", "supersecret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	qID, err := env.qaRepo.CreateQuestion(alice.ID, "How do I factor quadratics?", "Stuck on x^2+5x+6.")
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if _, err := env.qaRepo.CreateAnswer(bob.ID, qID, "Look for two numbers that sum to 5."); err != nil {
		t.Fatalf("CreateAnswer failed: %v", err)
	}

	questions, err := env.teacher.Questions(alice.ID)
	if err != nil {
		t.Fatalf("Questions failed: %v", err)
	}
	if len(questions) != 1 || questions[0].UserID != alice.ID {
		t.Errorf("Expected exactly alice's question, got %v", questions)
	}

	answers, err := env.teacher.Answers(alice.ID)
	if err != nil {
		t.Fatalf("Answers failed: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("Expected no answers for alice, got %v", answers)
	}
	if answers == nil {
		t.Error("Expected an empty slice, not nil")
	}

	bobAnswers, err := env.teacher.Answers(bob.ID)
	if err != nil {
		t.Fatalf("Answers failed: %v", err)
	}
	if len(bobAnswers) != 1 || bobAnswers[0].QuestionID != qID {
		t.Errorf("Expected exactly bob's answer, got %v", bobAnswers)
	}
}

func TestSessionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	if _, _, err := env.auth.Register("erin", "erin@example.com", "supersecret", "supersecret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	session, _, err := env.auth.Login("erin", "supersecret", false)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := env.auth.Logout(session.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := env.auth.ValidateSession(session.ID); err == nil {
		t.Error("Expected the session to be gone after logout")
	}

	// Logout without a session is a no-op
	if err := env.auth.Logout(security.GenerateSessionID()); err != nil {
		t.Errorf("Expected idempotent logout, got %v", err)
	}
}
