package service

import (
	"fmt"
	"strings"

	"tutorhub/internal/models"
	"tutorhub/internal/repository"
	"tutorhub/internal/validation"
)

// TeacherService handles teaching-profile business logic
type TeacherService struct {
	teacherRepo *repository.TeacherRepository
	userRepo    *repository.UserRepository
	qaRepo      *repository.QARepository
}

// NewTeacherService creates a new teacher service
func NewTeacherService(teacherRepo *repository.TeacherRepository, userRepo *repository.UserRepository, qaRepo *repository.QARepository) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		userRepo:    userRepo,
		qaRepo:      qaRepo,
	}
}

// GetProfile retrieves the teaching profile for a user, if one exists
func (s *TeacherService) GetProfile(userID int64) (*models.TeacherInfo, error) {
	return s.teacherRepo.GetByUserID(userID)
}

// SaveProfile validates and persists a teaching profile. The first save for
// a user promotes them to teacher before the profile row is written; the
// promotion is a one-way transition and later updates never re-trigger it.
func (s *TeacherService) SaveProfile(user *models.User, expertise, introduce, nickname, schedule string) (*models.TeacherInfo, error) {
	expertise = strings.TrimSpace(expertise)
	nickname = strings.TrimSpace(nickname)

	if err := validation.ValidateTeacherInfo(expertise, introduce, nickname); err != nil {
		return nil, err
	}

	existing, err := s.teacherRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	if existing != nil {
		existing.Expertise = expertise
		existing.Introduce = introduce
		existing.Nickname = nickname
		existing.Schedule = schedule
		if err := s.teacherRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	// First save: promote the owner before persisting the profile
	if err := s.userRepo.SetTeacherFlag(user.ID); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	user.IsTeacher = true

	info := &models.TeacherInfo{
		UserID:    user.ID,
		Expertise: expertise,
		Introduce: introduce,
		Nickname:  nickname,
		Schedule:  schedule,
	}
	if err := s.teacherRepo.Create(info); err != nil {
		return nil, err
	}

	return info, nil
}

// Questions returns the questions authored by the profile owner.
// Always recomputed from the question store, never cached.
func (s *TeacherService) Questions(userID int64) ([]models.Question, error) {
	return s.qaRepo.GetQuestionsByUser(userID)
}

// Answers returns the answers authored by the profile owner.
// Always recomputed from the answer store, never cached.
func (s *TeacherService) Answers(userID int64) ([]models.Answer, error) {
	return s.qaRepo.GetAnswersByUser(userID)
}
