package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tutorhub/internal/database"
	"tutorhub/internal/models"
)

// TeacherRepository handles database operations for teaching profiles
type TeacherRepository struct {
	db *database.DB
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *database.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// GetByUserID retrieves the teaching profile owned by a user, if any
func (r *TeacherRepository) GetByUserID(userID int64) (*models.TeacherInfo, error) {
	query := `
		SELECT id, user_id, expertise, introduce, COALESCE(nickname, ''), COALESCE(schedule, ''), created_at
		FROM teacher_info
		WHERE user_id = ?
	`
	info := &models.TeacherInfo{}
	err := r.db.QueryRow(query, userID).Scan(
		&info.ID,
		&info.UserID,
		&info.Expertise,
		&info.Introduce,
		&info.Nickname,
		&info.Schedule,
		&info.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher info: %w", err)
	}

	return info, nil
}

// Create inserts a new teaching profile
func (r *TeacherRepository) Create(info *models.TeacherInfo) error {
	query := `
		INSERT INTO teacher_info (user_id, expertise, introduce, nickname, schedule)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, info.UserID, info.Expertise, info.Introduce,
		nullableString(info.Nickname), nullableString(info.Schedule))
	if err != nil {
		return fmt.Errorf("failed to create teacher info: %w", err)
	}

	info.ID = id
	info.CreatedAt = time.Now()
	return nil
}

// Update modifies an existing teaching profile
func (r *TeacherRepository) Update(info *models.TeacherInfo) error {
	query := `
		UPDATE teacher_info
		SET expertise = ?, introduce = ?, nickname = ?, schedule = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, info.Expertise, info.Introduce,
		nullableString(info.Nickname), nullableString(info.Schedule), info.ID)
	if err != nil {
		return fmt.Errorf("failed to update teacher info: %w", err)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
