package repository

import (
	"fmt"

	"tutorhub/internal/database"
	"tutorhub/internal/models"
)

// QARepository reads questions and answers for teacher-profile projections.
// The Q&A subsystem owns writes; this repository only adds the inserts the
// rest of the application needs to record posts.
type QARepository struct {
	db *database.DB
}

// NewQARepository creates a new Q&A repository
func NewQARepository(db *database.DB) *QARepository {
	return &QARepository{db: db}
}

// GetQuestionsByUser returns all questions authored by a user, newest first
func (r *QARepository) GetQuestionsByUser(userID int64) ([]models.Question, error) {
	query := `
		SELECT id, user_id, title, body, created_at
		FROM questions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Body, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// GetAnswersByUser returns all answers authored by a user, newest first
func (r *QARepository) GetAnswersByUser(userID int64) ([]models.Answer, error) {
	query := `
		SELECT id, user_id, question_id, body, created_at
		FROM answers
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

// CreateQuestion inserts a question authored by a user
func (r *QARepository) CreateQuestion(userID int64, title, body string) (int64, error) {
	query := `
		INSERT INTO questions (user_id, title, body)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, userID, title, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create question: %w", err)
	}
	return id, nil
}

// CreateAnswer inserts an answer authored by a user
func (r *QARepository) CreateAnswer(userID, questionID int64, body string) (int64, error) {
	query := `
		INSERT INTO answers (user_id, question_id, body)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, userID, questionID, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create answer: %w", err)
	}
	return id, nil
}
