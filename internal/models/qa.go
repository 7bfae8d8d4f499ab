package models

import "time"

// Question is a question posted by a user. Questions are owned by the
// Q&A subsystem; this package only reads them for teacher-profile views.
type Question struct {
	ID        int64
	UserID    int64
	Title     string
	Body      string
	CreatedAt time.Time
}

// Answer is an answer posted by a user to a question
type Answer struct {
	ID         int64
	UserID     int64
	QuestionID int64
	Body       string
	CreatedAt  time.Time
}
