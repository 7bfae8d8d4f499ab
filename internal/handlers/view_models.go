package handlers

import (
	"tutorhub/internal/models"
)

type RegisterViewData struct {
	Title    string
	Username string
	Email    string
	Flashes  []Flash
}

type LoginViewData struct {
	Title          string
	Username       string
	Next           string
	Flashes        []Flash
	OAuthProviders []OAuthProviderView
}

type ForgetPasswordViewData struct {
	Title    string
	Username string
	Flashes  []Flash
}

type ChangePasswordViewData struct {
	Title   string
	Token   string
	Flashes []Flash
}

type ProfileViewData struct {
	Title     string
	User      *models.User
	Welcome   bool
	CSRFToken string
	Flashes   []Flash
}

type ProfileEditViewData struct {
	Title       string
	User        *models.User
	Email       string
	DisplayName string
	CSRFToken   string
	Flashes     []Flash
}

type UploadPictureViewData struct {
	Title     string
	User      *models.User
	Error     string
	CSRFToken string
	Flashes   []Flash
}

type TeacherProfileViewData struct {
	Title     string
	User      *models.User
	Info      *models.TeacherInfo
	Questions []models.Question
	Answers   []models.Answer
	Expertise string
	Introduce string
	Nickname  string
	Schedule  string
	CSRFToken string
	Flashes   []Flash
}
