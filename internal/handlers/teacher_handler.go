package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"tutorhub/internal/models"
	"tutorhub/internal/service"
	"tutorhub/internal/validation"
)

// TeacherHandler handles the teaching-profile pages
type TeacherHandler struct {
	teacherService *service.TeacherService
	middleware     *Middleware
	templates      *template.Template
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(teacherService *service.TeacherService, middleware *Middleware, templates *template.Template) *TeacherHandler {
	return &TeacherHandler{
		teacherService: teacherService,
		middleware:     middleware,
		templates:      templates,
	}
}

// ShowTeacherProfile renders the teaching-profile page: the form plus the
// user's questions and answers
func (h *TeacherHandler) ShowTeacherProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	info, err := h.teacherService.GetProfile(user.ID)
	if err != nil {
		log.Printf("Error loading teaching profile for user %d: %v", user.ID, err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	data := TeacherProfileViewData{
		Title:     "Teaching Profile - TutorHub",
		User:      user,
		Info:      info,
		CSRFToken: h.middleware.CSRFToken(GetSessionIDFromContext(r.Context())),
		Flashes:   popFlashes(w, r),
	}
	if info != nil {
		data.Expertise = info.Expertise
		data.Introduce = info.Introduce
		data.Nickname = info.Nickname
		data.Schedule = info.Schedule
	}

	data.Questions, data.Answers, err = h.loadActivity(user.ID)
	if err != nil {
		log.Printf("Error loading activity for user %d: %v", user.ID, err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	h.render(w, "teacher.tmpl", data)
}

// SaveTeacherProfile handles the teaching-profile form submission. The
// first successful save promotes the user to teacher.
func (h *TeacherHandler) SaveTeacherProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	expertise := r.FormValue("expertise")
	introduce := r.FormValue("introduce")
	nickname := r.FormValue("nickname")
	schedule := r.FormValue("schedule")

	_, err := h.teacherService.SaveProfile(user, expertise, introduce, nickname, schedule)
	if err != nil {
		var ve validation.ValidationError
		if !errors.As(err, &ve) {
			log.Printf("Error saving teaching profile for user %d: %v", user.ID, err)
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
			return
		}

		data := TeacherProfileViewData{
			Title:     "Teaching Profile - TutorHub",
			User:      user,
			Expertise: expertise,
			Introduce: introduce,
			Nickname:  nickname,
			Schedule:  schedule,
			CSRFToken: h.middleware.CSRFToken(GetSessionIDFromContext(r.Context())),
			Flashes:   []Flash{{Level: FlashError, Message: ve.Message}},
		}
		if data.Questions, data.Answers, err = h.loadActivity(user.ID); err != nil {
			log.Printf("Error loading activity for user %d: %v", user.ID, err)
		}

		h.render(w, "teacher.tmpl", data)
		return
	}

	flashSuccess(w, r, MsgTeacherSaved)
	http.Redirect(w, r, "/teacher", http.StatusSeeOther)
}

func (h *TeacherHandler) loadActivity(userID int64) ([]models.Question, []models.Answer, error) {
	questions, err := h.teacherService.Questions(userID)
	if err != nil {
		return nil, nil, err
	}
	answers, err := h.teacherService.Answers(userID)
	if err != nil {
		return nil, nil, err
	}
	return questions, answers, nil
}

func (h *TeacherHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s template: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
