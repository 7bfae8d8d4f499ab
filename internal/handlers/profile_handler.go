package handlers

import (
	"errors"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"tutorhub/internal/service"
)

// allowed upload content types, keyed by the sniffed MIME type
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProfileHandler handles the signed-in user's own pages
type ProfileHandler struct {
	authService  *service.AuthService
	storage      service.PhotoStorage
	middleware   *Middleware
	templates    *template.Template
	maxPhotoSize int64
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(authService *service.AuthService, storage service.PhotoStorage, middleware *Middleware, templates *template.Template, maxPhotoSize int64) *ProfileHandler {
	return &ProfileHandler{
		authService:  authService,
		storage:      storage,
		middleware:   middleware,
		templates:    templates,
		maxPhotoSize: maxPhotoSize,
	}
}

// Profile renders the signed-in user's profile page. The first render after
// registration shows the welcome banner once.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID := GetSessionIDFromContext(r.Context())

	welcome := false
	if session, err := h.authService.GetSession(sessionID); err == nil && session.FirstLogin {
		welcome = true
		if err := h.authService.MarkFirstLoginSeen(sessionID); err != nil {
			log.Printf("Error clearing first-login flag: %v", err)
		}
	}

	h.render(w, "profile.tmpl", ProfileViewData{
		Title:     "Profile - TutorHub",
		User:      user,
		Welcome:   welcome,
		CSRFToken: h.middleware.CSRFToken(sessionID),
		Flashes:   popFlashes(w, r),
	})
}

// ShowProfileEdit renders the profile edit form with current values
func (h *ProfileHandler) ShowProfileEdit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	h.render(w, "profile_edit.tmpl", ProfileEditViewData{
		Title:       "Edit Profile - TutorHub",
		User:        user,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CSRFToken:   h.middleware.CSRFToken(GetSessionIDFromContext(r.Context())),
		Flashes:     popFlashes(w, r),
	})
}

// ProfileEdit handles the profile edit form submission
func (h *ProfileHandler) ProfileEdit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	displayName := r.FormValue("display_name")

	fieldErrs := h.authService.UpdateProfile(user.ID, email, displayName)
	if len(fieldErrs) > 0 {
		flashes := make([]Flash, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			flashes = append(flashes, Flash{Level: FlashError, Message: fe.Message})
		}

		h.render(w, "profile_edit.tmpl", ProfileEditViewData{
			Title:       "Edit Profile - TutorHub",
			User:        user,
			Email:       email,
			DisplayName: displayName,
			CSRFToken:   h.middleware.CSRFToken(GetSessionIDFromContext(r.Context())),
			Flashes:     flashes,
		})
		return
	}

	flashSuccess(w, r, MsgProfileUpdated)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// ShowUploadPicture renders the photo upload form
func (h *ProfileHandler) ShowUploadPicture(w http.ResponseWriter, r *http.Request) {
	h.render(w, "upload_picture.tmpl", UploadPictureViewData{
		Title:     "Upload Photo - TutorHub",
		User:      GetUserFromContext(r.Context()),
		CSRFToken: h.middleware.CSRFToken(GetSessionIDFromContext(r.Context())),
		Flashes:   popFlashes(w, r),
	})
}

// UploadProfilePicture accepts a multipart photo, stores it, and records
// the returned URL on the user. A storage failure is reported back on the
// form instead of an error page.
func (h *ProfileHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoSize)
	if err := r.ParseMultipartForm(h.maxPhotoSize); err != nil {
		h.renderUploadError(w, r, "The photo is too large or the form is invalid.")
		return
	}

	if !h.middleware.ValidateCSRF(GetSessionIDFromContext(r.Context()), r.FormValue("csrf_token")) {
		respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.renderUploadError(w, r, "Please choose a photo to upload.")
		return
	}
	defer file.Close()

	contentType, err := sniffContentType(file)
	if err != nil || !allowedPhotoTypes[contentType] {
		h.renderUploadError(w, r, "Only JPEG, PNG, GIF and WebP images are accepted.")
		return
	}

	photoURL, err := h.storage.UploadPhoto(r.Context(), user.ID, filepath.Base(header.Filename), contentType, file)
	if err != nil {
		log.Printf("Error uploading profile photo for user %d: %v", user.ID, err)
		h.renderUploadError(w, r, MsgUploadFailed)
		return
	}

	if err := h.authService.SetProfilePhoto(user.ID, photoURL); err != nil {
		log.Printf("Error saving photo URL for user %d: %v", user.ID, err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	flashSuccess(w, r, MsgPhotoUpdated)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *ProfileHandler) renderUploadError(w http.ResponseWriter, r *http.Request, message string) {
	h.render(w, "upload_picture.tmpl", UploadPictureViewData{
		Title:     "Upload Photo - TutorHub",
		User:      GetUserFromContext(r.Context()),
		Error:     message,
		CSRFToken: h.middleware.CSRFToken(GetSessionIDFromContext(r.Context())),
	})
}

// sniffContentType reads the file header to determine the real MIME type,
// then rewinds for the upload
func sniffContentType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buf[:n])
	// DetectContentType may append a charset suffix
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return contentType, nil
}

func (h *ProfileHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s template: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
