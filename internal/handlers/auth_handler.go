package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"tutorhub/internal/security"
	"tutorhub/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	templates    *template.Template
	oauth        *OAuthFlow
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, templates *template.Template, oauth *OAuthFlow) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		templates:    templates,
		oauth:        oauth,
	}
}

// Home renders the landing page
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := map[string]interface{}{
		"Title":   "TutorHub",
		"Flashes": popFlashes(w, r),
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if user, err := h.authService.ValidateSession(cookie.Value); err == nil {
			data["User"] = user
		}
	}

	h.render(w, "home.tmpl", data)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}

	h.render(w, "register.tmpl", RegisterViewData{
		Title:   "Register - TutorHub",
		Flashes: popFlashes(w, r),
	})
}

// Register handles registration form submission. Validation failures emit
// one flash per failing field category; several may appear on a single
// submission. Success signs the new user in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password1")
	confirm := r.FormValue("password2")

	user, fieldErrs, err := h.authService.Register(username, email, password, confirm)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	if len(fieldErrs) > 0 {
		flashes := make([]Flash, 0, len(fieldErrs))
		seen := make(map[string]bool)
		for _, fe := range fieldErrs {
			msg := registerFlashMessage(fe.Field)
			if seen[msg] {
				continue
			}
			seen[msg] = true
			flashes = append(flashes, Flash{Level: FlashError, Message: msg})
		}

		h.render(w, "register.tmpl", RegisterViewData{
			Title:    "Register - TutorHub",
			Username: username,
			Email:    email,
			Flashes:  flashes,
		})
		return
	}

	session, err := h.authService.StartSession(user, true)
	if err != nil {
		log.Printf("Error creating session for new user %d: %v", user.ID, err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	flashSuccess(w, r, MsgRegisterSuccess)
	http.Redirect(w, r, DefaultLandingURL, http.StatusSeeOther)
}

// registerFlashMessage maps a failing field to its user-facing message
func registerFlashMessage(field string) string {
	switch field {
	case "username":
		return MsgUsernameInvalid
	case "email":
		return MsgEmailInvalid
	case "password":
		return MsgPasswordInvalid
	case "confirm_password":
		return MsgPasswordsDiffer
	default:
		return MsgRegisterFailed
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}

	h.render(w, "login.tmpl", LoginViewData{
		Title:          "Login - TutorHub",
		Next:           safeNextURL(r.URL.Query().Get("next"), ""),
		Flashes:        popFlashes(w, r),
		OAuthProviders: h.oauth.Providers(),
	})
}

// Login handles login form submission. The post-login target comes from the
// form's next field, then the query string, and is validated so the form
// can never redirect off-site.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	next := r.FormValue("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	next = safeNextURL(next, DefaultLandingURL)

	var flashes []Flash
	if username == "" {
		flashes = append(flashes, Flash{Level: FlashError, Message: MsgLoginUsername})
	}
	if password == "" {
		flashes = append(flashes, Flash{Level: FlashError, Message: MsgLoginPassword})
	}
	if len(flashes) > 0 {
		h.renderLogin(w, username, next, flashes)
		return
	}

	session, _, err := h.authService.Login(username, password, false)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("Error logging in user %s: %v", username, err)
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
			return
		}
		h.renderLogin(w, username, next, []Flash{{Level: FlashError, Message: MsgLoginFailed}})
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	flashSuccess(w, r, MsgLoginSuccess)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, username, next string, flashes []Flash) {
	h.render(w, "login.tmpl", LoginViewData{
		Title:          "Login - TutorHub",
		Username:       username,
		Next:           next,
		Flashes:        flashes,
		OAuthProviders: h.oauth.Providers(),
	})
}

// Logout ends the current session, if any, and clears the cookie. Safe to
// call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Error deleting session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	flashSuccess(w, r, MsgLogoutSuccess)
	http.Redirect(w, r, DefaultLandingURL, http.StatusSeeOther)
}

// ShowForgetPassword renders the forgot-password form
func (h *AuthHandler) ShowForgetPassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, "forget_password.tmpl", ForgetPasswordViewData{
		Title:   "Forgot Password - TutorHub",
		Flashes: popFlashes(w, r),
	})
}

// ForgetPassword handles the forgot-password form submission: issues a
// fresh reset token for the named account and mails the reset link.
func (h *AuthHandler) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")

	err := h.authService.RequestPasswordReset(r.Context(), h.emailService, username)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			flashError(w, r, MsgAccountNotFound)
			http.Redirect(w, r, "/forget-password", http.StatusSeeOther)
			return
		}
		log.Printf("Error requesting password reset for %s: %v", username, err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	h.render(w, "forget_password.tmpl", ForgetPasswordViewData{
		Title:    "Forgot Password - TutorHub",
		Username: username,
		Flashes:  []Flash{{Level: FlashSuccess, Message: MsgResetMailSent}},
	})
}

// ShowChangePassword renders the new-password form for a reset token
func (h *AuthHandler) ShowChangePassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	if _, err := h.authService.ResolveResetToken(token); err != nil {
		if !errors.Is(err, service.ErrInvalidResetToken) {
			log.Printf("Error resolving reset token: %v", err)
		}
		flashError(w, r, MsgTokenInvalid)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.render(w, "change_password.tmpl", ChangePasswordViewData{
		Title:   "Change Password - TutorHub",
		Token:   token,
		Flashes: popFlashes(w, r),
	})
}

// ChangePassword consumes a reset token and sets the new password. A
// mismatched or empty submission leaves the token valid for another try.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	token := r.PathValue("token")
	newPassword := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	err := h.authService.ChangePassword(token, newPassword, confirm)
	switch {
	case err == nil:
		flashSuccess(w, r, MsgPasswordChanged)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, service.ErrPasswordMismatch):
		flashError(w, r, MsgPasswordRetry)
		http.Redirect(w, r, "/change-password/"+token, http.StatusSeeOther)
	case errors.Is(err, service.ErrInvalidResetToken):
		flashError(w, r, MsgTokenInvalid)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		log.Printf("Error changing password: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", err)
	}
}

// redirectIfAuthenticated sends logged-in users to the landing page and
// reports whether it did so
func (h *AuthHandler) redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	if _, err := h.authService.ValidateSession(cookie.Value); err != nil {
		return false
	}
	http.Redirect(w, r, DefaultLandingURL, http.StatusSeeOther)
	return true
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s template: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
