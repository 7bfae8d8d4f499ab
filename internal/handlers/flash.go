package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"tutorhub/internal/security"
)

// Flash levels
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot status message carried across a redirect
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// setFlashes stores the given messages in the flash cookie. The cookie
// survives exactly one redirect; the next page render pops it.
func setFlashes(w http.ResponseWriter, r *http.Request, flashes []Flash) {
	if len(flashes) == 0 {
		return
	}

	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// flashSuccess stores a single success message
func flashSuccess(w http.ResponseWriter, r *http.Request, message string) {
	setFlashes(w, r, []Flash{{Level: FlashSuccess, Message: message}})
}

// flashError stores a single error message
func flashError(w http.ResponseWriter, r *http.Request, message string) {
	setFlashes(w, r, []Flash{{Level: FlashError, Message: message}})
}

// popFlashes returns any pending flash messages and clears the cookie
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, FlashCookieName))

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
