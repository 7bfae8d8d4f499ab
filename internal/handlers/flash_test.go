package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlashRoundTrip(t *testing.T) {
	flashes := []Flash{
		{Level: FlashError, Message: "Username is invalid."},
		{Level: FlashError, Message: "Passwords do not match."},
	}

	// First response sets the cookie
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	setFlashes(w, r, flashes)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Name != FlashCookieName {
		t.Fatalf("expected cookie %q, got %q", FlashCookieName, cookies[0].Name)
	}

	// Next request carries it back and the render pops it
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/register", nil)
	r2.AddCookie(cookies[0])

	got := popFlashes(w2, r2)
	if len(got) != len(flashes) {
		t.Fatalf("expected %d flashes, got %d", len(flashes), len(got))
	}
	for i := range flashes {
		if got[i] != flashes[i] {
			t.Errorf("flash %d: expected %+v, got %+v", i, flashes[i], got[i])
		}
	}

	// Popping must clear the cookie
	var cleared bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == FlashCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie to be deleted after pop")
	}
}

func TestPopFlashesNoCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := popFlashes(w, r); got != nil {
		t.Errorf("expected nil flashes, got %v", got)
	}
}

func TestPopFlashesGarbageCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "not base64 json %%"})

	if got := popFlashes(w, r); got != nil {
		t.Errorf("expected nil flashes for garbage cookie, got %v", got)
	}
}
