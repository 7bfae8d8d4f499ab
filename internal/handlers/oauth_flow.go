package handlers

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tutorhub/internal/security"
	"tutorhub/internal/service"
)

const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	oauthStateCookie = "oauth_state"
	oauthNonceCookie = "oauth_nonce"
	oauthNextCookie  = "oauth_next"
)

// OAuthProviderView is the login-page rendering of a configured provider
type OAuthProviderView struct {
	Name     string
	Label    string
	URL      string
	CSSClass string
}

// OAuthFlow implements the Google sign-in flow: a start redirect with
// state/nonce cookies, then a callback that exchanges the code and
// verifies the RS256 ID token against Google's published keys.
type OAuthFlow struct {
	authService     *service.AuthService
	config          *oauth2.Config
	redirectBaseURL string
}

// NewOAuthFlow creates the Google OAuth flow. An empty client ID or
// secret leaves the flow disabled and hidden from the login page.
func NewOAuthFlow(authService *service.AuthService, clientID, clientSecret, redirectBaseURL string) *OAuthFlow {
	return &OAuthFlow{
		authService: authService,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		redirectBaseURL: redirectBaseURL,
	}
}

// Enabled reports whether the provider credentials are configured
func (f *OAuthFlow) Enabled() bool {
	return f.config.ClientID != "" && f.config.ClientSecret != ""
}

// Providers returns the provider buttons to render on the login page
func (f *OAuthFlow) Providers() []OAuthProviderView {
	if !f.Enabled() {
		return nil
	}
	return []OAuthProviderView{{
		Name:     "google",
		Label:    "Sign in with Google",
		URL:      "/auth/google/start",
		CSSClass: "btn-google",
	}}
}

// Start initiates the OAuth flow
func (f *OAuthFlow) Start(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("provider") != "google" || !f.Enabled() {
		f.fail(w, r, "OAuth provider not configured")
		return
	}

	state := security.GenerateSessionID()
	nonce := security.GenerateSessionID()

	f.setTempCookie(w, r, oauthStateCookie, state, 10*time.Minute)
	f.setTempCookie(w, r, oauthNonceCookie, nonce, 10*time.Minute)
	if next := safeNextURL(r.URL.Query().Get("next"), ""); next != "" {
		f.setTempCookie(w, r, oauthNextCookie, next, 10*time.Minute)
	}

	config := *f.config
	config.RedirectURL = f.redirectURL(r)

	authURL := config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("nonce", nonce),
	)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles the provider redirect back to us
func (f *OAuthFlow) Callback(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("provider") != "google" || !f.Enabled() {
		f.fail(w, r, "OAuth provider not configured")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		f.fail(w, r, "Missing authorization code")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		f.fail(w, r, "Invalid OAuth state")
		return
	}

	nonce := ""
	if cookie, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = cookie.Value
	}
	next := DefaultLandingURL
	if cookie, err := r.Cookie(oauthNextCookie); err == nil {
		next = safeNextURL(cookie.Value, DefaultLandingURL)
	}

	f.clearTempCookie(w, r, oauthStateCookie)
	f.clearTempCookie(w, r, oauthNonceCookie)
	f.clearTempCookie(w, r, oauthNextCookie)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *f.config
	config.RedirectURL = f.redirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		f.fail(w, r, "Failed to exchange OAuth code")
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		f.fail(w, r, "Missing ID token")
		return
	}

	claims, err := parseGoogleIDToken(ctx, idToken, f.config.ClientID, nonce)
	if err != nil {
		log.Printf("OAuth ID token rejected: %v", err)
		f.fail(w, r, "Sign-in could not be verified")
		return
	}

	session, _, err := f.authService.OAuthLogin("google", claims.Subject, claims.Email, claims.Name)
	if err != nil {
		log.Printf("OAuth login failed: %v", err)
		f.fail(w, r, "Sign-in failed")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	flashSuccess(w, r, MsgLoginSuccess)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (f *OAuthFlow) fail(w http.ResponseWriter, r *http.Request, message string) {
	flashError(w, r, message)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (f *OAuthFlow) redirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(f.redirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

func (f *OAuthFlow) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (f *OAuthFlow) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type googleTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Nonce         string `json:"nonce"`
}

type googleJWKS struct {
	Keys []googleJWK `json:"keys"`
}

type googleJWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type googleIDClaims struct {
	Subject string
	Email   string
	Name    string
}

func parseGoogleIDToken(ctx context.Context, idToken, clientID, nonce string) (googleIDClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	claims := &googleTokenClaims{}

	parsedToken, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing key id")
		}
		return fetchGooglePublicKey(ctx, kid)
	})
	if err != nil || !parsedToken.Valid {
		return googleIDClaims{}, errors.New("invalid Google token")
	}

	if claims.Issuer != "https://accounts.google.com" && claims.Issuer != "accounts.google.com" {
		return googleIDClaims{}, errors.New("invalid Google issuer")
	}
	if !audienceContains(claims.Audience, clientID) {
		return googleIDClaims{}, errors.New("invalid Google audience")
	}
	if nonce != "" && claims.Nonce != "" && claims.Nonce != nonce {
		return googleIDClaims{}, errors.New("invalid Google nonce")
	}
	if claims.Email == "" {
		return googleIDClaims{}, errors.New("Google email not available")
	}

	return googleIDClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

func audienceContains(audience jwt.ClaimStrings, value string) bool {
	for _, entry := range audience {
		if entry == value {
			return true
		}
	}
	return false
}

func fetchGooglePublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, googleJWKSURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("failed to fetch Google public keys")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var jwks googleJWKS
	if err := json.Unmarshal(body, &jwks); err != nil {
		return nil, err
	}

	for _, key := range jwks.Keys {
		if key.Kid != kid {
			continue
		}
		if key.Kty != "RSA" {
			return nil, errors.New("unexpected key type")
		}
		modulusBytes, err := base64.RawURLEncoding.DecodeString(key.N)
		if err != nil {
			return nil, err
		}
		exponentBytes, err := base64.RawURLEncoding.DecodeString(key.E)
		if err != nil {
			return nil, err
		}
		exponent := 0
		for _, b := range exponentBytes {
			exponent = exponent*256 + int(b)
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(modulusBytes),
			E: exponent,
		}, nil
	}

	return nil, errors.New("Google public key not found")
}
