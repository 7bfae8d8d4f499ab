package handlers

const (
	SessionCookieName = "session_id"
	FlashCookieName   = "flash"

	// DefaultLandingURL is where every flow falls back to when no safe
	// redirect target is available.
	DefaultLandingURL = "/"

	ErrInvalidFormData     = "Invalid form data"
	ErrInternalServerError = "Internal server error"
)

// User-facing status messages. One message per failing field category on
// the register form; several may be flashed on a single submission.
const (
	MsgRegisterSuccess = "Registration successful, you are now signed in."
	MsgRegisterFailed  = "Registration failed, please check the form and try again."
	MsgUsernameInvalid = "Username is invalid or already taken."
	MsgEmailInvalid    = "Email is already registered or has an invalid format."
	MsgPasswordInvalid = "Password does not meet the requirements."
	MsgPasswordsDiffer = "Passwords do not match."

	MsgLoginSuccess  = "Signed in successfully."
	MsgLoginUsername = "Please enter your username."
	MsgLoginPassword = "Please enter your password."
	MsgLoginFailed   = "Sign-in failed: incorrect username or password, or the account is not registered."

	MsgLogoutSuccess = "Signed out successfully."

	MsgAccountNotFound = "No account found with that username."
	MsgResetMailSent   = "A password-reset email has been sent."
	MsgTokenInvalid    = "This password-reset link is invalid."
	MsgPasswordChanged = "Password changed, please sign in with your new password."
	MsgPasswordRetry   = "Passwords are empty or do not match."

	MsgProfileUpdated = "Your profile has been updated."
	MsgPhotoUpdated   = "Your profile photo has been updated."
	MsgUploadFailed   = "Uploading the photo failed, please try again later."

	MsgTeacherSaved = "Your teaching profile has been saved."
)
