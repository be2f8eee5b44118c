package identity

import (
	"errors"
	"strings"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUserNotFound      = errors.New("no account for this email")
	ErrTooManyAttempts   = errors.New("too many attempts")
	ErrUserDisabled      = errors.New("account disabled")
	ErrEmailInUse        = errors.New("email already in use")
	ErrWeakPassword      = errors.New("weak password")
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrProviderFailure   = errors.New("identity provider failure")
)

// UserMessage turns any identity error into one of a fixed set of messages.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return "Invalid email or password"
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email"
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many attempts. Try again later"
	case errors.Is(err, ErrUserDisabled):
		return "Account disabled. Contact support"
	case errors.Is(err, ErrEmailInUse):
		return "An account with this email already exists"
	case errors.Is(err, ErrWeakPassword):
		return "Password should be at least 6 characters"
	case errors.Is(err, ErrEmailNotVerified):
		return "Please verify your email first."
	case errors.Is(err, ErrInvalidToken):
		return "Your session has expired. Please sign in again"
	default:
		return "Login failed. Please try again"
	}
}

// toolkitCodes maps Identity Toolkit error codes to sentinels. The code is the
// first token of the error message, e.g. "WEAK_PASSWORD : Password should be...".
var toolkitCodes = map[string]error{
	"INVALID_PASSWORD":            ErrInvalidCredential,
	"INVALID_LOGIN_CREDENTIALS":   ErrInvalidCredential,
	"INVALID_EMAIL":               ErrInvalidCredential,
	"INVALID_IDP_RESPONSE":        ErrInvalidCredential,
	"INVALID_ID_TOKEN":            ErrInvalidToken,
	"TOKEN_EXPIRED":               ErrInvalidToken,
	"EMAIL_NOT_FOUND":             ErrUserNotFound,
	"USER_NOT_FOUND":              ErrUserNotFound,
	"USER_DISABLED":               ErrUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": ErrTooManyAttempts,
	"EMAIL_EXISTS":                ErrEmailInUse,
	"WEAK_PASSWORD":               ErrWeakPassword,
}

func toolkitCode(message string) string {
	code := strings.TrimSpace(message)
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	return code
}

// classify wraps a provider error with the matching sentinel, keeping the cause.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if sentinel, ok := toolkitCodes[toolkitCode(gerr.Message)]; ok {
			return errors.Join(sentinel, err)
		}
		if gerr.Code == 429 {
			return errors.Join(ErrTooManyAttempts, err)
		}
	}
	switch {
	case auth.IsEmailAlreadyExists(err):
		return errors.Join(ErrEmailInUse, err)
	case auth.IsUserNotFound(err):
		return errors.Join(ErrUserNotFound, err)
	case auth.IsUserDisabled(err):
		return errors.Join(ErrUserDisabled, err)
	case auth.IsIDTokenExpired(err), auth.IsIDTokenInvalid(err), auth.IsIDTokenRevoked(err):
		return errors.Join(ErrInvalidToken, err)
	}
	return errors.Join(ErrProviderFailure, err)
}
