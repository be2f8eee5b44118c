// Package identity wraps the hosted identity provider: account creation,
// password and federated sign-in, token verification and revocation.
package identity

import "context"

// Session is the result of a successful sign-in.
type Session struct {
	UserID        string
	Email         string
	DisplayName   string
	EmailVerified bool
	IDToken       string
	RefreshToken  string
	ExpiresIn     int64
}

// Claims are the verified claims of an ID token.
type Claims struct {
	UserID        string
	Email         string
	Name          string
	EmailVerified bool
}

// TokenVerifier verifies client ID tokens.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)
}

// Provider is everything the application needs from the identity provider.
type Provider interface {
	TokenVerifier
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
	EmailVerified(ctx context.Context, userID string) (bool, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignInWithIdP(ctx context.Context, providerID, idToken, requestURI string) (*Session, error)
	RevokeSessions(ctx context.Context, userID string) error
}
