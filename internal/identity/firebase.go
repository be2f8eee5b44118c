package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider implements Provider with the Firebase Admin SDK for
// account management and the Identity Toolkit REST API for sign-in.
type FirebaseProvider struct {
	admin   *auth.Client
	toolkit *identitytoolkit.Service
	logger  *zap.Logger
}

// NewFirebaseProvider builds a provider. webAPIKey is the project's public
// Web API key, used only for the sign-in endpoints.
func NewFirebaseProvider(ctx context.Context, admin *auth.Client, webAPIKey string, logger *zap.Logger) (*FirebaseProvider, error) {
	if admin == nil {
		return nil, errors.New("identity: firebase auth client is nil")
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit.NewService: %w", err)
	}
	return &FirebaseProvider{admin: admin, toolkit: toolkit, logger: logger.Named("identity")}, nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Claims, error) {
	// Revoked tokens must stop working once a user signs out.
	token, err := p.admin.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, classify(err)
	}
	claims := &Claims{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.Name = name
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		claims.EmailVerified = verified
	}
	return claims, nil
}

func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)
	user, err := p.admin.CreateUser(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	p.logger.Info("Account created", zap.String("user_id", user.UID))
	return user.UID, nil
}

func (p *FirebaseProvider) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	link, err := p.admin.EmailVerificationLink(ctx, email)
	if err != nil {
		return "", classify(err)
	}
	return link, nil
}

func (p *FirebaseProvider) EmailVerified(ctx context.Context, userID string) (bool, error) {
	user, err := p.admin.GetUser(ctx, userID)
	if err != nil {
		return false, classify(err)
	}
	return user.EmailVerified, nil
}

func (p *FirebaseProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	return &Session{
		UserID:       resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignInWithIdP exchanges a third-party ID token (e.g. Google) for a session.
func (p *FirebaseProvider) SignInWithIdP(ctx context.Context, providerID, idToken, requestURI string) (*Session, error) {
	if requestURI == "" {
		requestURI = "http://localhost"
	}
	body := url.Values{}
	body.Set("id_token", idToken)
	body.Set("providerId", providerID)

	resp, err := p.toolkit.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          body.Encode(),
		RequestUri:        requestURI,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	if resp.ErrorMessage != "" {
		return nil, classify(fmt.Errorf("verifyAssertion: %s", resp.ErrorMessage))
	}
	return &Session{
		UserID:        resp.LocalId,
		Email:         resp.Email,
		DisplayName:   resp.DisplayName,
		EmailVerified: resp.EmailVerified,
		IDToken:       resp.IdToken,
		RefreshToken:  resp.RefreshToken,
		ExpiresIn:     resp.ExpiresIn,
	}, nil
}

func (p *FirebaseProvider) RevokeSessions(ctx context.Context, userID string) error {
	if err := p.admin.RevokeRefreshTokens(ctx, userID); err != nil {
		return classify(err)
	}
	return nil
}
