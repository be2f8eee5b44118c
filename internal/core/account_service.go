package core

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"cinedex-backend-go/internal/db"
	"cinedex-backend-go/internal/events"
	"cinedex-backend-go/internal/identity"
	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/pkg/mailer"
)

const verificationSubject = "Verify your Cinedex email"

var verificationBody = template.Must(template.New("verification").Parse(
	`<p>Hi {{.Name}},</p><p>Confirm your email address to start using Cinedex:</p><p><a href="{{.Link}}">{{.Link}}</a></p>`))

type accountService struct {
	provider  identity.Provider
	accounts  db.AccountRepository
	mailer    mailer.Mailer
	publisher events.Publisher
	logger    *zap.Logger
}

// NewAccountService creates an AccountService. A nil mailer logs
// verification links instead of sending them.
func NewAccountService(provider identity.Provider, accounts db.AccountRepository, m mailer.Mailer, publisher events.Publisher, logger *zap.Logger) AccountService {
	return &accountService{
		provider:  provider,
		accounts:  accounts,
		mailer:    m,
		publisher: publisher,
		logger:    logger.Named("accounts"),
	}
}

// SignUp creates an unverified account and sends the verification email.
// The new user is not signed in.
func (s *accountService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.Account, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	uid, err := s.provider.CreateAccount(ctx, email, req.Password, username)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, uid, models.RegistrationRecord{Username: username}); err != nil {
		return nil, fmt.Errorf("store registration for %s: %w", uid, err)
	}

	// The account exists either way; a failed sign-in sends a fresh link.
	s.sendVerification(ctx, uid, email, username)

	return &models.Account{UserID: uid, Email: email, DisplayName: username}, nil
}

// sendVerification generates a verification link and mails it. Failures are
// logged only.
func (s *accountService) sendVerification(ctx context.Context, uid, email, username string) {
	link, err := s.provider.EmailVerificationLink(ctx, email)
	if err != nil {
		s.logger.Error("Failed to generate verification link", zap.String("user_id", uid), zap.Error(err))
		return
	}
	if s.mailer == nil {
		s.logger.Info("Mail delivery disabled, verification link not sent",
			zap.String("user_id", uid), zap.String("link", link))
		return
	}
	name := username
	if name == "" {
		name = email
	}
	var body bytes.Buffer
	if err := verificationBody.Execute(&body, struct{ Name, Link string }{name, link}); err != nil {
		s.logger.Error("Failed to render verification email", zap.String("user_id", uid), zap.Error(err))
		return
	}
	if err := s.mailer.SendEmail(email, verificationSubject, body.String()); err != nil {
		s.logger.Error("Failed to send verification email", zap.String("user_id", uid), zap.Error(err))
		return
	}
	s.logger.Info("Verification email sent", zap.String("user_id", uid))
}

func (s *accountService) SignIn(ctx context.Context, req models.SignInRequest) (*models.Account, error) {
	session, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}
	verified, err := s.provider.EmailVerified(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !verified {
		s.logger.Info("Sign-in refused for unverified email", zap.String("user_id", session.UserID))
		s.sendVerification(ctx, session.UserID, session.Email, session.DisplayName)
		return nil, identity.ErrEmailNotVerified
	}
	session.EmailVerified = true
	return s.signedIn(ctx, session), nil
}

func (s *accountService) SignInFederated(ctx context.Context, req models.FederatedSignInRequest) (*models.Account, error) {
	session, err := s.provider.SignInWithIdP(ctx, req.ProviderID, req.IDToken, req.RequestURI)
	if err != nil {
		return nil, err
	}
	return s.signedIn(ctx, session), nil
}

// signedIn announces the new session. A failed announcement is not fatal:
// the session middleware publishes again on the user's first request.
func (s *accountService) signedIn(ctx context.Context, session *identity.Session) *models.Account {
	if err := s.publisher.Publish(ctx, events.SignedIn(session.UserID, session.Email)); err != nil {
		s.logger.Warn("Failed to publish sign-in", zap.String("user_id", session.UserID), zap.Error(err))
	}
	s.logger.Info("User signed in", zap.String("user_id", session.UserID))
	return &models.Account{
		UserID:        session.UserID,
		Email:         session.Email,
		DisplayName:   session.DisplayName,
		EmailVerified: session.EmailVerified,
		IDToken:       session.IDToken,
		RefreshToken:  session.RefreshToken,
		ExpiresIn:     session.ExpiresIn,
	}
}

// SignOut revokes the user's tokens and clears their session.
func (s *accountService) SignOut(ctx context.Context, userID, email string) error {
	if userID == "" {
		return ErrSignInRequired
	}
	if err := s.provider.RevokeSessions(ctx, userID); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, events.SignedOut(userID, email)); err != nil {
		return fmt.Errorf("publish sign-out: %w", err)
	}
	s.logger.Info("User signed out", zap.String("user_id", userID))
	return nil
}
