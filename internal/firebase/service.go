// File: internal/firebase/service.go
package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	"local_services_backend/internal/common"
	"local_services_backend/internal/config"
	"local_services_backend/internal/session"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

const passwordResetRequestType = "PASSWORD_RESET"

// authClient is the part of the Admin SDK auth client the service uses.
type authClient interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Service is the Firebase Authentication identity provider.
type Service struct {
	authClient  authClient
	toolkit     *identitytoolkit.Service
	continueURL string
	logger      *zap.Logger
}

// NewService initializes the Firebase Admin SDK from the service-account key file.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	ctx := context.Background()
	keyPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(keyPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", keyPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	toolkit, err := identitytoolkit.NewService(ctx, opt)
	if err != nil {
		logger.Error("Failed to create Identity Toolkit client", zap.Error(err))
		return nil, fmt.Errorf("error creating Identity Toolkit client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &Service{
		authClient:  authClient,
		toolkit:     toolkit,
		continueURL: cfg.PasswordResetContinueURL,
		logger:      logger,
	}, nil
}

// Verify checks a Firebase ID token and returns the identity it was issued to.
// Tokens minted before the user's last sign-out are rejected.
func (s *Service) Verify(ctx context.Context, idToken string) (session.Identity, error) {
	if idToken == "" {
		return session.Identity{}, common.ErrUnauthorized.WithDetails("ID token must not be empty.")
	}

	token, err := s.authClient.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		if auth.IsIDTokenRevoked(err) {
			s.logger.Info("Rejected revoked Firebase ID token")
			return session.Identity{}, common.ErrUnauthorized.WithDetails("Your session has ended. Please sign in again.")
		}
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return session.Identity{}, common.ErrUnauthorized.WithDetails("Invalid or expired token.")
	}

	email, _ := token.Claims["email"].(string)
	s.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return session.Identity{UserID: token.UID, Email: email}, nil
}

// CreateAccount registers an email/password account.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (session.Identity, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return session.Identity{}, common.ErrConflict.WithDetails("An account with this email already exists.")
		}
		s.logger.Error("Failed to create Firebase user", zap.Error(err))
		return session.Identity{}, fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("Firebase user created", zap.String("uid", record.UID))
	return session.Identity{UserID: record.UID, Email: record.Email}, nil
}

// SendPasswordReset asks Firebase to email a password-reset link.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	req := &identitytoolkit.Relyingparty{
		RequestType: passwordResetRequestType,
		Email:       email,
		ContinueUrl: s.continueURL,
	}
	if _, err := s.toolkit.Relyingparty.GetOobConfirmationCode(req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// RevokeSessions revokes all refresh tokens for uid.
func (s *Service) RevokeSessions(ctx context.Context, uid string) error {
	if err := s.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	s.logger.Info("Successfully revoked refresh tokens for user", zap.String("uid", uid))
	return nil
}
