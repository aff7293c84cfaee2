package auth

import (
	"context"
	"fmt"

	"realty_bureau_backend/internal/shared"
	"realty_bureau_backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the sign-in flows and issues tokens.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	// GoogleLogin reports whether a new account was created.
	GoogleLogin(ctx context.Context, credential string) (*AuthResponse, bool, error)
	Logout(ctx context.Context, claims *shared.Claims) error
	Profile(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

// SessionService implements Service.
type SessionService struct {
	users    UserProvider
	tokens   shared.TokenService
	verifier IdentityVerifier
	logger   *zap.Logger
}

var _ Service = (*SessionService)(nil)

// NewService creates the sign-in service.
func NewService(users UserProvider, tokens shared.TokenService, verifier IdentityVerifier, logger *zap.Logger) *SessionService {
	return &SessionService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger.Named("AuthService"),
	}
}

func (s *SessionService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	usr, err := s.users.Register(ctx, user.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, err
	}
	return s.issue(usr)
}

func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	usr, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", zap.String("userID", usr.ID.String()))
	return s.issue(usr)
}

func (s *SessionService) GoogleLogin(ctx context.Context, credential string) (*AuthResponse, bool, error) {
	profile, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, false, err
	}
	usr, created, err := s.users.FindOrCreateOAuthUser(ctx, *profile)
	if err != nil {
		return nil, false, err
	}
	resp, err := s.issue(usr)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("Google sign-in", zap.String("userID", usr.ID.String()), zap.Bool("created", created))
	return resp, created, nil
}

func (s *SessionService) Logout(ctx context.Context, claims *shared.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *SessionService) Profile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func (s *SessionService) issue(usr *user.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(usr)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err), zap.String("userID", usr.ID.String()))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResponse{
		TokenResponse: shared.TokenResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresAt: expiresAt,
		},
		User: user.ToUserResponse(usr),
	}, nil
}
