// Package identity authenticates back-office admins.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/identity"
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

	// ErrInvalidSession is returned when the session token is missing, forged or expired
	ErrInvalidSession = shared.NewDomainError("UNAUTHORIZED", "Session is invalid or has expired")
)

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("jagopilih-unknown-admin"), bcrypt.MinCost)

// SessionIssuer signs and verifies session tokens
type SessionIssuer interface {
	Issue(userID uuid.UUID, username string) (*auth.SessionToken, error)
	Verify(token string) (*auth.Claims, error)
}

// LoginInput holds the submitted credentials
type LoginInput struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResult is a freshly issued session
type LoginResult struct {
	Token     string        `json:"-"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     AdminResponse `json:"admin"`
}

// AdminResponse is the public view of an admin
type AdminResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// SessionIdentity is the verified owner of a session token
type SessionIdentity struct {
	AdminID   uuid.UUID
	Username  string
	ExpiresAt time.Time
}

// AuthService handles admin login and session verification
type AuthService struct {
	adminRepo identity.AdminRepository
	sessions  SessionIssuer
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo identity.AdminRepository, sessions SessionIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		sessions:  sessions,
		logger:    logger,
	}
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
		s.logger.Warn("Login attempt for unknown admin", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}

	if !admin.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", admin.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(admin.ID, admin.Username)
	if err != nil {
		s.logger.Error("Failed to issue session token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	s.logger.Info("Admin logged in",
		zap.String("username", admin.Username),
		zap.String("admin_id", admin.ID.String()))

	return &LoginResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Admin:     AdminResponse{ID: admin.ID, Username: admin.Username},
	}, nil
}

// VerifySession validates a session token without touching the database
func (s *AuthService) VerifySession(_ context.Context, token string) (*SessionIdentity, error) {
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	id, err := claims.UserUUID()
	if err != nil {
		return nil, ErrInvalidSession
	}
	return &SessionIdentity{
		AdminID:   id,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// Me returns the admin owning a verified session
func (s *AuthService) Me(ctx context.Context, session *SessionIdentity) (*AdminResponse, error) {
	if session == nil {
		return nil, ErrInvalidSession
	}
	admin, err := s.adminRepo.FindByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return &AdminResponse{ID: admin.ID, Username: admin.Username}, nil
}
