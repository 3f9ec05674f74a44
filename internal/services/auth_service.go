package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"foodorder/internal/identity"
	"foodorder/internal/models"
	"foodorder/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers users, issues credentials and resolves them back
// into a Caller.
type AuthService struct {
	userRepo         repositories.UserRepository
	jwtSecret        []byte
	tokenDurat       time.Duration // Duration for which JWT is valid
	allowAdminSignup bool
	comparePassword  func(hash, password []byte) error
}

// dummyHash is compared against for unknown usernames so that every failed
// login costs one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("unknown-user-placeholder"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to generate dummy hash: %v", err))
	}
	return hash
})

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithTokenDuration sets how long issued tokens stay valid.
func WithTokenDuration(d time.Duration) AuthOption {
	return func(s *AuthService) { s.tokenDurat = d }
}

// WithAdminSignup lets registration grant the admin role on request.
func WithAdminSignup(allow bool) AuthOption {
	return func(s *AuthService) { s.allowAdminSignup = allow }
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo:        userRepo,
		jwtSecret:       []byte(jwtSecret),
		tokenDurat:      24 * time.Hour,
		comparePassword: bcrypt.CompareHashAndPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUser creates an account. The admin role is granted only when
// admin signup is enabled; any other request registers a member.
func (s *AuthService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username '%s' already taken", ErrConflict, req.Username)
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	role := models.RoleMember
	if models.Role(req.Role) == models.RoleAdmin {
		if s.allowAdminSignup {
			role = models.RoleAdmin
		} else {
			logrus.WithField("username", req.Username).Warn("admin signup requested while disabled, registering as member")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, fmt.Errorf("%w: username '%s' already taken", ErrConflict, req.Username)
		}
		return nil, fmt.Errorf("%w: failed to register user: %w", ErrStorageUnavailable, err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account with the given credentials unless
// the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hashedPassword), Role: models.RoleAdmin}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("%w: failed to create admin: %w", ErrStorageUnavailable, err)
	}
	logrus.WithField("username", username).Info("bootstrap admin created")
	return nil
}

// LoginUser authenticates a user and returns a signed token and the user.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		// Same message and same bcrypt cost as a wrong password.
		_ = s.comparePassword(dummyHash(), []byte(password))
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	if err := s.comparePassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     now.Add(s.tokenDurat).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Resolve turns a credential into the caller it was issued to. Missing,
// malformed, expired and tampered credentials all fail the same way.
func (s *AuthService) Resolve(credential string) (identity.Caller, error) {
	unauthenticated := fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	if credential == "" {
		return identity.Caller{}, unauthenticated
	}

	claims, err := s.ValidateToken(credential)
	if err != nil {
		logrus.WithError(err).Debug("credential rejected")
		return identity.Caller{}, unauthenticated
	}
	if _, ok := claims["exp"]; !ok {
		return identity.Caller{}, unauthenticated
	}

	// Numeric claims decode as float64.
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID < 1 || rawID != float64(uint(rawID)) {
		return identity.Caller{}, unauthenticated
	}
	role, _ := claims["role"].(string)

	caller := identity.Caller{UserID: uint(rawID), Role: models.Role(role)}
	if !caller.Authenticated() {
		return identity.Caller{}, unauthenticated
	}
	return caller, nil
}
