package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/pkg/config"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// AuthService issues and validates portal tokens. Institute login verifies
// the shared institute password; user login verifies a role-scoped account
// inside one institute's user directory.
type AuthService struct {
	store     instituteStore
	cfg       config.JWTConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store instituteStore, cfg config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{store: store, cfg: cfg, validator: validate, logger: logger}
}

// InstituteLogin verifies the institute password and returns its summary.
// Failures never reveal whether the code or the password was wrong.
func (s *AuthService) InstituteLogin(ctx context.Context, req models.InstituteLoginRequest) (*models.InstituteSummary, error) {
	institute, err := s.store.Get(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid institute code or password")
	}
	if !verifyPassword(institute.Password, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid institute code or password")
	}

	summary := institute.Summary()
	return &summary, nil
}

// Login authenticates a portal user and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	institute, err := s.store.Get(ctx, req.Institute)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	var account *models.PortalUser
	for _, user := range institute.Users.ByRole(req.Role) {
		if user.Username == req.Username {
			u := user
			account = &u
			break
		}
	}
	if account == nil || !verifyPassword(account.Password, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.Expiration)
	claims := models.JWTClaims{
		InstituteCode: institute.Code,
		Role:          account.Role,
		Username:      account.Username,
		Name:          account.Name,
		TeacherID:     account.TeacherID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("user logged in",
		zap.String("institute", institute.Code),
		zap.String("role", account.Role),
		zap.String("username", account.Username))

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.Expiration.Seconds()),
		User: models.UserInfo{
			Username:      account.Username,
			Name:          account.Name,
			Role:          account.Role,
			InstituteCode: institute.Code,
			InstituteName: institute.Name,
			TeacherID:     account.TeacherID,
		},
	}, nil
}

// ValidateToken parses and verifies a signed token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// verifyPassword checks a bcrypt hash, falling back to a constant-time
// plaintext comparison for records seeded before hashing was introduced.
func verifyPassword(stored, candidate string) bool {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)); err == nil {
		return true
	}
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
