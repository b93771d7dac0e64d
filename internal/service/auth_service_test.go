package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/pkg/config"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "institute-portal"}
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := NewAuthService(newFakeStore(testInstitute()), testJWTConfig(), nil, nil)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{
		Institute: "INST100",
		Role:      models.RoleTeacher,
		Username:  "teacher1",
		Password:  "teacher123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "T001", resp.User.TeacherID)
	assert.Equal(t, "Test Institute", resp.User.InstituteName)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "INST100", claims.InstituteCode)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "teacher1", claims.Username)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeStore(testInstitute()), testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Institute: "INST100",
		Role:      models.RoleTeacher,
		Username:  "teacher1",
		Password:  "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsRoleMismatch(t *testing.T) {
	svc := NewAuthService(newFakeStore(testInstitute()), testJWTConfig(), nil, nil)

	// admin exists, but not under the teacher role.
	_, err := svc.Login(context.Background(), models.LoginRequest{
		Institute: "INST100",
		Role:      models.RoleTeacher,
		Username:  "admin",
		Password:  "admin123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginVerifiesHashedPasswords(t *testing.T) {
	inst := testInstitute()
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	inst.Users.Admin[0].Password = string(hashed)
	svc := NewAuthService(newFakeStore(inst), testJWTConfig(), nil, nil)
	ctx := context.Background()

	_, err = svc.Login(ctx, models.LoginRequest{
		Institute: "INST100", Role: models.RoleAdmin, Username: "admin", Password: "hunter22",
	})
	require.NoError(t, err)

	// The hash itself must not work as a password.
	_, err = svc.Login(ctx, models.LoginRequest{
		Institute: "INST100", Role: models.RoleAdmin, Username: "admin", Password: string(hashed),
	})
	require.Error(t, err)
}

func TestInstituteLogin(t *testing.T) {
	inst := testInstitute()
	inst.Password = "inst@123"
	svc := NewAuthService(newFakeStore(inst), testJWTConfig(), nil, nil)
	ctx := context.Background()

	summary, err := svc.InstituteLogin(ctx, models.InstituteLoginRequest{Code: "INST100", Password: "inst@123"})
	require.NoError(t, err)
	assert.Equal(t, "INST100", summary.Code)

	_, err = svc.InstituteLogin(ctx, models.InstituteLoginRequest{Code: "INST100", Password: "nope"})
	require.Error(t, err)
	wrongPassword := appErrors.FromError(err)

	_, err = svc.InstituteLogin(ctx, models.InstituteLoginRequest{Code: "INST999", Password: "inst@123"})
	require.Error(t, err)
	unknownCode := appErrors.FromError(err)

	// Unknown code and wrong password are indistinguishable.
	assert.Equal(t, wrongPassword.Code, unknownCode.Code)
	assert.Equal(t, wrongPassword.Message, unknownCode.Message)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewAuthService(newFakeStore(testInstitute()), config.JWTConfig{Secret: "other-secret", Expiration: time.Hour}, nil, nil)
	verifier := NewAuthService(newFakeStore(testInstitute()), testJWTConfig(), nil, nil)

	resp, err := issuer.Login(context.Background(), models.LoginRequest{
		Institute: "INST100", Role: models.RoleAdmin, Username: "admin", Password: "admin123",
	})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
