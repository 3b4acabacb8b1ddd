package services_test

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"shopkeep/internal/models"
	"shopkeep/internal/repositories"
	"shopkeep/internal/services"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// Services log expected failures; keep test output clean.
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const testJWTSecret = "test-secret"

func registeredUser(t *testing.T, repo repositories.UserRepository, username, password string, roles ...string) *models.User {
	t.Helper()

	authService := services.NewAuthService(repo, testJWTSecret)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Roles:    roles,
	}
	assert.NoError(t, authService.RegisterUser(user))
	return user
}

func TestAuthService_RegisterUser(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	user := &models.User{Username: "ana", Email: "ana@example.com", Password: "password123"}
	err := authService.RegisterUser(user)

	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	assert.Contains(t, user.Roles, models.RoleUser, "baseline role is granted on registration")
}

func TestAuthService_RegisterUser_DuplicateUsername(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	registeredUser(t, userRepo, "ana", "password123")
	err := authService.RegisterUser(&models.User{Username: "ana", Email: "other@example.com", Password: "password123"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	registeredUser(t, userRepo, "ana", "password123")
	err := authService.RegisterUser(&models.User{Username: "bob", Email: "ana@example.com", Password: "password123"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAuthService_LoginUser(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	registeredUser(t, userRepo, "ana", "password123", models.RoleEditor)

	token, err := authService.LoginUser("ana", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "ana", claims["username"])

	roles, ok := claims["roles"].([]interface{})
	assert.True(t, ok)
	assert.Contains(t, roles, models.RoleEditor)
	assert.Contains(t, roles, models.RoleUser)
}

func TestAuthService_LoginUser_WrongPassword(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	registeredUser(t, userRepo, "ana", "password123")

	_, err := authService.LoginUser("ana", "not-the-password")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_LoginUser_UnknownUsername(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	_, err := authService.LoginUser("nobody", "password123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_LoginUser_LockedAccount(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	user := registeredUser(t, userRepo, "ana", "password123")
	lockedUntil := time.Now().AddDate(100, 0, 0)
	user.LockedUntil = &lockedUntil
	assert.NoError(t, userRepo.Update(user))

	_, err := authService.LoginUser("ana", "password123")
	assert.EqualError(t, err, "account is locked")
}

func TestAuthService_ValidateToken_Tampered(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	registeredUser(t, userRepo, "ana", "password123")
	token, err := authService.LoginUser("ana", "password123")
	assert.NoError(t, err)

	otherService := services.NewAuthService(userRepo, "another-secret")
	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	user := registeredUser(t, userRepo, "ana", "password123")

	updated, err := authService.UpdateProfile(user.ID, "Ana Silva", "12 Harbour Road")
	assert.NoError(t, err)
	assert.Equal(t, "Ana Silva", updated.FullName)
	assert.Equal(t, "12 Harbour Road", updated.Address)

	stored, err := userRepo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "12 Harbour Road", stored.Address)
}

func TestAuthService_UpdateProfile_UnknownUser(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, testJWTSecret)

	_, err := authService.UpdateProfile("missing", "Ana", "somewhere")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
