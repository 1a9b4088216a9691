package service

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Haseeb044/ecommerce-backend-design/internal/hash"
	"github.com/Haseeb044/ecommerce-backend-design/internal/models"
	"github.com/Haseeb044/ecommerce-backend-design/internal/repo"
	"github.com/Haseeb044/ecommerce-backend-design/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	// a second pool connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          &repo.GormRepo{DB: initTestDB(t)},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "test_user", "password")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.False(t, pair.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "test_user", claims.Subject)
	assert.Equal(t, "user", claims.Role)

	loginPair, err := svc.Login(ctx, "test_user", "password")
	require.NoError(t, err)

	loginClaims, err := tokens.AccessClaimsFromToken(loginPair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "test_user", loginClaims.Subject)
	assert.Equal(t, "user", loginClaims.Role)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	svc := newTestAuthService(t)

	pair, err := svc.Login(context.Background(), "nobody", "password")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, repo.ErrInvalidCredentials)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "test_user", "password")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "test_user", "wrong_password")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, repo.ErrInvalidCredentials)
}

func TestAuthService_LoginCarriesStoredRole(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pwHash, err := hash.HashPassword("password")
	require.NoError(t, err)
	admin := models.User{Username: "boss", PasswordHash: pwHash, Role: "admin"}
	require.NoError(t, svc.Repo.DB.Create(&admin).Error)

	pair, err := svc.Login(ctx, "boss", "password")
	require.NoError(t, err)
	assert.True(t, pair.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "test_user", "password")
	require.NoError(t, err)

	pair, err := svc.Register(ctx, "test_user", "other_password")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, repo.ErrUserAlreadyExists)
}

func TestAuthService_ConcurrentRegisterSameUsername(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "raced_user", "password")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, repo.ErrUserAlreadyExists)
			duplicates++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)

	var count int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Where("username = ?", "raced_user").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "user", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Register(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.Nil(t, pair)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_RefreshRotatesTokens(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "test_user", "password")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// the old refresh token was revoked by the rotation
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogoutRevokesRefresh(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "test_user", "password")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_RefreshInvalidToken(t *testing.T) {
	svc := newTestAuthService(t)

	pair, err := svc.Refresh(context.Background(), "not-a-valid-jwt")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
