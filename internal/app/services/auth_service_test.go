package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/auth"
)

// fakeUserStore keeps users in memory with unique username/email checks.
type fakeUserStore struct {
	users    map[int64]*models.User
	profiles map[int64]*models.SpecialistProfile
	nextID   int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    map[int64]*models.User{},
		profiles: map[int64]*models.SpecialistProfile{},
		nextID:   1,
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) CreateSpecialistProfile(_ context.Context, profile *models.SpecialistProfile) error {
	profile.ID = f.nextID
	f.nextID++
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeUserStore) GetSpecialistProfile(_ context.Context, userID int64) (*models.SpecialistProfile, error) {
	return f.profiles[userID], nil
}

// fakeTokenStore keeps refresh tokens in memory.
type fakeTokenStore struct {
	tokens map[string]struct {
		userID  int64
		expiry  time.Time
		revoked bool
	}
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]struct {
		userID  int64
		expiry  time.Time
		revoked bool
	}{}}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = struct {
		userID  int64
		expiry  time.Time
		revoked bool
	}{userID, expiryDate, false}
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	t, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if t.revoked {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	if t.expiry.Before(time.Now()) {
		return 0, time.Time{}, apperrors.ErrTokenExpired
	}
	return t.userID, t.expiry, nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	f.tokens[token] = t
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for k, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
			f.tokens[k] = t
		}
	}
	return nil
}

func newAuthService() (*AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "visionai-test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "hunter2hunter2",
		FirstName: "John",
		LastName:  "Doe",
		RoleType:  models.RolePatient,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService()

	reg, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "jdoe", reg.User.Username)
	assert.Equal(t, "PATIENT", reg.User.Role)
	assert.NotEmpty(t, reg.Token.AccessToken)
	assert.NotEmpty(t, reg.Token.RefreshToken)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "jdoe", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService()

	var vErr *apperrors.ValidationError

	req := registerRequest()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)

	req = registerRequest()
	req.Email = "not-an-email"
	_, err = svc.Register(context.Background(), req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	req = registerRequest()
	req.RoleType = models.RoleType("SUPERUSER")
	_, err = svc.Register(context.Background(), req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "roleType", vErr.Field)
}

func TestRegisterSpecialistStoresProfile(t *testing.T) {
	svc, users, _ := newAuthService()

	spec := "Ophthalmology"
	license := "LIC-1234"
	req := registerRequest()
	req.Username = "drsmith"
	req.Email = "drsmith@example.com"
	req.RoleType = models.RoleSpecialist
	req.Specialization = &spec
	req.LicenseNumber = &license

	reg, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	profile := users.profiles[reg.User.ID]
	require.NotNil(t, profile)
	assert.Equal(t, "Ophthalmology", profile.Specialization)
	assert.Equal(t, "LIC-1234", profile.LicenseNumber)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Username: "jdoe", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// unknown username is indistinguishable from a wrong password
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthService()

	reg, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	users.users[reg.User.ID].IsActive = false

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Username: "jdoe", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := newAuthService()

	reg, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), reg.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, reg.Token.RefreshToken, refreshed.RefreshToken)

	// the old refresh token is single-use
	_, err = svc.RefreshToken(context.Background(), reg.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}
