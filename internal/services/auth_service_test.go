package services

import (
	"context"
	"testing"

	"github.com/christine-iyer/fix-the-damn-truck/internal/config"
	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testSecurity(allowFirstAdmin bool) *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:       "test-secret",
		BcryptCost:      bcrypt.MinCost,
		AllowFirstAdmin: allowFirstAdmin,
	}
}

func newAuthFixture(allowFirstAdmin bool) (AuthService, *mockUserRepo, *fakeRevoker) {
	userRepo := newMockUserRepo()
	revoker := newFakeRevoker()
	service := NewAuthService(userRepo, revoker, fakeTx{}, testSecurity(allowFirstAdmin), testLogger())
	return service, userRepo, revoker
}

func customerRegistration() *RegisterRequest {
	return &RegisterRequest{
		Username: "alice42",
		Email:    "alice@example.com",
		Password: "Str0ng!pass",
		Role:     "customer",
	}
}

func TestRegisterCustomer(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	response, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, response.Token)
	assert.Equal(t, models.UserStatusPending, response.User.Status)
	assert.Equal(t, models.UserRoleCustomer, response.User.Role)
	assert.Empty(t, response.User.Password)
	require.NotNil(t, response.User.Customer)
	assert.Nil(t, response.User.Admin)
}

func TestRegisterValidation(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }, "username"},
		{"symbol in username", func(r *RegisterRequest) { r.Username = "alice_42" }, "username"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"weak password", func(r *RegisterRequest) { r.Password = "password" }, "password"},
		{"long password", func(r *RegisterRequest) { r.Password = "Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa" }, "password"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "owner" }, "role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			request := customerRegistration()
			tc.mutate(request)

			_, err := service.Register(context.Background(), request)
			var validationErr *utils.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tc.field)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	_, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	second := customerRegistration()
	second.Username = "bob99"
	_, err = service.Register(context.Background(), second)

	var duplicateErr *utils.DuplicateError
	require.ErrorAs(t, err, &duplicateErr)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	_, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	second := customerRegistration()
	second.Email = "other@example.com"
	_, err = service.Register(context.Background(), second)

	var duplicateErr *utils.DuplicateError
	require.ErrorAs(t, err, &duplicateErr)
	assert.Equal(t, utils.ErrUsernameExists, duplicateErr.Error())
}

func TestBootstrapAdmin(t *testing.T) {
	service, _, _ := newAuthFixture(true)

	request := customerRegistration()
	request.Role = "admin"
	response, err := service.Register(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusApproved, response.User.Status)
	require.NotNil(t, response.User.Admin)
	assert.Equal(t, models.ClearanceDirector, response.User.Admin.ClearanceLevel)
}

func TestBootstrapAdminSingleUse(t *testing.T) {
	service, _, _ := newAuthFixture(true)

	first := customerRegistration()
	first.Role = "admin"
	_, err := service.Register(context.Background(), first)
	require.NoError(t, err)

	second := customerRegistration()
	second.Role = "admin"
	second.Username = "bob99"
	second.Email = "bob@example.com"
	_, err = service.Register(context.Background(), second)

	var forbiddenErr *utils.ForbiddenError
	require.ErrorAs(t, err, &forbiddenErr)
}

func TestAdminRegistrationWithoutFlagIsPending(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	request := customerRegistration()
	request.Role = "admin"
	response, err := service.Register(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusPending, response.User.Status)
	assert.Equal(t, models.ClearanceBasic, response.User.Admin.ClearanceLevel)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	_, err := service.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	var authErr *utils.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, utils.ErrInvalidCredentials, authErr.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	_, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)

	_, err = service.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "Wr0ng!pass"})

	// Same message for unknown email and bad password.
	var authErr *utils.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, utils.ErrInvalidCredentials, authErr.Message)
}

func TestLoginStatusGating(t *testing.T) {
	service, userRepo, _ := newAuthFixture(false)

	response, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)
	userID := response.User.ID

	// Pending accounts cannot log in.
	_, err = service.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "Str0ng!pass"})
	var forbiddenErr *utils.ForbiddenError
	require.ErrorAs(t, err, &forbiddenErr)
	assert.Equal(t, utils.ErrAccountPending, forbiddenErr.Message)

	// Banned accounts get a distinct message.
	userRepo.users[userID].Status = models.UserStatusBanned
	_, err = service.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "Str0ng!pass"})
	require.ErrorAs(t, err, &forbiddenErr)
	assert.Equal(t, utils.ErrAccountBanned, forbiddenErr.Message)

	// Approved accounts authenticate.
	userRepo.users[userID].Status = models.UserStatusApproved
	login, err := service.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "Str0ng!pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestLogoutRevokesToken(t *testing.T) {
	service, userRepo, _ := newAuthFixture(false)

	response, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)
	userRepo.users[response.User.ID].Status = models.UserStatusApproved

	claims, err := service.VerifySession(context.Background(), response.Token)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)

	require.NoError(t, service.Logout(context.Background(), response.Token))

	_, err = service.VerifySession(context.Background(), response.Token)
	var authErr *utils.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, utils.ErrTokenRevoked, authErr.Message)
}

func TestVerifySessionRejectsGarbage(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	_, err := service.VerifySession(context.Background(), "not.a.token")
	var authErr *utils.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestChangePassword(t *testing.T) {
	service, _, _ := newAuthFixture(false)

	response, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)
	userID := response.User.ID

	err = service.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "Wr0ng!pass",
		NewPassword:     "N3w!passwd",
	})
	var authErr *utils.AuthError
	require.ErrorAs(t, err, &authErr)

	err = service.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "Str0ng!pass",
		NewPassword:     "weak",
	})
	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = service.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "Str0ng!pass",
		NewPassword:     "N3w!passwd",
	})
	require.NoError(t, err)
}

func TestUpdateProfileImmutableFields(t *testing.T) {
	service, userRepo, _ := newAuthFixture(false)

	response, err := service.Register(context.Background(), customerRegistration())
	require.NoError(t, err)
	userID := response.User.ID

	updated, err := service.UpdateProfile(context.Background(), userID, &UpdateProfileRequest{
		Username: "alice2",
		Customer: &models.CustomerProfile{PhoneNumber: "+12075551234"},
	})
	require.NoError(t, err)

	assert.Equal(t, "alice2", updated.Username)
	// Role and status survive a profile update untouched.
	assert.Equal(t, models.UserRoleCustomer, updated.Role)
	assert.Equal(t, models.UserStatusPending, updated.Status)
	assert.Equal(t, "+12075551234", userRepo.users[userID].Customer.PhoneNumber)
}
