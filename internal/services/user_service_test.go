package services

import (
	"context"
	"testing"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userFixture struct {
	service     UserService
	userRepo    *mockUserRepo
	vehicleRepo *mockVehicleRepo
	requestRepo *mockRequestRepo
}

func newUserFixture() *userFixture {
	userRepo := newMockUserRepo()
	vehicleRepo := newMockVehicleRepo()
	requestRepo := newMockRequestRepo()
	return &userFixture{
		service:     NewUserService(userRepo, vehicleRepo, requestRepo, fakeTx{}, testLogger()),
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		requestRepo: requestRepo,
	}
}

func (f *userFixture) seedAdmin(t *testing.T, clearance models.ClearanceLevel) primitive.ObjectID {
	t.Helper()
	profile := models.NewAdminProfile()
	profile.ClearanceLevel = clearance
	user := &models.User{
		Username: "admin" + string(clearance),
		Email:    string(clearance) + "@example.com",
		Password: "hash",
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusApproved,
		Admin:    profile,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user.ID
}

func (f *userFixture) seedCustomer(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	user := &models.User{
		Username: "customer1",
		Email:    email,
		Password: "hash",
		Role:     models.UserRoleCustomer,
		Status:   models.UserStatusPending,
		Customer: models.NewCustomerProfile(),
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user.ID
}

func (f *userFixture) seedMechanic(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	user := &models.User{
		Username: "mechanic1",
		Email:    email,
		Password: "hash",
		Role:     models.UserRoleMechanic,
		Status:   models.UserStatusApproved,
		Mechanic: models.NewMechanicProfile(),
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user.ID
}

func TestUpdateUserStatusApprovesCustomer(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceBasic)
	customerID := f.seedCustomer(t, "c@example.com")

	user, err := f.service.UpdateUserStatus(context.Background(), adminID, customerID, "approved")
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusApproved, user.Status)
	assert.Empty(t, user.Password)
}

func TestUpdateUserStatusRejectsUnknownStatus(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceBasic)
	customerID := f.seedCustomer(t, "c@example.com")

	_, err := f.service.UpdateUserStatus(context.Background(), adminID, customerID, "suspended")

	var validationErr *utils.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestAdminCannotActOnSelf(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceDirector)

	_, err := f.service.UpdateUserStatus(context.Background(), adminID, adminID, "banned")

	var selfErr *utils.SelfActionError
	require.ErrorAs(t, err, &selfErr)
	assert.Contains(t, selfErr.Error(), "your own account")
}

func TestAdminPermissionRequired(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceDirector)
	customerID := f.seedCustomer(t, "perm@example.com")

	f.userRepo.users[adminID].Admin.Permissions = []models.AdminPermission{models.PermissionRead}

	var forbiddenErr *utils.ForbiddenError
	_, err := f.service.UpdateUserStatus(context.Background(), adminID, customerID, "approved")
	require.ErrorAs(t, err, &forbiddenErr)
	assert.Contains(t, forbiddenErr.Error(), "write")

	err = f.service.DeleteUser(context.Background(), adminID, customerID)
	require.ErrorAs(t, err, &forbiddenErr)
	assert.Contains(t, forbiddenErr.Error(), "delete")
}

func TestClearanceOrdering(t *testing.T) {
	f := newUserFixture()
	directorID := f.seedAdmin(t, models.ClearanceDirector)
	supervisorID := f.seedAdmin(t, models.ClearanceSupervisor)
	seniorID := f.seedAdmin(t, models.ClearanceSenior)

	// Equal clearance is not enough.
	otherSenior := f.seedAdmin(t, models.ClearanceBasic)
	f.userRepo.users[otherSenior].Admin.ClearanceLevel = models.ClearanceSenior
	var clearanceErr *utils.InsufficientClearanceError
	_, err := f.service.UpdateUserStatus(context.Background(), seniorID, otherSenior, "banned")
	require.ErrorAs(t, err, &clearanceErr)

	// Lower acting on higher fails.
	_, err = f.service.UpdateUserStatus(context.Background(), supervisorID, directorID, "banned")
	require.ErrorAs(t, err, &clearanceErr)

	// Strictly higher clearance succeeds.
	user, err := f.service.UpdateUserStatus(context.Background(), directorID, supervisorID, "banned")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBanned, user.Status)
}

func TestClearanceCheckSkippedForNonAdminTargets(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceBasic)
	mechanicID := f.seedMechanic(t, "m@example.com")

	user, err := f.service.UpdateUserStatus(context.Background(), adminID, mechanicID, "banned")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBanned, user.Status)
}

func TestAdminDeletionDisallowed(t *testing.T) {
	f := newUserFixture()
	directorID := f.seedAdmin(t, models.ClearanceDirector)
	basicID := f.seedAdmin(t, models.ClearanceBasic)

	err := f.service.DeleteUser(context.Background(), directorID, basicID)

	var forbiddenErr *utils.ForbiddenError
	require.ErrorAs(t, err, &forbiddenErr)
	_, stillThere := f.userRepo.users[basicID]
	assert.True(t, stillThere)
}

func TestDeleteCustomerCascades(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceBasic)
	customerID := f.seedCustomer(t, "c@example.com")
	mechanicID := f.seedMechanic(t, "m@example.com")

	vehicle := &models.Vehicle{CustomerID: customerID, Make: "Ford", Model: "F-150", Year: 2020, IsPrimary: true}
	require.NoError(t, f.vehicleRepo.Create(context.Background(), vehicle))

	request := &models.ServiceRequest{
		CustomerID:  customerID,
		VehicleID:   vehicle.ID,
		MechanicID:  mechanicID,
		Description: "brakes grinding",
		ServiceType: models.ServiceTypeRepair,
	}
	require.NoError(t, f.requestRepo.Create(context.Background(), request))
	require.NoError(t, f.userRepo.AddServiceRequestRef(context.Background(), mechanicID, models.UserRoleMechanic, request.ID))

	require.NoError(t, f.service.DeleteUser(context.Background(), adminID, customerID))

	assert.Empty(t, f.vehicleRepo.vehicles)
	assert.Empty(t, f.requestRepo.requests)
	assert.Empty(t, f.userRepo.users[mechanicID].Mechanic.ServiceRequests)
	_, gone := f.userRepo.users[customerID]
	assert.False(t, gone)
}

func TestDeleteMechanicReturnsWorkToPool(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceBasic)
	customerID := f.seedCustomer(t, "c@example.com")
	mechanicID := f.seedMechanic(t, "m@example.com")

	open := &models.ServiceRequest{
		CustomerID:  customerID,
		MechanicID:  mechanicID,
		Description: "oil change",
		ServiceType: models.ServiceTypeMaintenance,
		Status:      models.RequestStatusAccepted,
	}
	require.NoError(t, f.requestRepo.Create(context.Background(), open))

	done := &models.ServiceRequest{
		CustomerID:  customerID,
		MechanicID:  mechanicID,
		Description: "tire rotation",
		ServiceType: models.ServiceTypeMaintenance,
		Status:      models.RequestStatusCompleted,
	}
	require.NoError(t, f.requestRepo.Create(context.Background(), done))

	require.NoError(t, f.service.DeleteUser(context.Background(), adminID, mechanicID))

	assert.Equal(t, models.RequestStatusPending, f.requestRepo.requests[open.ID].Status)
	assert.True(t, f.requestRepo.requests[open.ID].MechanicID.IsZero())
	// Completed work keeps its status, just loses the dangling reference.
	assert.Equal(t, models.RequestStatusCompleted, f.requestRepo.requests[done.ID].Status)
	assert.True(t, f.requestRepo.requests[done.ID].MechanicID.IsZero())
}

func TestDeleteTargetMustResolve(t *testing.T) {
	f := newUserFixture()
	adminID := f.seedAdmin(t, models.ClearanceBasic)

	err := f.service.DeleteUser(context.Background(), adminID, primitive.NewObjectID())

	var notFoundErr *utils.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestGetUserStats(t *testing.T) {
	f := newUserFixture()
	f.seedAdmin(t, models.ClearanceBasic)
	customerID := f.seedCustomer(t, "c@example.com")
	f.seedMechanic(t, "m@example.com")
	f.userRepo.users[customerID].Status = models.UserStatusApproved

	stats, err := f.service.GetUserStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.RoleBreakdown.Customers)
	assert.Equal(t, int64(1), stats.RoleBreakdown.Mechanics)
	assert.Equal(t, int64(1), stats.RoleBreakdown.Admins)
	assert.Equal(t, int64(3), stats.RecentActivity.SignupsLast30Days)
	assert.InDelta(t, 100.0, stats.ApprovalRate, 0.01)
}

func TestGetUserStatsEmpty(t *testing.T) {
	f := newUserFixture()

	stats, err := f.service.GetUserStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.ApprovalRate)
}

func TestGetAllUsersFiltered(t *testing.T) {
	f := newUserFixture()
	f.seedAdmin(t, models.ClearanceBasic)
	f.seedCustomer(t, "c@example.com")
	f.seedMechanic(t, "m@example.com")

	users, meta, err := f.service.GetAllUsers(context.Background(), interfaces.UserFilter{Role: models.UserRoleCustomer}, utils.DefaultParams())
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, models.UserRoleCustomer, users[0].Role)
	assert.Equal(t, int64(1), meta.Total)
	assert.Empty(t, users[0].Password)
}
