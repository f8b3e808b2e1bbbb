package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeTx satisfies Transactor without a real session; the in-memory repos
// ignore the session entirely.
type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	return fn(mongo.NewSessionContext(ctx, nil))
}

// fakeRevoker is an in-memory revocation list.
type fakeRevoker struct {
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]bool{}}
}

func (f *fakeRevoker) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.revoked[key] = true
	return nil
}

func (f *fakeRevoker) Exists(ctx context.Context, key string) (bool, error) {
	return f.revoked[key], nil
}

func testLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stdout"})
	return log
}

// mockUserRepo is an in-memory UserRepository.
type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return utils.NewDuplicateError(utils.ErrEmailExists)
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("user")
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	for key, value := range updates {
		switch key {
		case "username":
			user.Username = value.(string)
		case "email":
			user.Email = value.(string)
		case "password":
			user.Password = value.(string)
		case "status":
			user.Status = value.(models.UserStatus)
		case "customer.phone_number":
			if user.Customer != nil {
				user.Customer.PhoneNumber = value.(string)
			}
		case "customer.address":
			if user.Customer != nil {
				user.Customer.Address = value.(models.Address)
			}
		case "mechanic.phone_number":
			if user.Mechanic != nil {
				user.Mechanic.PhoneNumber = value.(string)
			}
		case "mechanic.specializations":
			if user.Mechanic != nil {
				user.Mechanic.Specializations = value.([]string)
			}
		case "mechanic.experience":
			if user.Mechanic != nil {
				user.Mechanic.Experience = value.(int)
			}
		case "mechanic.pricing":
			if user.Mechanic != nil {
				user.Mechanic.Pricing = value.(models.MechanicPricing)
			}
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return utils.NewNotFoundError("user")
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("user")
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("user")
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	if user, ok := m.users[id]; ok && user.Admin != nil {
		now := time.Now()
		user.Admin.LastLoginAt = &now
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	var matched []*models.User
	for _, user := range m.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		clone := *user
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, int64(len(matched)), nil
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role models.UserRole, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return m.List(ctx, interfaces.UserFilter{Role: role}, params)
}

func (m *mockUserRepo) AddServiceRequestRef(ctx context.Context, userID primitive.ObjectID, role models.UserRole, requestID primitive.ObjectID) error {
	user, ok := m.users[userID]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	switch role {
	case models.UserRoleCustomer:
		if user.Customer != nil {
			user.Customer.ServiceRequests = append(user.Customer.ServiceRequests, requestID)
		}
	case models.UserRoleMechanic:
		if user.Mechanic != nil {
			user.Mechanic.ServiceRequests = append(user.Mechanic.ServiceRequests, requestID)
		}
	}
	return nil
}

func (m *mockUserRepo) RemoveServiceRequestRef(ctx context.Context, userID primitive.ObjectID, role models.UserRole, requestID primitive.ObjectID) error {
	user, ok := m.users[userID]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	remove := func(refs []primitive.ObjectID) []primitive.ObjectID {
		out := refs[:0]
		for _, ref := range refs {
			if ref != requestID {
				out = append(out, ref)
			}
		}
		return out
	}
	if role == models.UserRoleCustomer && user.Customer != nil {
		user.Customer.ServiceRequests = remove(user.Customer.ServiceRequests)
	}
	if role == models.UserRoleMechanic && user.Mechanic != nil {
		user.Mechanic.ServiceRequests = remove(user.Mechanic.ServiceRequests)
	}
	return nil
}

func (m *mockUserRepo) AddCertification(ctx context.Context, userID primitive.ObjectID, cert models.Certification) error {
	user, ok := m.users[userID]
	if !ok || user.Mechanic == nil {
		return utils.NewNotFoundError("mechanic")
	}
	user.Mechanic.Certifications = append(user.Mechanic.Certifications, cert)
	return nil
}

func (m *mockUserRepo) IncrementJobsCompleted(ctx context.Context, mechanicID primitive.ObjectID) error {
	if user, ok := m.users[mechanicID]; ok && user.Mechanic != nil {
		user.Mechanic.Performance.JobsCompleted++
	}
	return nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepo) CountAdmins(ctx context.Context) (int64, error) {
	return m.CountByRole(ctx, models.UserRoleAdmin)
}

func (m *mockUserRepo) GetStats(ctx context.Context) (*models.UserStats, error) {
	stats := &models.UserStats{}
	cutoff := time.Now().AddDate(0, 0, -30)
	for _, user := range m.users {
		stats.TotalUsers++
		switch user.Role {
		case models.UserRoleCustomer:
			stats.RoleBreakdown.Customers++
		case models.UserRoleMechanic:
			stats.RoleBreakdown.Mechanics++
		case models.UserRoleAdmin:
			stats.RoleBreakdown.Admins++
		}
		switch user.Status {
		case models.UserStatusApproved:
			stats.StatusBreakdown.Approved++
		case models.UserStatusPending:
			stats.StatusBreakdown.Pending++
		case models.UserStatusBanned:
			stats.StatusBreakdown.Banned++
		}
		if user.CreatedAt.After(cutoff) {
			stats.RecentActivity.SignupsLast30Days++
		}
	}
	if stats.TotalUsers > 0 {
		rate := float64(stats.StatusBreakdown.Approved) / float64(stats.TotalUsers) * 100
		stats.ApprovalRate = math.Round(rate*100) / 100
	}
	return stats, nil
}

// mockVehicleRepo is an in-memory VehicleRepository.
type mockVehicleRepo struct {
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: map[primitive.ObjectID]*models.Vehicle{}}
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()
	vehicle.VIN = strings.ToUpper(vehicle.VIN)
	vehicle.LicensePlate = strings.ToUpper(vehicle.LicensePlate)
	clone := *vehicle
	m.vehicles[vehicle.ID] = &clone
	return nil
}

func (m *mockVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, utils.NewNotFoundError("vehicle")
	}
	clone := *vehicle
	return &clone, nil
}

func (m *mockVehicleRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := m.vehicles[id]; !ok {
		return utils.NewNotFoundError("vehicle")
	}
	return nil
}

func (m *mockVehicleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.vehicles[id]; !ok {
		return utils.NewNotFoundError("vehicle")
	}
	delete(m.vehicles, id)
	return nil
}

func (m *mockVehicleRepo) GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Vehicle, error) {
	var matched []*models.Vehicle
	for _, vehicle := range m.vehicles {
		if vehicle.CustomerID == customerID {
			clone := *vehicle
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (m *mockVehicleRepo) CountByCustomerID(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	var count int64
	for _, vehicle := range m.vehicles {
		if vehicle.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (m *mockVehicleRepo) DeleteByCustomerID(ctx context.Context, customerID primitive.ObjectID) error {
	for id, vehicle := range m.vehicles {
		if vehicle.CustomerID == customerID {
			delete(m.vehicles, id)
		}
	}
	return nil
}

func (m *mockVehicleRepo) FindMatch(ctx context.Context, customerID primitive.ObjectID, make, model string, year int) (*models.Vehicle, error) {
	for _, vehicle := range m.vehicles {
		if vehicle.CustomerID != customerID {
			continue
		}
		if strings.EqualFold(vehicle.Make, make) && strings.EqualFold(vehicle.Model, model) && vehicle.Year == year {
			clone := *vehicle
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockVehicleRepo) SetPrimary(ctx context.Context, customerID, vehicleID primitive.ObjectID) error {
	target, ok := m.vehicles[vehicleID]
	if !ok || target.CustomerID != customerID {
		return utils.NewNotFoundError("vehicle")
	}
	for _, vehicle := range m.vehicles {
		if vehicle.CustomerID == customerID {
			vehicle.IsPrimary = vehicle.ID == vehicleID
		}
	}
	return nil
}

func (m *mockVehicleRepo) GetPrimary(ctx context.Context, customerID primitive.ObjectID) (*models.Vehicle, error) {
	for _, vehicle := range m.vehicles {
		if vehicle.CustomerID == customerID && vehicle.IsPrimary {
			clone := *vehicle
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("primary vehicle")
}

// mockRequestRepo is an in-memory ServiceRequestRepository.
type mockRequestRepo struct {
	requests map[primitive.ObjectID]*models.ServiceRequest
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: map[primitive.ObjectID]*models.ServiceRequest{}}
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.ServiceRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	if request.Priority == "" {
		request.Priority = models.PriorityMedium
	}
	clone := *request
	m.requests[request.ID] = &clone
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, utils.NewNotFoundError("service request")
	}
	clone := *request
	return &clone, nil
}

func (m *mockRequestRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if _, ok := m.requests[id]; !ok {
		return utils.NewNotFoundError("service request")
	}
	return nil
}

func (m *mockRequestRepo) Replace(ctx context.Context, request *models.ServiceRequest) error {
	if _, ok := m.requests[request.ID]; !ok {
		return utils.NewNotFoundError("service request")
	}
	request.UpdatedAt = time.Now()
	clone := *request
	m.requests[request.ID] = &clone
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.requests[id]; !ok {
		return utils.NewNotFoundError("service request")
	}
	delete(m.requests, id)
	return nil
}

func (m *mockRequestRepo) filter(match func(*models.ServiceRequest) bool) []*models.ServiceRequest {
	var matched []*models.ServiceRequest
	for _, request := range m.requests {
		if match(request) {
			clone := *request
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (m *mockRequestRepo) GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.ServiceRequest, error) {
	return m.filter(func(r *models.ServiceRequest) bool { return r.CustomerID == customerID }), nil
}

func (m *mockRequestRepo) GetByMechanicID(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequest, error) {
	return m.filter(func(r *models.ServiceRequest) bool { return r.MechanicID == mechanicID }), nil
}

func (m *mockRequestRepo) GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.ServiceRequest, error) {
	return m.filter(func(r *models.ServiceRequest) bool { return r.VehicleID == vehicleID }), nil
}

func (m *mockRequestRepo) GetByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ServiceRequest, error) {
	return m.filter(func(r *models.ServiceRequest) bool { return r.Status == status }), nil
}

func (m *mockRequestRepo) GetByMechanicAndStatuses(ctx context.Context, mechanicID primitive.ObjectID, statuses []models.RequestStatus) ([]*models.ServiceRequest, error) {
	return m.filter(func(r *models.ServiceRequest) bool {
		if r.MechanicID != mechanicID {
			return false
		}
		for _, status := range statuses {
			if r.Status == status {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockRequestRepo) DeleteByCustomerID(ctx context.Context, customerID primitive.ObjectID) error {
	for id, request := range m.requests {
		if request.CustomerID == customerID {
			delete(m.requests, id)
		}
	}
	return nil
}

func (m *mockRequestRepo) DetachMechanic(ctx context.Context, mechanicID primitive.ObjectID) error {
	for _, request := range m.requests {
		if request.MechanicID != mechanicID {
			continue
		}
		switch request.Status {
		case models.RequestStatusAccepted, models.RequestStatusQuestion, models.RequestStatusInProgress:
			request.Status = models.RequestStatusPending
		}
		request.MechanicID = primitive.NilObjectID
	}
	return nil
}

func (m *mockRequestRepo) DetachVehicle(ctx context.Context, vehicleID primitive.ObjectID) error {
	for _, request := range m.requests {
		if request.VehicleID == vehicleID {
			request.VehicleID = primitive.NilObjectID
		}
	}
	return nil
}
