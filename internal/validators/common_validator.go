package validators

import (
	"fmt"
	"strings"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("user_status", validateUserStatus)
	validate.RegisterValidation("vin_number", validateVIN)
	validate.RegisterValidation("vehicle_year", validateVehicleYear)
	validate.RegisterValidation("service_type", validateServiceType)
	validate.RegisterValidation("request_status", validateRequestStatus)
	validate.RegisterValidation("request_priority", validateRequestPriority)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Fields flattens the errors into the per-field map the error taxonomy
// carries outward.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		fields[strings.ToLower(err.Field)] = err.Message
	}
	return fields
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationError := ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			}
			validationErrors = append(validationErrors, validationError)
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "username":
		return "Username must be alphanumeric, 3-30 characters"
	case "strong_password":
		return "Password must be 8-25 characters with uppercase, lowercase, digit, and symbol"
	case "user_role":
		return "Role must be one of admin, customer, mechanic"
	case "user_status":
		return "Status must be one of pending, approved, banned"
	case "vin_number":
		return "VIN must be exactly 17 characters"
	case "vehicle_year":
		return "Year must be between 1900 and next year"
	case "service_type":
		return "Service type must be one of repair, maintenance, inspection, diagnostic, emergency"
	case "request_status":
		return "Unknown request status"
	case "request_priority":
		return "Priority must be one of low, medium, high, urgent"
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validateUsername(fl validator.FieldLevel) bool {
	return utils.IsValidUsername(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return utils.ValidatePasswordStrength(fl.Field().String())
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.ValidUserRole(fl.Field().String())
}

func validateUserStatus(fl validator.FieldLevel) bool {
	return models.ValidUserStatus(fl.Field().String())
}

func validateVIN(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return utils.IsValidVIN(value)
}

func validateVehicleYear(fl validator.FieldLevel) bool {
	return models.ValidYear(int(fl.Field().Int()))
}

func validateServiceType(fl validator.FieldLevel) bool {
	return models.ValidServiceType(fl.Field().String())
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidRequestStatus(value)
}

func validateRequestPriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidPriority(value)
}
