package utils

import "time"

// Application Constants
const (
	AppName    = "FixTheDamnTruck"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTSessionTokenTTL = 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 25
	UsernameMinLength  = 3
	UsernameMaxLength  = 30

	// Service requests
	MaxDescriptionLength = 1000
	MaxQuestionLength    = 500

	// Vehicles
	VINLength      = 17
	MinVehicleYear = 1900

	// File Upload
	MaxDocumentSize = 10 * 1024 * 1024 // 10MB
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrAccountPending     = "account pending approval, please wait for administrator approval"
	ErrAccountBanned      = "account has been banned, please contact support"
	ErrEmailExists        = "email already exists"
	ErrUsernameExists     = "username already exists"
	ErrUserNotFound       = "user not found"
	ErrInvalidToken       = "invalid token"
	ErrTokenRevoked       = "token has been revoked"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrFileUploadFailed   = "file upload failed"
)

// Cache Keys
const (
	CacheRevokedTokenPrefix = "revoked_token:"
)

// File Types
var (
	AllowedDocumentTypes = []string{"pdf", "jpg", "jpeg", "png"}
)
