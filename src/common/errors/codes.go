package errors

import "net/http"

// Common error codes used across domains
const (
	CodeNotFound       Code = "not_found"
	CodeAlreadyExists  Code = "already_exists"
	CodeInvalidRequest Code = "invalid_request"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeInternal       Code = "internal_error"
)

// ============================================================================
// Authentication Errors
// ============================================================================

var (
	// ErrInvalidCredentials is returned when login fails. It deliberately does
	// not reveal whether the email exists.
	ErrInvalidCredentials = New(DomainAuth, "invalid_credentials", http.StatusUnauthorized,
		"Unauthorized")

	// ErrInvalidPassword is returned when the supplied password does not match
	// the stored hash for a known account.
	ErrInvalidPassword = New(DomainAuth, "invalid_password", http.StatusUnauthorized,
		"Invalid password")

	// ErrTokenInvalid is returned when a bearer token is malformed or has a bad signature
	ErrTokenInvalid = New(DomainAuth, "token_invalid", http.StatusUnauthorized,
		"Invalid token")

	// ErrTokenExpired is returned when a bearer token has expired
	ErrTokenExpired = New(DomainAuth, "token_expired", http.StatusUnauthorized,
		"Token has expired")

	// ErrNoToken is returned when no authentication token is provided
	ErrNoToken = New(DomainAuth, "no_token", http.StatusUnauthorized,
		"No authentication token provided")

	// ErrRoleDenied is returned when the requester's role does not satisfy the
	// role requirement declared for the operation.
	ErrRoleDenied = New(DomainAuth, "role_denied", http.StatusForbidden,
		"Insufficient role for this operation")
)

// ============================================================================
// Account Errors
// ============================================================================

var (
	// ErrAccountNotFound is returned when an account cannot be found
	ErrAccountNotFound = New(DomainAccount, CodeNotFound, http.StatusNotFound,
		"Account not found")

	// ErrAccountExists is returned when signing up with an email that is
	// already registered.
	ErrAccountExists = New(DomainAccount, CodeAlreadyExists, http.StatusBadRequest,
		"An account already exists with the provided email")

	// ErrAdminExists is returned when a signup requests the admin role while
	// an administrator account already exists. Further admins are created by
	// an existing one, or out of band via the bootstrap command.
	ErrAdminExists = New(DomainAccount, "admin_exists", http.StatusConflict,
		"An administrator account already exists")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	// ErrValidationFailed is returned when request validation fails
	ErrValidationFailed = New(DomainValidation, "validation_failed", http.StatusBadRequest,
		"Validation failed")

	// ErrMissingRequiredField is returned when a required field is missing
	ErrMissingRequiredField = New(DomainValidation, "missing_field", http.StatusBadRequest,
		"Missing required field")

	// ErrInvalidJSON is returned when JSON parsing fails
	ErrInvalidJSON = New(DomainValidation, "invalid_json", http.StatusBadRequest,
		"Invalid JSON")
)

// ============================================================================
// Database Errors
// ============================================================================

var (
	// ErrDatabaseQuery is returned when a database query fails
	ErrDatabaseQuery = New(DomainDatabase, "query_failed", http.StatusInternalServerError,
		"Database query failed")

	// ErrDatabaseTransaction is returned when a database transaction fails
	ErrDatabaseTransaction = New(DomainDatabase, "transaction_failed", http.StatusInternalServerError,
		"Database transaction failed")
)

// ============================================================================
// Internal Errors
// ============================================================================

var (
	// ErrInternal is a generic internal server error
	ErrInternal = New(DomainInternal, CodeInternal, http.StatusInternalServerError,
		"Internal server error")
)
