package tests

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/castelan/accountd/src/common/errors"
)

// =============================================================================
// Error Creation Tests
// =============================================================================

func TestError_New(t *testing.T) {
	err := errors.New(errors.DomainAuth, "test_code", http.StatusUnauthorized, "test message")

	if err.Domain != errors.DomainAuth {
		t.Fatalf("expected domain %s, got %s", errors.DomainAuth, err.Domain)
	}
	if err.Code != "test_code" {
		t.Fatalf("expected code test_code, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, err.HTTPStatus)
	}
	if err.Message != "test message" {
		t.Fatalf("expected message 'test message', got %s", err.Message)
	}
}

func TestError_Wrap(t *testing.T) {
	cause := stderrors.New("underlying error")
	err := errors.Wrap(cause, errors.DomainDatabase, "query_failed", http.StatusInternalServerError, "query failed")

	if err.Unwrap() != cause {
		t.Fatal("expected wrapped error to be returned by Unwrap")
	}

	errStr := err.Error()
	if errStr != "database.query_failed: query failed: underlying error" {
		t.Fatalf("unexpected error string: %s", errStr)
	}
}

// =============================================================================
// Error Methods Tests
// =============================================================================

func TestError_WithCause(t *testing.T) {
	original := errors.ErrAccountNotFound
	cause := stderrors.New("db connection failed")

	wrapped := original.WithCause(cause)

	// Original should be unchanged
	if original.Unwrap() != nil {
		t.Fatal("original error should not have cause")
	}

	// Wrapped should have cause
	if wrapped.Unwrap() != cause {
		t.Fatal("wrapped error should have cause")
	}

	// Should maintain same domain/code
	if wrapped.Domain != original.Domain || wrapped.Code != original.Code {
		t.Fatal("wrapped error should maintain domain and code")
	}
}

func TestError_WithMessage(t *testing.T) {
	original := errors.ErrValidationFailed
	modified := original.WithMessage("email is malformed")

	if modified.Message != "email is malformed" {
		t.Fatalf("expected custom message, got %q", modified.Message)
	}
	if original.Message == "email is malformed" {
		t.Fatal("original error message was mutated")
	}
	if !errors.Is(modified, errors.ErrValidationFailed) {
		t.Fatal("modified error should still match the original sentinel")
	}
}

func TestError_Is(t *testing.T) {
	err := errors.ErrAccountExists.WithCause(stderrors.New("unique constraint"))

	if !errors.Is(err, errors.ErrAccountExists) {
		t.Fatal("expected wrapped sentinel to match via Is")
	}
	if errors.Is(err, errors.ErrAccountNotFound) {
		t.Fatal("expected no match with unrelated sentinel")
	}
}

// =============================================================================
// HTTP Mapping Tests
// =============================================================================

func TestError_HTTPStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errors.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.ErrInvalidPassword, http.StatusUnauthorized},
		{errors.ErrAccountExists, http.StatusBadRequest},
		{errors.ErrAccountNotFound, http.StatusNotFound},
		{errors.ErrRoleDenied, http.StatusForbidden},
		{errors.ErrInternal, http.StatusInternalServerError},
		{stderrors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := errors.GetHTTPStatus(tc.err); got != tc.status {
			t.Fatalf("expected status %d for %v, got %d", tc.status, tc.err, got)
		}
	}
}

func TestError_ToResponse(t *testing.T) {
	resp := errors.ErrInvalidPassword.ToResponse()

	if resp.Error != "auth.invalid_password" {
		t.Fatalf("unexpected error field: %s", resp.Error)
	}
	if resp.Message != "Invalid password" {
		t.Fatalf("unexpected message field: %s", resp.Message)
	}
}

func TestError_CredentialMessages(t *testing.T) {
	// The generic message never reveals whether an email is registered;
	// only a known account with a bad password gets the specific one.
	if errors.ErrInvalidCredentials.Message != "Unauthorized" {
		t.Fatalf("unexpected generic message: %q", errors.ErrInvalidCredentials.Message)
	}
	if errors.ErrInvalidPassword.Message != "Invalid password" {
		t.Fatalf("unexpected password message: %q", errors.ErrInvalidPassword.Message)
	}
}
