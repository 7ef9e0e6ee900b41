package errors_test

import (
	"errors"
	"testing"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

func TestNew(t *testing.T) {
	err := derrors.New(derrors.CodeInvalidInput, "test error")
	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Code() != derrors.CodeInvalidInput {
		t.Errorf("Expected code %v, got %v", derrors.CodeInvalidInput, err.Code())
	}

	if err.Message() != "test error" {
		t.Errorf("Expected message 'test error', got '%s'", err.Message())
	}
}

func TestNewf(t *testing.T) {
	err := derrors.Newf(derrors.CodeInvalidConfig, "invalid value: %d", 42)
	if err == nil {
		t.Fatal("Newf() returned nil")
	}

	if err.Code() != derrors.CodeInvalidConfig {
		t.Errorf("Expected code %v, got %v", derrors.CodeInvalidConfig, err.Code())
	}

	expected := "invalid value: 42"
	if err.Message() != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, err.Message())
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *derrors.Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      derrors.New(derrors.CodeTargetNotFound, "element not found"),
			expected: "[TARGET_NOT_FOUND] element not found",
		},
		{
			name: "error with cause",
			err: derrors.Wrap(
				errors.New("underlying error"), //nolint:err113 // dynamic errors needed for testing
				derrors.CodeBackendCallFailure,
				"failed to get element",
			),
			expected: "[BACKEND_CALL_FAILURE] failed to get element: underlying error",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := testCase.err.Error()
			if got != testCase.expected {
				t.Errorf("Error() = %q, want %q", got, testCase.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error") //nolint:err113 // dynamic errors needed for testing
	err := derrors.Wrap(cause, derrors.CodeBackendCallFailure, "backend call failed")

	unwrapped := err.Unwrap()
	if unwrapped != cause { //nolint:err113,errorlint // dynamic errors needed for testing
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := derrors.New(derrors.CodeBackendCallFailure, "backend call failed")

	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil for error without cause")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error") //nolint:err113 // dynamic errors needed for testing

	err := derrors.Wrap(cause, derrors.CodeHomographyFailure, "homography failed")
	if err == nil {
		t.Fatal("Wrap() returned nil")
	}

	if err.Cause() != cause { //nolint:err113,errorlint // dynamic errors needed for testing
		t.Errorf("Wrap() cause = %v, want %v", err.Cause(), cause)
	}

	if err.Code() != derrors.CodeHomographyFailure {
		t.Errorf("Wrap() code = %v, want %v", err.Code(), derrors.CodeHomographyFailure)
	}

	nilErr := derrors.Wrap(nil, derrors.CodeHomographyFailure, "homography failed")
	if nilErr != nil {
		t.Error("Wrap() should return nil for nil error")
	}
}

func TestError_WithContext(t *testing.T) {
	err := derrors.New(derrors.CodeMatchResultCheck, "sanity check failed")

	errWithContext := err.WithContext("width", 3)

	if errWithContext.Context() == nil {
		t.Fatal("WithContext() context is nil")
	}

	if val, ok := errWithContext.Context()["width"]; !ok || val != 3 {
		t.Errorf("WithContext() context['width'] = %v, want 3", val)
	}

	_ = errWithContext.WithContext("height", 5)

	if val, ok := errWithContext.Context()["height"]; !ok || val != 5 {
		t.Errorf("WithContext() context['height'] = %v, want 5", val)
	}
}

func TestError_Is(t *testing.T) {
	err1 := derrors.New(derrors.CodeTimeout, "timeout")
	err2 := derrors.New(derrors.CodeTimeout, "different message")
	err3 := derrors.New(derrors.CodeInternal, "internal error")

	if !err1.Is(err2) {
		t.Error("Is() should return true for errors with same code")
	}

	if err1.Is(err3) {
		t.Error("Is() should return false for errors with different codes")
	}

	stdErr := errors.New("standard error") //nolint:err113 // dynamic errors needed for testing
	if err1.Is(stdErr) {
		t.Error("Is() should return false for non-Error types")
	}
}

func TestWrapf(t *testing.T) {
	cause := derrors.New(derrors.CodeInternal, "underlying error")

	err := derrors.Wrapf(
		cause,
		derrors.CodeBackendCallFailure,
		"action %s failed with code %d",
		"click",
		42,
	)
	if err == nil {
		t.Fatal("Wrapf() returned nil")
	}

	if !errors.Is(err.Cause(), cause) {
		t.Errorf("Wrapf() cause = %v, want %v", err.Cause(), cause)
	}

	if err.Code() != derrors.CodeBackendCallFailure {
		t.Errorf("Wrapf() code = %v, want %v", err.Code(), derrors.CodeBackendCallFailure)
	}

	expectedMsg := "action click failed with code 42"
	if err.Message() != expectedMsg {
		t.Errorf("Wrapf() message = %q, want %q", err.Message(), expectedMsg)
	}

	nilErr := derrors.Wrapf(nil, derrors.CodeBackendCallFailure, "action failed")
	if nilErr != nil {
		t.Error("Wrapf() should return nil for nil error")
	}
}

func TestIsCode(t *testing.T) {
	domainErr := derrors.New(derrors.CodeInvalidInput, "test error")
	stdErr := errors.New("standard error") //nolint:err113 // a plain, non-domain error

	tests := []struct {
		name string
		err  error
		code derrors.Code
		want bool
	}{
		{"domain error matching code", domainErr, derrors.CodeInvalidInput, true},
		{"domain error non-matching code", domainErr, derrors.CodeInvalidConfig, false},
		{"standard error", stdErr, derrors.CodeInvalidInput, false},
		{"nil error", nil, derrors.CodeInvalidInput, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := derrors.IsCode(testCase.err, testCase.code)
			if got != testCase.want {
				t.Errorf(
					"IsCode(%v, %v) = %v, want %v",
					testCase.err,
					testCase.code,
					got,
					testCase.want,
				)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	domainErr := derrors.New(derrors.CodeInvalidInput, "test error")
	stdErr := errors.New("standard error") //nolint:err113 // a plain, non-domain error

	tests := []struct {
		name string
		err  error
		want derrors.Code
	}{
		{"domain error", domainErr, derrors.CodeInvalidInput},
		{"standard error", stdErr, derrors.CodeInternal},
		{"nil error", nil, derrors.CodeInternal},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := derrors.GetCode(testCase.err)
			if got != testCase.want {
				t.Errorf("GetCode(%v) = %v, want %v", testCase.err, got, testCase.want)
			}
		})
	}
}

func TestIsBackendError(t *testing.T) {
	tests := []struct {
		name string
		code derrors.Code
		want bool
	}{
		{"backend call failure", derrors.CodeBackendCallFailure, true},
		{"backend missing", derrors.CodeBackendMissing, true},
		{"other error", derrors.CodeInvalidInput, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := derrors.New(testCase.code, "test error")

			got := derrors.IsBackendError(err)
			if got != testCase.want {
				t.Errorf("IsBackendError(%v) = %v, want %v", err, got, testCase.want)
			}
		})
	}

	stdErr := errors.New("standard error") //nolint:err113 // a plain, non-domain error
	if derrors.IsBackendError(stdErr) {
		t.Error("IsBackendError should return false for non-domain errors")
	}
}

func TestIsUserError(t *testing.T) {
	tests := []struct {
		name string
		code derrors.Code
		want bool
	}{
		{"invalid config", derrors.CodeInvalidConfig, true},
		{"invalid input", derrors.CodeInvalidInput, true},
		{"invalid argument", derrors.CodeInvalidArgument, true},
		{"other error", derrors.CodeBackendCallFailure, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := derrors.New(testCase.code, "test error")

			got := derrors.IsUserError(err)
			if got != testCase.want {
				t.Errorf("IsUserError(%v) = %v, want %v", err, got, testCase.want)
			}
		})
	}

	stdErr := errors.New("standard error") //nolint:err113 // a plain, non-domain error
	if derrors.IsUserError(stdErr) {
		t.Error("IsUserError should return false for non-domain errors")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		code derrors.Code
		want bool
	}{
		{"timeout", derrors.CodeTimeout, true},
		{"target not found", derrors.CodeTargetNotFound, true},
		{"other error", derrors.CodeInvalidInput, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := derrors.New(testCase.code, "test error")

			got := derrors.IsTransient(err)
			if got != testCase.want {
				t.Errorf("IsTransient(%v) = %v, want %v", err, got, testCase.want)
			}
		})
	}

	stdErr := errors.New("standard error") //nolint:err113 // a plain, non-domain error
	if derrors.IsTransient(stdErr) {
		t.Error("IsTransient should return false for non-domain errors")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []derrors.Code{
		derrors.CodeTargetNotFound,
		derrors.CodeInvalidMatchingMethod,
		derrors.CodeFileNotExist,
		derrors.CodeTemplateInputError,
		derrors.CodeBackendMissing,
		derrors.CodeHomographyFailure,
		derrors.CodeMatchResultCheck,
		derrors.CodeBackendCallFailure,
		derrors.CodeInvalidArgument,
		derrors.CodeInvalidConfig,
		derrors.CodeInvalidInput,
		derrors.CodeContextCanceled,
		derrors.CodeTimeout,
		derrors.CodeInternal,
		derrors.CodeElementReleased,
	}

	seen := make(map[derrors.Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}

		seen[code] = true

		if code == "" {
			t.Error("Error code should not be empty")
		}
	}
}
