// Package errors provides standardized error types for the caddex control plane.
//
// The errors package defines domain-specific error types that enable
// structured error handling and consistent error messages throughout
// the proxy configuration pipeline.
//
// # Error Types
//
// ProxyError is the primary error type, containing:
//   - Code: Categorizes the error (VALIDATION, RELOAD, etc.)
//   - Message: Human-readable error description
//   - Project: The project name or ID involved (if applicable)
//   - Err: The underlying wrapped error (if any)
//
// # Sentinel Errors
//
// Common error scenarios have pre-defined sentinel errors:
//
//	errors.ErrTemplateNotFound // named template does not exist
//	errors.ErrValidationFailed // generated config failed the pre-flight check
//	errors.ErrReloadFailed     // every reload channel was exhausted
//	errors.ErrMissingImport    // top-level config lost its import directive
//
// # Usage
//
// Creating domain-specific errors:
//
//	// Project not found in the registry
//	return errors.NotFound("my-app")
//
//	// Validation error
//	return errors.Validation("port must be between 1 and 65535")
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeConfig, "failed to write fragment", err)
//
// # Error Checking
//
// Use errors.Is for sentinel error comparison:
//
//	if errors.Is(err, errors.ErrReloadFailed) {
//	    // Surface per-tier diagnostics to the operator
//	}
//
// Use errors.As for type assertion:
//
//	var proxyErr *errors.ProxyError
//	if errors.As(err, &proxyErr) {
//	    fmt.Printf("Error code: %s, Project: %s\n", proxyErr.Code, proxyErr.Project)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"      // Resource not found
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS" // Resource already exists
	ErrCodeValidation    ErrorCode = "VALIDATION"     // Input or config validation failed
	ErrCodeTemplate      ErrorCode = "TEMPLATE"       // Template lookup or rendering error
	ErrCodeReload        ErrorCode = "RELOAD"         // Proxy reload error
	ErrCodeConfig        ErrorCode = "CONFIG"         // Configuration file error
	ErrCodePermission    ErrorCode = "PERMISSION"     // Permission denied
	ErrCodeInternal      ErrorCode = "INTERNAL"       // Internal/unexpected error
)

// ProxyError represents a structured error with context about the operation.
type ProxyError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Project string    // Project name or ID (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *ProxyError) Error() string {
	if e.Project != "" && e.Err != nil {
		return fmt.Sprintf("project %s: %s: %v", e.Project, e.Message, e.Err)
	}
	if e.Project != "" {
		return fmt.Sprintf("project %s: %s", e.Project, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ProxyError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *ProxyError) Is(target error) bool {
	t, ok := target.(*ProxyError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrTemplateNotFound indicates the named template does not exist.
	// This is a programmer error and fatal at the call site.
	ErrTemplateNotFound = &ProxyError{Code: ErrCodeTemplate, Message: "template not found"}

	// ErrValidationFailed indicates the generated configuration is malformed
	// and was never handed to the live proxy.
	ErrValidationFailed = &ProxyError{Code: ErrCodeValidation, Message: "configuration validation failed"}

	// ErrReloadFailed indicates every reload channel was exhausted.
	ErrReloadFailed = &ProxyError{Code: ErrCodeReload, Message: "all reload channels failed"}

	// ErrMissingImport indicates the top-level config lost its import
	// directive. One automatic regeneration is attempted before this
	// error is surfaced.
	ErrMissingImport = &ProxyError{Code: ErrCodeConfig, Message: "import directive missing from top-level config"}

	// ErrProjectNotFound indicates the requested project is not registered.
	ErrProjectNotFound = &ProxyError{Code: ErrCodeNotFound, Message: "project not found"}

	// ErrProjectExists indicates a project with the same name already exists.
	ErrProjectExists = &ProxyError{Code: ErrCodeAlreadyExists, Message: "project already exists"}

	// ErrInvalidType indicates the project type is not valid.
	ErrInvalidType = &ProxyError{Code: ErrCodeValidation, Message: "invalid project type"}

	// ErrPermissionDenied indicates insufficient privileges for the operation.
	ErrPermissionDenied = &ProxyError{Code: ErrCodePermission, Message: "permission denied"}
)

// NotFound creates an error for a project that is not registered.
func NotFound(project string) error {
	return &ProxyError{
		Code:    ErrCodeNotFound,
		Message: "project not found",
		Project: project,
	}
}

// AlreadyExists creates an error for a project that already exists.
func AlreadyExists(project string) error {
	return &ProxyError{
		Code:    ErrCodeAlreadyExists,
		Message: "project already exists",
		Project: project,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &ProxyError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// TemplateNotFound creates an error for an unknown template name.
func TemplateNotFound(name string) error {
	return &ProxyError{
		Code:    ErrCodeTemplate,
		Message: fmt.Sprintf("template not found: %s", name),
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &ProxyError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapProject creates an error with project context and underlying error.
func WrapProject(code ErrorCode, project string, err error) error {
	return &ProxyError{
		Code:    code,
		Project: project,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
