// Package errors provides the error kinds returned by makesite operations.
//
// Every failure in the tool is terminal for the current invocation. Rather
// than exiting from deep inside the provisioner, operations return a
// *SiteError carrying a Code; the CLI maps that to a diagnostic line and an
// exit status in one place.
//
// # Error Kinds
//
//	PATH_CONFLICT      a site path already exists (create)
//	UNKNOWN_SITE       no enabled config for the site (enable_tls)
//	MISSING_PARAMETER  a required flag was not given
//	SUBPROCESS         the certificate tool failed
//	FILESYSTEM         any I/O failure
//	VALIDATION         invalid site name or type
//	CONFIG             unreadable or invalid configuration file
//
// # Usage
//
//	return errors.PathConflict("example.com", "/var/www/example.com")
//
//	if errors.Is(err, errors.ErrUnknownSite) {
//	    // ...
//	}
//
//	var siteErr *errors.SiteError
//	if errors.As(err, &siteErr) {
//	    fmt.Println(siteErr.Code, siteErr.Site)
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
	ErrCodePathConflict     ErrorCode = "PATH_CONFLICT"
	ErrCodeUnknownSite      ErrorCode = "UNKNOWN_SITE"
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrCodeSubprocess       ErrorCode = "SUBPROCESS"
	ErrCodeFilesystem       ErrorCode = "FILESYSTEM"
	ErrCodeValidation       ErrorCode = "VALIDATION"
	ErrCodeConfig           ErrorCode = "CONFIG"
)

// SiteError is a failure of a makesite operation.
type SiteError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Site    string    // Site name (if applicable)
	Path    string    // Filesystem path involved (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Site != "" {
		msg = fmt.Sprintf("site %s: %s", e.Site, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SiteError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *SiteError) Is(target error) bool {
	t, ok := target.(*SiteError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, compared by code with errors.Is.
var (
	ErrPathConflict     = &SiteError{Code: ErrCodePathConflict, Message: "path already exists"}
	ErrUnknownSite      = &SiteError{Code: ErrCodeUnknownSite, Message: "unknown website"}
	ErrMissingParameter = &SiteError{Code: ErrCodeMissingParameter, Message: "missing required parameter"}
	ErrSubprocess       = &SiteError{Code: ErrCodeSubprocess, Message: "subprocess failed"}
	ErrFilesystem       = &SiteError{Code: ErrCodeFilesystem, Message: "filesystem error"}
	ErrValidation       = &SiteError{Code: ErrCodeValidation, Message: "invalid input"}
	ErrConfig           = &SiteError{Code: ErrCodeConfig, Message: "invalid configuration"}
)

// PathConflict reports that path, derived from site, already exists.
func PathConflict(site, path string) error {
	return &SiteError{
		Code:    ErrCodePathConflict,
		Message: "path already exists:",
		Site:    site,
		Path:    path,
	}
}

// UnknownSite reports that site has no enabled configuration.
func UnknownSite(site string) error {
	return &SiteError{
		Code:    ErrCodeUnknownSite,
		Message: "unknown website",
		Site:    site,
	}
}

// MissingParameter reports that a required parameter was not supplied.
func MissingParameter(name string) error {
	return &SiteError{
		Code:    ErrCodeMissingParameter,
		Message: fmt.Sprintf("parameter %s is required", name),
	}
}

// Subprocess reports a failed external command run on behalf of site.
func Subprocess(site, msg string, err error) error {
	return &SiteError{
		Code:    ErrCodeSubprocess,
		Message: msg,
		Site:    site,
		Err:     err,
	}
}

// Filesystem wraps an I/O failure on path while working on site.
func Filesystem(site, msg, path string, err error) error {
	return &SiteError{
		Code:    ErrCodeFilesystem,
		Message: msg,
		Site:    site,
		Path:    path,
		Err:     err,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &SiteError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &SiteError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// CodeOf returns the code of the first SiteError in err's chain, or the
// empty code when there is none.
func CodeOf(err error) ErrorCode {
	var siteErr *SiteError
	if errors.As(err, &siteErr) {
		return siteErr.Code
	}
	return ""
}

// ExitCode maps err to a process exit status: 0 for nil, 1 for everything
// else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
