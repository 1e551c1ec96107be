package services

import (
	"errors"
	"fmt"
)

// Code is the machine-readable error identifier returned to clients.
type Code string

const (
	CodeProfileRequired        Code = "PROFILE_REQUIRED"
	CodeProfileNotActive       Code = "PROFILE_NOT_ACTIVE"
	CodeProfileNotFound        Code = "PROFILE_NOT_FOUND"
	CodeCannotSwipeSelf        Code = "CANNOT_SWIPE_SELF"
	CodeCannotReportSelf       Code = "CANNOT_REPORT_SELF"
	CodeCannotReportOwnListing Code = "CANNOT_REPORT_OWN_LISTING"
	CodeAlreadyReported        Code = "ALREADY_REPORTED"
	CodeListingNotFound        Code = "LISTING_NOT_FOUND_OR_ARCHIVED"
	CodeUserNotFound           Code = "USER_NOT_FOUND"
	CodeReportNotFound         Code = "REPORT_NOT_FOUND"
	CodeUserBanned             Code = "USER_BANNED"
	CodeRateLimited            Code = "RATE_LIMITED"
	CodeInvalidRequest         Code = "INVALID_REQUEST"
	CodeUnauthorized           Code = "UNAUTHORIZED"
	CodeForbidden              Code = "FORBIDDEN"
	CodeInternal               Code = "INTERNAL_ERROR"
)

// Error is a domain failure carrying its client-facing code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrProfileRequired        = &Error{Code: CodeProfileRequired, Message: "create a dating profile first"}
	ErrProfileNotActive       = &Error{Code: CodeProfileNotActive, Message: "profile is not active"}
	ErrProfileNotFound        = &Error{Code: CodeProfileNotFound, Message: "profile not found"}
	ErrCannotSwipeSelf        = &Error{Code: CodeCannotSwipeSelf, Message: "cannot swipe your own profile"}
	ErrCannotReportSelf       = &Error{Code: CodeCannotReportSelf, Message: "cannot report yourself"}
	ErrCannotReportOwnListing = &Error{Code: CodeCannotReportOwnListing, Message: "cannot report your own listing"}
	ErrAlreadyReported        = &Error{Code: CodeAlreadyReported, Message: "you have already reported this"}
	ErrListingNotFound        = &Error{Code: CodeListingNotFound, Message: "listing not found or archived"}
	ErrUserNotFound           = &Error{Code: CodeUserNotFound, Message: "user not found"}
	ErrReportNotFound         = &Error{Code: CodeReportNotFound, Message: "report not found"}
	ErrUserBanned             = &Error{Code: CodeUserBanned, Message: "account is banned"}
	ErrRateLimited            = &Error{Code: CodeRateLimited, Message: "too many requests"}
	ErrUnauthorized           = &Error{Code: CodeUnauthorized, Message: "authentication required"}
	ErrForbidden              = &Error{Code: CodeForbidden, Message: "access denied"}
)

// InvalidRequest reports malformed input.
func InvalidRequest(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// Internal hides a storage or infrastructure failure behind the opaque code.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the code of err, treating unknown errors as internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
