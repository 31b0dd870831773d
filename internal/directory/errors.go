package directory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Category groups directory failures by how the tasks react to them: bind
// rejections become authenticated=false, missing entries become empty
// results, everything transport-shaped becomes a connection failure.
type Category string

const (
	CategoryConnection     Category = "connection"
	CategoryAuthentication Category = "authentication"
	CategoryNotFound       Category = "not_found"
	CategoryServer         Category = "server"
	CategoryUnknown        Category = "unknown"
)

// Error carries the operation, category and LDAP result code of a failed
// directory call.
type Error struct {
	Op       string
	Category Category
	Code     uint16
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	var parts []string
	if e.Code > 0 {
		parts = append(parts, fmt.Sprintf("LDAP %s failed (code %d)", e.Op, e.Code))
	} else {
		parts = append(parts, fmt.Sprintf("LDAP %s failed", e.Op))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classify wraps a go-ldap error with an operation name and a category
// derived from its result code.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}

	derr := &Error{Op: op, Cause: err, Message: err.Error()}

	var ldapErr *ldap.Error
	if errors.As(err, &ldapErr) {
		derr.Code = ldapErr.ResultCode
		derr.Category = categorize(ldapErr.ResultCode)
	} else {
		derr.Category = categorizeGeneric(err)
	}

	return derr
}

func categorize(code uint16) Category {
	switch code {
	case ldap.LDAPResultInvalidCredentials,
		ldap.LDAPResultInappropriateAuthentication,
		ldap.LDAPResultStrongAuthRequired:
		return CategoryAuthentication

	case ldap.LDAPResultNoSuchObject,
		ldap.LDAPResultNoSuchAttribute,
		ldap.LDAPResultUndefinedAttributeType:
		return CategoryNotFound

	case ldap.LDAPResultServerDown,
		ldap.LDAPResultUnavailable,
		ldap.LDAPResultBusy,
		ldap.LDAPResultTimeLimitExceeded:
		return CategoryServer

	case ldap.LDAPResultConnectError,
		ldap.LDAPResultProtocolError,
		ldap.ErrorNetwork:
		return CategoryConnection

	default:
		return CategoryUnknown
	}
}

func categorizeGeneric(err error) Category {
	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "refused") {
		return CategoryConnection
	}

	if strings.Contains(errStr, "credentials") ||
		strings.Contains(errStr, "authentication") {
		return CategoryAuthentication
	}

	return CategoryUnknown
}

// CategoryOf returns the category of err, unwrapping as needed.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var derr *Error
	if errors.As(err, &derr) {
		return derr.Category
	}

	var ldapErr *ldap.Error
	if errors.As(err, &ldapErr) {
		return categorize(ldapErr.ResultCode)
	}

	return categorizeGeneric(err)
}

// IsAuthenticationError reports whether err is a credential rejection.
func IsAuthenticationError(err error) bool {
	return CategoryOf(err) == CategoryAuthentication
}

// IsNotFoundError reports whether err indicates a missing entry.
func IsNotFoundError(err error) bool {
	return CategoryOf(err) == CategoryNotFound
}

// IsConnectionError reports whether err is transport-shaped.
func IsConnectionError(err error) bool {
	return CategoryOf(err) == CategoryConnection
}
