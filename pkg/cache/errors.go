package cache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies identity cache failures.
type ErrorCode string

const (
	// ErrCodeMissingIdentifier means the caller supplied an empty or
	// unparseable lookup key. Detected before any lock or remote call.
	ErrCodeMissingIdentifier ErrorCode = "MISSING_IDENTIFIER"

	// Definitive misses: the key was still absent from the local indexes
	// after an allowed refresh (or immediately, when refresh was
	// disallowed).
	ErrCodeNotFoundByGUID          ErrorCode = "NOT_FOUND_BY_GUID"
	ErrCodeNotFoundByQualifiedName ErrorCode = "NOT_FOUND_BY_QUALIFIED_NAME"
	ErrCodeNotFoundByName          ErrorCode = "NOT_FOUND_BY_NAME"
)

// Error is a structured identity cache failure carrying the offending
// lookup key. Remote service failures are never converted into one of
// these; they pass through the cache untouched.
type Error struct {
	Code    ErrorCode
	Key     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a definitive cache miss on any of the
// three key kinds.
func IsNotFound(err error) bool {
	var ce *Error
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Code {
	case ErrCodeNotFoundByGUID, ErrCodeNotFoundByQualifiedName, ErrCodeNotFoundByName:
		return true
	}
	return false
}

// IsMissingIdentifier reports whether err signals an empty or invalid
// lookup key.
func IsMissingIdentifier(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeMissingIdentifier
}

// kind labels are metric-safe ("source_tag"); messages use the spaced form.
func humanKind(kind string) string {
	return strings.ReplaceAll(kind, "_", " ")
}

func missingIdentifier(kind, what string) *Error {
	return &Error{
		Code:    ErrCodeMissingIdentifier,
		Message: fmt.Sprintf("no %s was provided for the %s lookup", what, humanKind(kind)),
	}
}

func notFoundByGUID(kind, guid string) *Error {
	return &Error{
		Code:    ErrCodeNotFoundByGUID,
		Key:     guid,
		Message: fmt.Sprintf("%s with GUID %s does not exist", humanKind(kind), guid),
	}
}

func notFoundByQualifiedName(kind, qualifiedName string) *Error {
	msg := fmt.Sprintf("%s with qualified name %s does not exist", humanKind(kind), qualifiedName)
	if connector := connectorFromQualifiedName(qualifiedName); connector != "" {
		msg = fmt.Sprintf("%s (connector %s)", msg, connector)
	}
	return &Error{
		Code:    ErrCodeNotFoundByQualifiedName,
		Key:     qualifiedName,
		Message: msg,
	}
}

func notFoundByName(kind, name string) *Error {
	return &Error{
		Code:    ErrCodeNotFoundByName,
		Key:     name,
		Message: fmt.Sprintf("%s with name %s does not exist", humanKind(kind), name),
	}
}

// connectorFromQualifiedName extracts the connector token from a
// "default/{connector}/..." qualified name, best effort, for message
// quality only.
func connectorFromQualifiedName(qualifiedName string) string {
	parts := strings.Split(qualifiedName, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
