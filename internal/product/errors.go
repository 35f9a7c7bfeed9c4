package product

// errors.go defines the row-level error kinds raised while importing a product
// row, and maps any error to a coded message for failed-row reports and API
// responses.
//
// Row errors (InvalidVisibilityError, DateParseError, NumericParseError,
// MissingSKUError, OptionNotFoundError, UnknownAttributeSetError) abort the
// current row only. Everything
// else aborts the bunch, including UnknownCallbackError since it points at a
// broken configuration rather than bad data.
//
// Codes:
//
//	IMP001 - invalid visibility label
//	IMP002 - datetime value does not match the source date format
//	IMP003 - numeric value cannot be parsed
//	IMP004 - row has no SKU
//	IMP005 - callback id is not registered
//	IMP006 - select option label not found for the store
//	IMP007 - attribute set does not exist
//	DB001-DB005 - database errors, matched on the driver message
//	ERR000 - anything else

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by store loads when no row matches.
var ErrNotFound = errors.New("record not found")

// InvalidVisibilityError is raised for a visibility label outside the four known ones.
type InvalidVisibilityError struct {
	Value    string
	Filename string
	Line     int
}

func (e *InvalidVisibilityError) Error() string {
	return fmt.Sprintf("found invalid visibility %s in file %s on line %d", e.Value, e.Filename, e.Line)
}

// DateParseError is raised when a datetime value does not match the source date format.
type DateParseError struct {
	Value  string
	Format string
	Err    error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q for source format %q", e.Value, e.Format)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// NumericParseError is raised in strict mode for a non-numeric int/float value.
type NumericParseError struct {
	Value string
	Type  BackendType
	Err   error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("invalid number %q for type %s", e.Value, e.Type)
}

func (e *NumericParseError) Unwrap() error { return e.Err }

// MissingSKUError is raised for a row without a SKU.
type MissingSKUError struct {
	Line int
}

func (e *MissingSKUError) Error() string {
	return fmt.Sprintf("missing sku on line %d", e.Line)
}

// UnknownCallbackError is raised when a callback id has no registered implementation.
type UnknownCallbackError struct {
	ID            string
	AttributeCode string
}

func (e *UnknownCallbackError) Error() string {
	return fmt.Sprintf("unknown callback %q for attribute %s", e.ID, e.AttributeCode)
}

// OptionNotFoundError is raised when a select label has no option value in the store.
type OptionNotFoundError struct {
	AttributeCode string
	Value         string
	StoreID       int64
}

func (e *OptionNotFoundError) Error() string {
	return fmt.Sprintf("option %q of attribute %s not found for store %d", e.Value, e.AttributeCode, e.StoreID)
}

// UnknownAttributeSetError is raised when a row names an attribute set that does not exist.
type UnknownAttributeSetError struct {
	Name string
}

func (e *UnknownAttributeSetError) Error() string {
	return fmt.Sprintf("attribute set %q not found", e.Name)
}

// IsRowError reports whether err should fail only the current row.
func IsRowError(err error) bool {
	var (
		visErr  *InvalidVisibilityError
		dateErr *DateParseError
		numErr  *NumericParseError
		skuErr  *MissingSKUError
		optErr  *OptionNotFoundError
		setErr  *UnknownAttributeSetError
	)
	return errors.As(err, &visErr) ||
		errors.As(err, &dateErr) ||
		errors.As(err, &numErr) ||
		errors.As(err, &skuErr) ||
		errors.As(err, &optErr) ||
		errors.As(err, &setErr)
}

// UserMessage is a coded, user-facing description of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var dbErrorPatterns = []errorPattern{
	{
		pattern: "duplicate",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Check the file for repeated SKUs or relations",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Ensure categories, websites and attribute sets exist before importing",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Import a smaller file or try again later",
			Code:    "DB004",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the application log for details",
	Code:    "ERR000",
}

// MapError converts err to a coded message. Typed row errors are matched
// first, then database driver messages (case-insensitive).
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		visErr  *InvalidVisibilityError
		dateErr *DateParseError
		numErr  *NumericParseError
		skuErr  *MissingSKUError
		cbErr   *UnknownCallbackError
		optErr  *OptionNotFoundError
		setErr  *UnknownAttributeSetError
	)
	switch {
	case errors.As(err, &visErr):
		return UserMessage{
			Message: fmt.Sprintf("Invalid visibility %q", visErr.Value),
			Action:  `Use one of: "Not Visible Individually", "Catalog", "Search", "Catalog, Search"`,
			Code:    "IMP001",
		}
	case errors.As(err, &dateErr):
		return UserMessage{
			Message: fmt.Sprintf("Invalid date %q", dateErr.Value),
			Action:  fmt.Sprintf("Dates must match the source format %q", dateErr.Format),
			Code:    "IMP002",
		}
	case errors.As(err, &numErr):
		return UserMessage{
			Message: fmt.Sprintf("Invalid number %q", numErr.Value),
			Action:  "Use plain decimal notation without currency symbols",
			Code:    "IMP003",
		}
	case errors.As(err, &skuErr):
		return UserMessage{
			Message: "Row has no SKU",
			Action:  "Every product row needs a value in the sku column",
			Code:    "IMP004",
		}
	case errors.As(err, &cbErr):
		return UserMessage{
			Message: fmt.Sprintf("Unknown callback %q", cbErr.ID),
			Action:  "Fix the callback configuration file",
			Code:    "IMP005",
		}
	case errors.As(err, &optErr):
		return UserMessage{
			Message: fmt.Sprintf("Option %q not found for %s", optErr.Value, optErr.AttributeCode),
			Action:  "Create the option in the catalog before importing",
			Code:    "IMP006",
		}
	case errors.As(err, &setErr):
		return UserMessage{
			Message: fmt.Sprintf("Attribute set %q does not exist", setErr.Name),
			Action:  "Use an existing attribute set in the attribute_set_code column",
			Code:    "IMP007",
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range dbErrorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
