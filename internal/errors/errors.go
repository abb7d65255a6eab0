package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrMalformed     = errors.New("malformed data")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "palette", "color", "command"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError indicates a resource already exists.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ParseError indicates a persisted file exists but can't be decoded.
// It is never recovered from automatically.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// Helper constructors for common cases

func PaletteNotFound(key string) error {
	return &NotFoundError{Resource: "palette", ID: key}
}

func ColorNotFound(colorKey, paletteKey string) error {
	return &NotFoundError{Resource: "color", ID: fmt.Sprintf("%s (in palette %s)", colorKey, paletteKey)}
}

func CommandNotFound(name string) error {
	return &NotFoundError{Resource: "command", ID: name}
}

func PaletteNameTaken(name string) error {
	return &AlreadyExistsError{Resource: "palette", ID: name}
}

func CommandAlreadyExists(name string) error {
	return &AlreadyExistsError{Resource: "command", ID: name}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Malformed(path string, err error) error {
	return &ParseError{Path: path, Err: err}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already-exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMalformed checks if an error came from decoding a persisted file.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
