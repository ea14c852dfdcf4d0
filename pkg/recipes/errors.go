package recipes

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrMenuEntryNotFound = errors.New("menu entry not found")
	// ErrDecode marks payloads that do not match the target entity shape.
	ErrDecode = errors.New("payload does not match entity shape")
)

// StoreError is a failed write against the local store: a constraint
// violation or an I/O failure. Nothing from the failed call is visible.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Constraint reports whether the write was rejected by a schema constraint
// (unique, foreign key, check).
func (e *StoreError) Constraint() bool {
	var sqliteErr sqlite3.Error
	return errors.As(e.Err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) || errors.Is(err, ErrDecode) || errors.Is(err, ErrRecipeNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func decodeError(kind string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, kind, err)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Names are stored trimmed, so whitespace-only is as good as empty.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the invariants a recipe must satisfy before it is stored.
func Validate(r Recipe) error {
	if err := validate.Struct(r); err != nil {
		return decodeError("recipe", err)
	}
	return nil
}
