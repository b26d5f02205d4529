package keypad

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows         = errors.New("keypad: matrix has no rows")
	ErrNoColumns      = errors.New("keypad: matrix has no columns")
	ErrMatrixTooLarge = fmt.Errorf("keypad: matrix larger than %dx%d", MaxMatrixSize, MaxMatrixSize)
	ErrMatrixShape    = errors.New("keypad: label grid does not match pins")
	ErrEmptyLabel     = errors.New("keypad: empty key label")
	ErrInvalidLabel   = errors.New("keypad: key label is not valid UTF-8")
	ErrPinConflict    = errors.New("keypad: pin used more than once")
)

// ModeError reports an unknown input mode name.
type ModeError struct {
	Name string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("keypad: unknown input mode %q", e.Name)
}
