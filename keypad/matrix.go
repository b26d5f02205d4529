package keypad

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxMatrixSize bounds both dimensions of a matrix.
const MaxMatrixSize = 5

// Matrix describes the wiring and labels of a keypad. Labels[i][j] is the key between
// Rows[i] and Cols[j]; a label lists the characters the key cycles through.
type Matrix struct {
	Labels [][]string
	Rows   []Pin
	Cols   []Pin
	Pull   PullMode
}

// Validate reports the first problem that would make the matrix unusable.
func (m Matrix) Validate() error {
	switch {
	case len(m.Rows) == 0:
		return ErrNoRows
	case len(m.Cols) == 0:
		return ErrNoColumns
	case len(m.Rows) > MaxMatrixSize || len(m.Cols) > MaxMatrixSize:
		return fmt.Errorf("%w: got %dx%d", ErrMatrixTooLarge, len(m.Rows), len(m.Cols))
	case len(m.Labels) != len(m.Rows):
		return fmt.Errorf("%w: %d label rows for %d row pins", ErrMatrixShape, len(m.Labels), len(m.Rows))
	}

	for i, row := range m.Labels {
		if len(row) != len(m.Cols) {
			return fmt.Errorf("%w: row %d has %d labels for %d column pins", ErrMatrixShape, i, len(row), len(m.Cols))
		}
		for j, label := range row {
			if label == "" {
				return fmt.Errorf("row %d col %d: %w", i, j, ErrEmptyLabel)
			}
			if !utf8.ValidString(label) {
				return fmt.Errorf("row %d col %d: %w", i, j, ErrInvalidLabel)
			}
		}
	}

	seen := make(map[Pin]bool, len(m.Rows)+len(m.Cols))
	for _, p := range append(append([]Pin(nil), m.Rows...), m.Cols...) {
		if seen[p] {
			return fmt.Errorf("%w: pin %d", ErrPinConflict, p)
		}
		seen[p] = true
	}
	return nil
}

// label converts a key label to the rune sequence it cycles through.
func label(s string) []rune {
	return []rune(norm.NFC.String(s))
}

// FactoryMatrix is the 4x3 phone layout used when Scan runs before Setup.
func FactoryMatrix() Matrix {
	return Matrix{
		Labels: [][]string{
			{"1.,?!'\"-()@/:_", "2ABCabc", "3DEFdef"},
			{"4GHIghiİ", "5JKLjkl", "6MNOmnoÖö"},
			{"7PQRSpqrsŞş", "8TUVtuvÜü", "9WXYZwxyz"},
			{"*", "0 +", "#"},
		},
		Rows: []Pin{2, 3, 4, 5},
		Cols: []Pin{6, 7, 8},
		Pull: PullUp,
	}
}
