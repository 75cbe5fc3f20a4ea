// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// CheckLen returns an error if a vector does not have the expected
// length. The op argument names the calling operation and prefixes
// the error message.
func CheckLen(op string, v mat.Vector, want int) error {
	if v == nil {
		return fmt.Errorf("%v: nil state vector", op)
	}
	if v.Len() != want {
		return fmt.Errorf("%v: illegal state length \n\twant(%v)\n\thave(%v)",
			op, want, v.Len())
	}
	return nil
}
