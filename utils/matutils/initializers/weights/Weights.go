// Package weights defines interfaces for weight initializations
package weights

import "gonum.org/v1/gonum/mat"

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.Dense) // initializes weights
}

// InitializeVec initializes the weights of a vector by viewing its
// backing data as a single row matrix
func InitializeVec(init Initializer, weights *mat.VecDense) {
	if weights == nil || weights.Len() == 0 {
		return
	}
	raw := weights.RawVector()
	if raw.Inc != 1 {
		// Strided vectors cannot be viewed as a row, so go through a copy
		row := mat.NewDense(1, weights.Len(), nil)
		init.Initialize(row)
		weights.CopyVec(row.RowView(0))
		return
	}

	row := mat.NewDense(1, weights.Len(), raw.Data[:weights.Len()])
	init.Initialize(row)
}
