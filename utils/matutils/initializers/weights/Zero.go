package weights

import "gonum.org/v1/gonum/mat"

// ZeroUV implements the distuv.Rander interface so that zero
// initialization can be accomplished thorugh the weight initialization
// structs which take a distuv.Rander argument
type ZeroUV struct{}

// NewZeroUV returns a new ZeroUV
func NewZeroUV() ZeroUV {
	return ZeroUV{}
}

// Rand draws a random number from the interval [0, 0]
func (z ZeroUV) Rand() float64 {
	return 0.0
}

// NewZero returns an Initializer which sets all weights to 0
func NewZero() Initializer {
	return NewLinearUV(NewZeroUV())
}

// Constant initializes all weights to a single value
type Constant float64

// Initialize sets every weight to the constant value
func (c Constant) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}
	r, cols := weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			weights.Set(i, j, float64(c))
		}
	}
}
