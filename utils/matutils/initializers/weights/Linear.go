package weights

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearUV initializes a single linear layer of weights, drawn from
// a univariate distribution
type LinearUV struct {
	distuv.Rander
}

// NewLinearUV  creates and returns a new LinearUV
func NewLinearUV(rand distuv.Rander) LinearUV {
	if rand == nil {
		panic("rand cannot be nil")
	}
	return LinearUV{rand}
}

// NewUniform returns a LinearUV which draws weights uniformly from
// [-scale/2, scale/2], using a source seeded with seed
func NewUniform(scale float64, seed uint64) LinearUV {
	u := distuv.Uniform{
		Min: -scale / 2,
		Max: scale / 2,
		Src: rand.NewSource(seed),
	}
	return NewLinearUV(u)
}

// Initialize initializes a matrix of weights using values drawn from
// a univariate distribution
func (l LinearUV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	r, c := weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			weights.Set(i, j, l.Rand())
		}
	}
}
