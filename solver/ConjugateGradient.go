package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultCGIterations int     = 10
	DefaultCGTolerance  float64 = 1e-10
	DefaultCGEpsilon    float64 = 1e-8
)

// ConjugateGradient approximately solves A x = b for a symmetric
// positive definite A which is only available through products A v
type ConjugateGradient struct {
	// Iterations is the maximum number of iterations, at most one per
	// dimension of b is needed for an exact solution
	Iterations int `yaml:"iterations"`

	// Tolerance stops iteration once the squared residual norm falls
	// below it
	Tolerance float64 `yaml:"tolerance"`

	// Epsilon is added to the curvature pᵀAp before dividing by it
	Epsilon float64 `yaml:"epsilon"`
}

// NewConjugateGradient returns a ConjugateGradient solver with default
// settings
func NewConjugateGradient() ConjugateGradient {
	return ConjugateGradient{
		Iterations: DefaultCGIterations,
		Tolerance:  DefaultCGTolerance,
		Epsilon:    DefaultCGEpsilon,
	}
}

// Validate checks the solver settings for errors
func (c ConjugateGradient) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("validate: conjugate gradient needs at least one "+
			"iteration, have %v", c.Iterations)
	}
	if c.Tolerance < 0 || c.Epsilon < 0 {
		return fmt.Errorf("validate: conjugate gradient tolerance and "+
			"epsilon must be non-negative")
	}
	return nil
}

// Solve approximately solves A x = b starting from x = 0
func (c ConjugateGradient) Solve(A LinearOperator, b []float64) ([]float64,
	error) {
	x := make([]float64, len(b))
	r := append([]float64(nil), b...)
	p := append([]float64(nil), b...)
	rsOld := floats.Dot(r, r)
	if rsOld == 0 {
		return x, nil
	}

	for i := 0; i < c.Iterations; i++ {
		Ap, err := A(p)
		if err != nil {
			return nil, fmt.Errorf("solve: iteration %d: %v", i, err)
		}
		if len(Ap) != len(b) {
			return nil, fmt.Errorf("solve: operator returned vector of "+
				"length %v, want %v", len(Ap), len(b))
		}

		alpha := rsOld / (floats.Dot(p, Ap) + c.Epsilon)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)

		rsNew := floats.Dot(r, r)
		if rsNew < c.Tolerance || rsNew == 0 {
			break
		}

		// p = r + (rsNew / rsOld) p
		floats.AddScaledTo(p, r, rsNew/rsOld, p)
		rsOld = rsNew
	}

	return x, nil
}
