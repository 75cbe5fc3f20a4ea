// Package solver implements the numerical solvers used by trust region
// policy updates: a conjugate gradient solver for linear systems
// given only matrix-vector products, and a backtracking line search.
package solver

// LinearOperator computes the product A x of some implicit matrix A
// with a vector x. The returned slice must not alias x.
type LinearOperator func(x []float64) ([]float64, error)
