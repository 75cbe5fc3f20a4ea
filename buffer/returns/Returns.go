// Package returns implements return and advantage estimation over
// completed trajectories
package returns

import (
	"fmt"

	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"gonum.org/v1/gonum/stat"
)

// StdEpsilon is added to the standard deviation of advantages before
// normalizing them
const StdEpsilon float64 = 1e-8

// MonteCarlo computes the discounted Monte-Carlo return of each
// transition in a completed trajectory, starting from a return of 0
// after the last transition:
//
//	G_t = r_t + ℽ G_{t+1}
//
// The Return field of each transition is set to G_t and the Advantage
// field to G_t - V(s_t), using the value recorded in the transition.
func MonteCarlo(t *trajectory.Trajectory, gamma float64) error {
	if gamma < 0 || gamma > 1 {
		return fmt.Errorf("monteCarlo: discount must be in [0, 1], have %v",
			gamma)
	}

	rets := DiscountCumSum(t.Rewards(), gamma)
	for i, g := range rets {
		tr := t.At(i)
		tr.Return = g
		tr.Advantage = g - tr.Value
	}
	return nil
}

// DiscountCumSum computes and returns the discounted cumulative sum
// of all elements of a slice. Given x = [x0 x1 x2 ... xN] and discount
// ℽ, this function computes and returns:
//
//	[
//	 x0 + ℽ x1 + ℽ^2 x2 + ... + ℽ^N xN
//	 x1 + ℽ x2 + ... + ℽ^(N-1) xN
//	 ...
//	 xN
//	]
func DiscountCumSum(x []float64, discount float64) []float64 {
	cumSums := make([]float64, len(x))

	var g float64
	for i := len(x) - 1; i >= 0; i-- {
		g = x[i] + discount*g
		cumSums[i] = g
	}
	return cumSums
}

// NormalizeAdvantages standardizes the advantages of a trajectory to
// have mean 0 and standard deviation 1. Trajectories with fewer than
// two transitions are centred only.
func NormalizeAdvantages(t *trajectory.Trajectory) {
	if t.Len() == 0 {
		return
	}

	adv := make([]float64, t.Len())
	for i := range adv {
		adv[i] = t.At(i).Advantage
	}

	mean, std := stat.MeanStdDev(adv, nil)
	if t.Len() < 2 {
		std = 1
	}
	std += StdEpsilon

	for i := range adv {
		t.At(i).Advantage = (adv[i] - mean) / std
	}
}
