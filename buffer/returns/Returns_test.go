package returns

import (
	"math"
	"testing"

	"github.com/samuelfneumann/linearpg/buffer/trajectory"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func newTrajectory(t *testing.T, rewards, values []float64) *trajectory.Trajectory {
	traj := trajectory.New(1)
	for i, r := range rewards {
		err := traj.Append(mat.NewVecDense(1, []float64{float64(i)}), 0, r,
			values[i], 0, []float64{1})
		if err != nil {
			t.Fatal(err)
		}
	}
	return traj
}

func TestDiscountCumSum(t *testing.T) {
	tests := []struct {
		x        []float64
		discount float64
		want     []float64
	}{
		{[]float64{1, 1, 1}, 0.99, []float64{2.9701, 1.99, 1.0}},
		{[]float64{1, 2, 3}, 0, []float64{1, 2, 3}},
		{[]float64{1, 2, 3}, 1, []float64{6, 5, 3}},
		{[]float64{}, 0.5, []float64{}},
	}

	for _, test := range tests {
		got := DiscountCumSum(test.x, test.discount)
		if !floats.EqualApprox(got, test.want, 1e-12) {
			t.Errorf("DiscountCumSum(%v, %v) = %v, want %v", test.x,
				test.discount, got, test.want)
		}
	}
}

func TestMonteCarlo(t *testing.T) {
	traj := newTrajectory(t, []float64{1, 1, 1}, []float64{0.5, 0, 2})
	if err := MonteCarlo(traj, 0.99); err != nil {
		t.Fatal(err)
	}

	wantRet := []float64{2.9701, 1.99, 1.0}
	wantAdv := []float64{2.4701, 1.99, -1.0}
	for i := 0; i < traj.Len(); i++ {
		tr := traj.At(i)
		if math.Abs(tr.Return-wantRet[i]) > 1e-12 {
			t.Errorf("return %d: want %v, have %v", i, wantRet[i], tr.Return)
		}
		if math.Abs(tr.Advantage-wantAdv[i]) > 1e-12 {
			t.Errorf("advantage %d: want %v, have %v", i, wantAdv[i],
				tr.Advantage)
		}
	}
}

func TestMonteCarloDiscount(t *testing.T) {
	for _, gamma := range []float64{-0.1, 1.01} {
		traj := newTrajectory(t, []float64{1}, []float64{0})
		if err := MonteCarlo(traj, gamma); err == nil {
			t.Errorf("expected error for discount %v", gamma)
		}
	}
}

func TestNormalizeAdvantages(t *testing.T) {
	traj := newTrajectory(t, []float64{3, -1, 4, 1, 5}, make([]float64, 5))
	if err := MonteCarlo(traj, 0.9); err != nil {
		t.Fatal(err)
	}
	NormalizeAdvantages(traj)

	adv := make([]float64, traj.Len())
	for i := range adv {
		adv[i] = traj.At(i).Advantage
	}
	mean, std := stat.MeanStdDev(adv, nil)
	if math.Abs(mean) > 1e-9 || math.Abs(std-1) > 1e-6 {
		t.Errorf("want mean 0 and std 1, have %v and %v", mean, std)
	}

	single := newTrajectory(t, []float64{2}, []float64{0})
	if err := MonteCarlo(single, 0.9); err != nil {
		t.Fatal(err)
	}
	NormalizeAdvantages(single)
	if a := single.At(0).Advantage; math.IsNaN(a) || math.Abs(a) > 1e-9 {
		t.Errorf("single advantage should be centred, have %v", a)
	}
}
