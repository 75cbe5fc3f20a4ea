package floatutils

import (
	"math"
	"testing"
)

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name   string
		logits []float64
	}{
		{"zeros", []float64{0, 0, 0}},
		{"single", []float64{3.2}},
		{"mixed", []float64{-1.5, 0.25, 7, 2}},
		{"large", []float64{1000, 999, -1000}},
		{"very negative", []float64{-1e300, -1e300}},
		{"huge spread", []float64{math.MaxFloat64 / 2, 0, -math.MaxFloat64 / 2}},
	}

	for _, test := range tests {
		probs := Softmax(test.logits)
		if len(probs) != len(test.logits) {
			t.Fatalf("%s: expected %d probabilities but got %d", test.name,
				len(test.logits), len(probs))
		}

		var sum float64
		for i, p := range probs {
			if p < 0 || p > 1 || math.IsNaN(p) {
				t.Errorf("%s: probability %d out of range: %v", test.name, i, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s: probabilities sum to %v", test.name, sum)
		}
	}
}

func TestSoftmaxOrdering(t *testing.T) {
	probs := Softmax([]float64{1, 2, 3})
	if !(probs[0] < probs[1] && probs[1] < probs[2]) {
		t.Errorf("softmax should preserve logit ordering: %v", probs)
	}

	expected := math.Exp(1) / (math.Exp(1) + math.Exp(2) + math.Exp(3))
	if math.Abs(probs[0]-expected) > 1e-12 {
		t.Errorf("expected %v but got %v", expected, probs[0])
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0.8, 1.2, 0.8},
		{1.0, 0.8, 1.2, 1.0},
		{3.0, 0.8, 1.2, 1.2},
	}
	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.want {
			t.Errorf("Clip(%v, %v, %v) = %v, want %v", test.value, test.min,
				test.max, got, test.want)
		}
	}

	if got := Clip(float32(2), 0, 1); got != 1 {
		t.Errorf("float32 clip: want 1, have %v", got)
	}
}
