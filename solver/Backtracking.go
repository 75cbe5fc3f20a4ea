package solver

import "fmt"

const (
	DefaultLineSearchSteps int     = 10
	DefaultLineSearchDecay float64 = 0.5
)

// Backtracking implements a backtracking line search over the fraction
// of a full step. The fraction starts at 1 and is multiplied by Decay
// after every rejected trial.
type Backtracking struct {
	MaxSteps int     `yaml:"steps"`
	Decay    float64 `yaml:"decay"`
}

// NewBacktracking returns a Backtracking line search with default
// settings
func NewBacktracking() Backtracking {
	return Backtracking{
		MaxSteps: DefaultLineSearchSteps,
		Decay:    DefaultLineSearchDecay,
	}
}

// Validate checks the line search settings for errors
func (b Backtracking) Validate() error {
	if b.MaxSteps < 1 {
		return fmt.Errorf("validate: line search needs at least one step, "+
			"have %v", b.MaxSteps)
	}
	if b.Decay <= 0 || b.Decay >= 1 {
		return fmt.Errorf("validate: line search decay must be in (0, 1), "+
			"have %v", b.Decay)
	}
	return nil
}

// Search calls accept with decreasing step fractions until it returns
// true or MaxSteps trials are used up. The accepted fraction is
// returned along with whether any fraction was accepted. If none was,
// the last fraction tried is returned.
func (b Backtracking) Search(accept func(frac float64) (bool, error)) (float64,
	bool, error) {
	frac := 1.0
	for i := 0; i < b.MaxSteps; i++ {
		ok, err := accept(frac)
		if err != nil {
			return frac, false, fmt.Errorf("search: %v", err)
		}
		if ok {
			return frac, true, nil
		}
		if i < b.MaxSteps-1 {
			frac *= b.Decay
		}
	}
	return frac, false, nil
}
