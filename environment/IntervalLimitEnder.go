package environment

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a feature vector leaves some interval
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
}

// NewIntervalLimit creates and returns a new inteval limit. Feature
// obsIndices[i] must stay within limits[i] (inclusive).
func NewIntervalLimit(limits []r1.Interval, obsIndices []int) *IntervalLimit {
	if len(limits) != len(obsIndices) {
		panic("limits should have same length as observation indices")
	}

	return &IntervalLimit{limits, obsIndices}
}

// End determines whether or not the current episode should be ended,
// returning true if any tracked feature has left its interval
func (i *IntervalLimit) End(obs *mat.VecDense, _ int) bool {
	for index := range i.indices {
		featureIndex := i.indices[index]
		interval := i.intervals[index]

		if obs.AtVec(featureIndex) > interval.Max ||
			obs.AtVec(featureIndex) < interval.Min {
			return true
		}
	}
	return false
}
