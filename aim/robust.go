package aim

import "github.com/cpmech/optigo/field"

// RobustPupilExpansion solves the iterative residual at progressively
// larger pupil fractions, feeding each solution forward as the next
// step's warm start — a continuation method for strongly aberrated
// systems whose full-pupil residual surface has narrow convergence
// basins, grounded on robust.py.
type RobustPupilExpansion struct {
	Iterative *Iterative
	Fractions []float64
}

// NewRobustPupilExpansion builds a RobustPupilExpansion wrapping it,
// defaulting to robust.py's [0.1, 0.5, 1.0] fraction schedule.
func NewRobustPupilExpansion(it *Iterative) *RobustPupilExpansion {
	return &RobustPupilExpansion{Iterative: it, Fractions: []float64{0.1, 0.5, 1.0}}
}

func (*RobustPupilExpansion) Kind() string { return "robust_pupil_expansion" }

func (r *RobustPupilExpansion) AimRay(sys System, def field.Definition, req Request, guess *Result) (Result, error) {
	fractions := r.Fractions
	if len(fractions) == 0 {
		fractions = []float64{0.1, 0.5, 1.0}
	}
	current := guess
	var result Result
	var err error
	for _, f := range fractions {
		step := req
		step.Px *= f
		step.Py *= f
		result, err = r.Iterative.AimRay(sys, def, step, current)
		if err != nil {
			return Result{}, err
		}
		current = &result
	}
	return result, nil
}
