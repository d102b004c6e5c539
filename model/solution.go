package model

type Variable struct {
	Value   float64
	IsBasic bool
	IsSlack bool
}

// Solution is the result of a successful solve.
type Solution struct {
	//X values of the decision variables
	X []float64

	//Value objective function value in the problem's own direction
	Value float64

	Iterations int

	//Variables basis status of decision and slack variables, when the
	//solver tracks one
	Variables []Variable
}

// Basic returns the indexes of the basic variables, decision variables
// first and slack variables after them.
func (s *Solution) Basic() []int {
	var idx []int
	for i, v := range s.Variables {
		if v.IsBasic {
			idx = append(idx, i)
		}
	}
	return idx
}
