package simplex

import (
	"github.com/pkg/errors"
	"q.log/lpsolve/model"
)

// Solve solves p by the tableau simplex method, starting from the slack
// basis. Every right-hand side must be non-negative.
//
// Entering columns are chosen by lowest index. Ties in the ratio test go to
// the first row found, which is not the full Bland rule, so cycling is
// possible on some degenerate problems; the pivot limit guards against it.
func Solve(p *model.Problem, opts ...Option) (*model.Solution, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.accuracy < 0 {
		return nil, errors.Wrapf(model.ErrInvalidParameter, "accuracy %v", cfg.accuracy)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := p.RHS()
	for i, rhs := range b {
		if rhs < -cfg.accuracy {
			return nil, errors.Wrapf(model.ErrInfeasibleStart, "constraint %d has rhs %v", i+1, rhs)
		}
	}

	costs := p.Costs()
	if p.Direction == model.Minimize {
		for j := range costs {
			costs[j] = -costs[j]
		}
	}

	tb := newTableau(costs, p.A, b, cfg.accuracy)

	iter, err := tb.run(cfg)
	if err != nil {
		return nil, err
	}

	vars := tb.extract()
	sol := &model.Solution{
		X:          make([]float64, p.NumCols),
		Value:      tb.value(),
		Iterations: iter,
		Variables:  vars,
	}
	for j := range sol.X {
		sol.X[j] = vars[j].Value
	}
	if p.Direction == model.Minimize {
		sol.Value = -sol.Value
	}
	return sol, nil
}

// run pivots until the objective row has no negative entry and returns
// the number of pivots made.
func (tb *tableau) run(cfg *config) (int, error) {
	iter := 0
	for {
		col := tb.pivotColumn()
		if col == -1 {
			return iter, nil
		}
		if cfg.maxIter > 0 && iter >= cfg.maxIter {
			return iter, errors.Wrapf(model.ErrIterationLimit, "after %d pivots", iter)
		}

		row := tb.pivotRow(col)
		if row == -1 {
			return iter, errors.Wrapf(model.ErrUnbounded, "column %d has no positive entry", col+1)
		}

		tb.pivot(row, col)
		iter++
		cfg.logger.Print("simplex: pivot ", iter, ": column ", col+1, " enters at row ", row+1, ", z = ", tb.value())
	}
}

// SolveSlices maximizes c'x subject to Ax <= b, x >= 0, with the constraint
// matrix given row by row.
func SolveSlices(c []float64, a [][]float64, b []float64, accuracy float64) ([]float64, float64, error) {
	p, err := model.FromSlices(c, a, b)
	if err != nil {
		return nil, 0, err
	}
	sol, err := Solve(p, WithAccuracy(accuracy))
	if err != nil {
		return nil, 0, err
	}
	return sol.X, sol.Value, nil
}
