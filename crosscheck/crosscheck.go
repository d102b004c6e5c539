// Package crosscheck solves one problem with every available method and
// reports whether the optimal values agree.
package crosscheck

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"q.log/lpsolve/interior"
	"q.log/lpsolve/model"
	"q.log/lpsolve/simplex"
)

const (
	MethodSimplex   = "simplex"
	MethodInterior  = "interior"
	MethodReference = "reference"
)

// Options configures Compare. Zero values select the solver defaults.
type Options struct {
	Accuracy      float64
	Alphas        []float64
	MaxIterations int
	// Tolerance is the relative gap allowed between optimal values.
	Tolerance float64
	Logger    model.Logger
}

// Outcome is the result of one method. Exactly one of Solution and Err is
// set.
type Outcome struct {
	Method   string
	Alpha    float64
	Solution *model.Solution
	Err      error
}

func (o Outcome) String() string {
	name := o.Method
	if o.Method == MethodInterior {
		name = fmt.Sprintf("%s (alpha = %g)", o.Method, o.Alpha)
	}
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", name, o.Err)
	}
	return fmt.Sprintf("%s: z = %g after %d iterations", name, o.Solution.Value, o.Solution.Iterations)
}

type Report struct {
	Outcomes []Outcome
	// Agree is true when at least two methods succeeded and all successful
	// values lie within the tolerance of each other.
	Agree bool
}

// Compare runs the tableau simplex, the affine scaling method once per
// alpha, and gonum's simplex as a reference. x0 is the interior starting
// point over the decision and slack variables; when nil one is derived
// with StartingPoint. The methods run concurrently and failures are
// reported per method, never as the returned error.
func Compare(p *model.Problem, x0 []float64, opts Options) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Accuracy == 0 {
		opts.Accuracy = simplex.DefaultAccuracy
	}
	if len(opts.Alphas) == 0 {
		opts.Alphas = []float64{0.5, 0.9}
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = 1e-4
	}
	if opts.Logger == nil {
		opts.Logger = model.NopLogger()
	}

	outcomes := make([]Outcome, 2+len(opts.Alphas))
	var g errgroup.Group

	g.Go(func() error {
		sopts := []simplex.Option{
			simplex.WithAccuracy(opts.Accuracy),
			simplex.WithLogger(opts.Logger),
		}
		if opts.MaxIterations > 0 {
			sopts = append(sopts, simplex.WithMaxIterations(opts.MaxIterations))
		}
		sol, err := simplex.Solve(p, sopts...)
		outcomes[0] = Outcome{Method: MethodSimplex, Solution: sol, Err: err}
		return nil
	})

	g.Go(func() error {
		sol, err := Reference(p)
		outcomes[1] = Outcome{Method: MethodReference, Solution: sol, Err: err}
		return nil
	})

	slack := p.WithSlack()
	start := x0
	var startErr error
	if start == nil {
		start, startErr = StartingPoint(p)
	}
	for i, alpha := range opts.Alphas {
		i, alpha := i, alpha
		g.Go(func() error {
			out := Outcome{Method: MethodInterior, Alpha: alpha, Err: startErr}
			if startErr == nil {
				iopts := []interior.Option{
					interior.WithAccuracy(opts.Accuracy),
					interior.WithAlpha(alpha),
					interior.WithLogger(opts.Logger),
				}
				if opts.MaxIterations > 0 {
					iopts = append(iopts, interior.WithMaxIterations(opts.MaxIterations))
				}
				out.Solution, out.Err = interior.Solve(slack, start, iopts...)
			}
			outcomes[2+i] = out
			return nil
		})
	}
	_ = g.Wait()

	return &Report{
		Outcomes: outcomes,
		Agree:    agree(outcomes, opts.Tolerance),
	}, nil
}

func agree(outcomes []Outcome, tol float64) bool {
	var values []float64
	for _, o := range outcomes {
		if o.Err == nil {
			values = append(values, o.Solution.Value)
		}
	}
	if len(values) < 2 {
		return false
	}
	lo, hi := floats.Min(values), floats.Max(values)
	return hi-lo <= tol*math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
}

// Reference solves p with gonum's simplex on the equality form [A I] x = b.
// The returned solution covers the decision variables only.
func Reference(p *model.Problem) (*model.Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.NumRows == 0 {
		return nil, errors.Wrap(model.ErrDimensionMismatch, "no constraints")
	}
	q := p.WithSlack()

	// gonum minimizes.
	c := q.Costs()
	if p.Direction == model.Maximize {
		floats.Scale(-1, c)
	}
	b := q.RHS()

	var basic []int
	if floats.Min(b) >= 0 {
		basic = make([]int, p.NumRows)
		for i := range basic {
			basic[i] = p.NumCols + i
		}
	}

	z, x, err := lp.Simplex(c, q.A, b, 0, basic)
	switch {
	case errors.Is(err, lp.ErrUnbounded):
		return nil, errors.Wrap(model.ErrUnbounded, "reference")
	case errors.Is(err, lp.ErrInfeasible):
		return nil, errors.Wrap(model.ErrInfeasibleStart, "reference: no feasible point")
	case err != nil:
		return nil, errors.Wrap(model.ErrNumericalFailure, err.Error())
	}
	if p.Direction == model.Maximize {
		z = -z
	}
	return &model.Solution{X: x[:p.NumCols], Value: z}, nil
}

// StartingPoint returns a strictly positive point over the decision and
// slack variables of p that satisfies [A I] x = b: every decision variable
// takes the same value t, halved until every slack is positive.
func StartingPoint(p *model.Problem) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.NumRows == 0 {
		return nil, errors.Wrap(model.ErrDimensionMismatch, "no constraints")
	}
	x := mat.NewVecDense(p.NumCols, nil)
	var ax mat.VecDense
	b := p.RHS()

	t := 1.0
	for attempt := 0; attempt < 64; attempt++ {
		for j := 0; j < p.NumCols; j++ {
			x.SetVec(j, t)
		}
		ax.Reset()
		ax.MulVec(p.A, x)

		start := make([]float64, p.NumCols+p.NumRows)
		copy(start, x.RawVector().Data)
		ok := true
		for i, bi := range b {
			s := bi - ax.AtVec(i)
			if s <= 0 {
				ok = false
				break
			}
			start[p.NumCols+i] = s
		}
		if ok {
			return start, nil
		}
		t /= 2
	}
	return nil, errors.Wrap(model.ErrInvalidStart, "no strictly interior point found")
}
