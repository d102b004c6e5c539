package interior

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsolve/model"
)

// Solve optimizes p by the affine scaling method starting from the strictly
// positive point x0.
//
// p.A is expected in equality form, usually with the zero-cost slack
// columns added by Problem.WithSlack. x0 must have one entry per column of
// p.A and satisfy A x0 = b within the feasibility tolerance.
//
// Iteration stops when a step is shorter than accuracy·max(1, ‖x‖), or when
// rounding would push the next iterate off A x = b, in which case the last
// feasible iterate is returned. The returned solution holds every column of
// A and the objective value c'x in the problem's direction.
func Solve(p *model.Problem, x0 []float64, opts ...Option) (*model.Solution, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.accuracy <= 0 {
		return nil, errors.Wrapf(model.ErrInvalidParameter, "accuracy %v must be positive", cfg.accuracy)
	}
	if cfg.alpha <= 0 || cfg.alpha >= 1 {
		return nil, errors.Wrapf(model.ErrInvalidParameter, "alpha %v must lie in (0, 1)", cfg.alpha)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.NumRows == 0 {
		return nil, errors.Wrap(model.ErrDimensionMismatch, "no constraints")
	}

	m, n := p.A.Dims()
	if len(x0) != n {
		return nil, errors.Wrapf(model.ErrDimensionMismatch, "initial point has %d entries, want %d", len(x0), n)
	}
	for i, v := range x0 {
		if !(v > 0) || math.IsInf(v, 1) {
			return nil, errors.Wrapf(model.ErrInvalidStart, "x%d = %v", i+1, v)
		}
	}

	b := p.RHS()
	feasTol := math.Max(cfg.accuracy, feasibilityFloor) * math.Max(1, floats.Norm(b, 2))
	r := make([]float64, m)
	if res := residual(p.A, x0, b, r); !(res <= feasTol) {
		return nil, errors.Wrapf(model.ErrInvalidStart, "|A x0 - b| = %g exceeds %g", res, feasTol)
	}

	c := p.Costs()
	dir := append([]float64(nil), c...)
	if p.Direction == model.Minimize {
		floats.Scale(-1, dir)
	}
	anorm := mat.Norm(p.A, 2)

	x := append([]float64(nil), x0...)
	xt := make([]float64, n)
	ct := make([]float64, n)
	step := make([]float64, n)
	cp := make([]float64, n)

	var (
		at, aat, tmp, proj mat.Dense
		pc, w, corr        mat.VecDense
	)

	iter := 0
	for {
		if cfg.maxIter > 0 && iter >= cfg.maxIter {
			return nil, errors.Wrapf(model.ErrNotConverged, "after %d iterations", iter)
		}
		pass := iter + 1

		// D = diag(x), Ã = A·D, c̃ = D·c
		d := mat.NewDiagDense(n, append([]float64(nil), x...))
		at.Reset()
		at.Mul(p.A, d)
		floats.MulTo(ct, x, dir)

		// P = I - Ãᵀ(ÃÃᵀ)⁺Ã, c_p = P·c̃
		aat.Reset()
		aat.Mul(&at, at.T())
		inv, err := pinv(&aat)
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d", pass)
		}
		tmp.Reset()
		tmp.Mul(at.T(), inv)
		proj.Reset()
		proj.Mul(&tmp, &at)
		pc.Reset()
		pc.MulVec(&proj, mat.NewVecDense(n, ct))
		floats.SubTo(cp, ct, pc.RawVector().Data)
		if !finite(cp) {
			return nil, errors.Wrapf(model.ErrNumericalFailure, "iteration %d: non-finite projected cost", pass)
		}

		v := math.Max(0, -floats.Min(cp))
		if v == 0 && floats.Norm(cp, 2) <= cfg.accuracy {
			cfg.logger.Print("interior: iteration ", pass, ": projected cost vanished")
			break
		}
		if isRay(p.A, anorm, x, cp, dir) {
			return nil, errors.Wrapf(model.ErrUnbounded, "iteration %d: projected direction is a non-negative ray", pass)
		}
		if v == 0 {
			// c_p >= 0 yet A·D·c_p is not zero: the projection lost accuracy.
			return nil, errors.Wrapf(model.ErrNumericalFailure, "iteration %d: projected direction has no negative component", pass)
		}

		// x̃ = D·(1 + (α/v)·c_p) + D·Ãᵀ(ÃÃᵀ)⁺(b - A x)
		residual(p.A, x, b, r)
		w.Reset()
		w.MulVec(inv, mat.NewVecDense(m, r))
		corr.Reset()
		corr.MulVec(at.T(), &w)
		k := cfg.alpha / v
		for i := range xt {
			xt[i] = x[i]*(1+k*cp[i]) + x[i]*corr.AtVec(i)
		}
		if !finite(xt) {
			return nil, errors.Wrapf(model.ErrNumericalFailure, "iteration %d: non-finite iterate", pass)
		}
		if floats.Min(xt) <= 0 {
			cfg.logger.Print("interior: iteration ", pass, ": step leaves the positive orthant, keeping the last iterate")
			break
		}
		if res := residual(p.A, xt, b, r); !(res <= feasTol) {
			cfg.logger.Print("interior: iteration ", pass, ": |A x - b| = ", res, " exceeds ", feasTol, ", keeping the last iterate")
			break
		}

		floats.SubTo(step, xt, x)
		dist := floats.Norm(step, 2)
		threshold := cfg.accuracy * math.Max(1, floats.Norm(x, 2))
		copy(x, xt)
		iter = pass
		if cfg.hook != nil {
			cfg.hook(iter, x)
		}
		cfg.logger.Print("interior: iteration ", iter, ": step ", dist, ", z = ", floats.Dot(c, x))
		if dist < threshold {
			break
		}
	}

	return &model.Solution{
		X:          x,
		Value:      floats.Dot(c, x),
		Iterations: iter,
	}, nil
}

const (
	// feasibilityFloor is the smallest relative residual |A x - b| / max(1, |b|)
	// held along the path, about the square root of machine epsilon. Smaller
	// accuracies do not tighten it.
	feasibilityFloor = 1.49e-8

	// rayTolerance bounds |A d| / (|A| |d|) for a non-negative direction d
	// accepted as proof of unboundedness.
	rayTolerance = 1.49e-8
)

// residual stores b - A x in r and returns its Euclidean norm.
func residual(a mat.Matrix, x, b, r []float64) float64 {
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(len(x), x))
	floats.SubTo(r, b, ax.RawVector().Data)
	return floats.Norm(r, 2)
}

// isRay reports whether d = D·max(c_p, 0) is an improving direction along
// which every iterate stays feasible: d >= 0, A d = 0 and dir'd > 0.
func isRay(a mat.Matrix, anorm float64, x, cp, dir []float64) bool {
	d := make([]float64, len(x))
	for i, v := range cp {
		if v > 0 {
			d[i] = x[i] * v
		}
	}
	if floats.Dot(dir, d) <= 0 {
		return false
	}
	var ad mat.VecDense
	ad.MulVec(a, mat.NewVecDense(len(d), d))
	return floats.Norm(ad.RawVector().Data, 2) <= rayTolerance*anorm*floats.Norm(d, 2)
}

// SolveSlices runs Solve on a dense problem given as slices. The rows of a
// may be longer than c.
func SolveSlices(direction model.Direction, c []float64, a [][]float64, b []float64, accuracy float64, x0 []float64, alpha float64) ([]float64, float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return nil, 0, errors.Wrapf(model.ErrDimensionMismatch, "%d constraint rows but %d right-hand sides", len(a), len(b))
	}
	cols := len(a[0])
	if cols < len(c) {
		return nil, 0, errors.Wrapf(model.ErrDimensionMismatch, "constraint rows have %d columns, fewer than %d costs", cols, len(c))
	}
	p := model.NewProblem(len(a), cols)
	p.Direction = direction
	padded := make([]float64, cols)
	copy(padded, c)
	if err := p.SetC(padded); err != nil {
		return nil, 0, err
	}
	flat := make([]float64, 0, len(a)*cols)
	for i, row := range a {
		if len(row) != cols {
			return nil, 0, errors.Wrapf(model.ErrDimensionMismatch, "constraint %d has %d columns, want %d", i+1, len(row), cols)
		}
		flat = append(flat, row...)
	}
	if err := p.SetA(flat); err != nil {
		return nil, 0, err
	}
	if err := p.SetB(b); err != nil {
		return nil, 0, err
	}
	sol, err := Solve(p, x0, WithAccuracy(accuracy), WithAlpha(alpha))
	if err != nil {
		return nil, 0, err
	}
	return sol.X, sol.Value, nil
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
