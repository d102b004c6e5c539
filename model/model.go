package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Direction is the optimization sense of a Problem.
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

func (d Direction) String() string {
	switch d {
	case Maximize:
		return "max"
	case Minimize:
		return "min"
	default:
		return "unknown"
	}
}

// ParseDirection resolves the textual form ("max"/"min") at the API boundary.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "max", "maximize", "":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	}
	return Maximize, errors.Wrapf(ErrInvalidParameter, "direction %q", s)
}

// Sense is the relation of a constraint row to its right-hand side.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

// ParseSense accepts "<=", ">=" and "=".
func ParseSense(s string) (Sense, error) {
	switch s {
	case "<=", "":
		return LessEqual, nil
	case ">=":
		return GreaterEqual, nil
	case "=", "==":
		return Equal, nil
	}
	return LessEqual, errors.Wrapf(ErrInvalidParameter, "constraint sense %q", s)
}

// Problem is a linear program
//
//	maximize (or minimize) c'x  s.t.  Ax <= b, x >= 0
//
// Solvers never modify a Problem.
type Problem struct {
	//C objective function coefficients, 1 x NumCols
	C *mat.Dense

	//A constraints matrix, NumRows x NumCols
	A *mat.Dense

	//B constraints rhs, NumRows x 1
	B *mat.Dense

	Direction Direction

	NumRows int
	NumCols int
}

// NewProblem returns a zero problem of the given shape. A problem without
// constraints has NumRows == 0 and nil A and B until rows are added.
func NewProblem(numRows, numCols int) *Problem {
	p := &Problem{
		C:       mat.NewDense(1, numCols, nil),
		NumRows: numRows,
		NumCols: numCols,
	}
	if numRows > 0 {
		p.A = mat.NewDense(numRows, numCols, nil)
		p.B = mat.NewDense(numRows, 1, nil)
	}
	return p
}

// FromSlices builds a problem from a cost vector, a row-major constraint
// matrix and a right-hand side. Every row must have len(c) entries.
func FromSlices(c []float64, a [][]float64, b []float64) (*Problem, error) {
	if len(c) == 0 {
		return nil, errors.Wrap(ErrDimensionMismatch, "empty objective")
	}
	if len(a) != len(b) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d constraint rows but %d right-hand sides", len(a), len(b))
	}
	p := NewProblem(0, len(c))
	if err := p.SetC(c); err != nil {
		return nil, err
	}
	for i, row := range a {
		if err := p.AddRow(row, b[i]); err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i+1)
		}
	}
	return p, nil
}

func (p *Problem) SetC(cVec []float64) error {
	if len(cVec) != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "objective has %d coefficients, want %d", len(cVec), p.NumCols)
	}

	p.C = mat.NewDense(1, p.NumCols, append([]float64(nil), cVec...))

	return nil
}

// SetA replaces the constraint matrix with a row-major slice.
func (p *Problem) SetA(aVec []float64) error {
	if p.NumRows == 0 || len(aVec) != p.NumCols*p.NumRows {
		return errors.Wrap(ErrDimensionMismatch, "number of variables and/or constraints")
	}

	p.A = mat.NewDense(p.NumRows, p.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (p *Problem) SetB(bVec []float64) error {
	if p.NumRows == 0 || len(bVec) != p.NumRows {
		return errors.Wrap(ErrDimensionMismatch, "number of constraints")
	}

	p.B = mat.NewDense(p.NumRows, 1, append([]float64(nil), bVec...))

	return nil
}

// AddCol appends a variable with column cVec and objective coefficient coef.
func (p *Problem) AddCol(cVec []float64, coef float64) error {
	if len(cVec) != p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "column has %d entries, want %d", len(cVec), p.NumRows)
	}

	if p.NumRows > 0 {
		p.A = mat.DenseCopyOf(p.A.Grow(0, 1))
		p.A.SetCol(p.NumCols, cVec)
	}

	p.C = mat.DenseCopyOf(p.C.Grow(0, 1))
	p.C.Set(0, p.NumCols, coef)

	p.NumCols++
	return nil
}

// AddRow appends the constraint rVec . x <= rhs.
func (p *Problem) AddRow(rVec []float64, rhs float64) error {
	if len(rVec) != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "row has %d coefficients, want %d", len(rVec), p.NumCols)
	}

	if p.NumRows == 0 {
		p.A = mat.NewDense(1, p.NumCols, append([]float64(nil), rVec...))
		p.B = mat.NewDense(1, 1, []float64{rhs})
		p.NumRows = 1
		return nil
	}

	p.A = mat.DenseCopyOf(p.A.Grow(1, 0))
	p.A.SetRow(p.NumRows, rVec)

	p.B = mat.DenseCopyOf(p.B.Grow(1, 0))
	p.B.Set(p.NumRows, 0, rhs)

	p.NumRows++
	return nil
}

// AddConstraint adds a constraint of any sense, rewritten into <= rows:
// a >= row is negated and an equality becomes a pair of opposite rows.
func (p *Problem) AddConstraint(rVec []float64, sense Sense, rhs float64) error {
	switch sense {
	case LessEqual:
		return p.AddRow(rVec, rhs)
	case GreaterEqual:
		if err := p.AddRow(rVec, rhs); err != nil {
			return err
		}
		return p.MultiplyConstraint(p.NumRows-1, -1)
	case Equal:
		if err := p.AddRow(rVec, rhs); err != nil {
			return err
		}
		return p.AddConstraint(rVec, GreaterEqual, rhs)
	}
	return errors.Wrapf(ErrInvalidParameter, "constraint sense %d", sense)
}

// AddBounds turns finite variable bounds into rows: lb > 0 adds -x_j <= -lb
// and a finite ub adds x_j <= ub. Non-negativity is implicit.
func (p *Problem) AddBounds(col int, lb, ub float64) error {
	if col < 0 || col >= p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "column %d does not exist", col)
	}
	if lb > 0 && !math.IsInf(lb, 1) {
		row := make([]float64, p.NumCols)
		row[col] = 1
		if err := p.AddConstraint(row, GreaterEqual, lb); err != nil {
			return err
		}
	}
	if !math.IsInf(ub, 1) && ub < math.MaxFloat64 {
		row := make([]float64, p.NumCols)
		row[col] = 1
		if err := p.AddRow(row, ub); err != nil {
			return err
		}
	}
	return nil
}

func (p *Problem) MultiplyConstraint(row int, mul float64) error {
	if row < 0 || row >= p.NumRows {
		return errors.Wrapf(ErrDimensionMismatch, "row %d does not exist", row)
	}

	for col := 0; col < p.NumCols; col++ {
		p.A.Set(row, col, p.A.At(row, col)*mul)
	}
	p.B.Set(row, 0, p.B.At(row, 0)*mul)
	return nil
}

// WithSlack returns a copy whose constraint matrix is extended with an
// identity block, one slack column of zero cost per row. This is the shape
// the interior-point solver expects.
func (p *Problem) WithSlack() *Problem {
	q := p.Clone()
	for r := 0; r < p.NumRows; r++ {
		col := make([]float64, p.NumRows)
		col[r] = 1
		// Lengths match by construction.
		_ = q.AddCol(col, 0)
	}
	return q
}

func (p *Problem) Clone() *Problem {
	q := &Problem{
		C:         mat.DenseCopyOf(p.C),
		Direction: p.Direction,
		NumRows:   p.NumRows,
		NumCols:   p.NumCols,
	}
	if p.A != nil {
		q.A = mat.DenseCopyOf(p.A)
	}
	if p.B != nil {
		q.B = mat.DenseCopyOf(p.B)
	}
	return q
}

// Costs returns a copy of C as a slice.
func (p *Problem) Costs() []float64 {
	return mat.Row(nil, 0, p.C)
}

// RHS returns a copy of B as a slice.
func (p *Problem) RHS() []float64 {
	if p.NumRows == 0 {
		return nil
	}
	return mat.Col(nil, 0, p.B)
}

// Validate checks that C, A and B agree with NumRows and NumCols.
func (p *Problem) Validate() error {
	if p == nil || p.C == nil {
		return errors.Wrap(ErrDimensionMismatch, "missing objective")
	}
	if r, c := p.C.Dims(); r != 1 || c != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "objective is %dx%d, want 1x%d", r, c, p.NumCols)
	}
	if p.NumRows == 0 {
		return nil
	}
	if p.A == nil || p.B == nil {
		return errors.Wrap(ErrDimensionMismatch, "missing constraints")
	}
	if r, c := p.A.Dims(); r != p.NumRows || c != p.NumCols {
		return errors.Wrapf(ErrDimensionMismatch, "constraint matrix is %dx%d, want %dx%d", r, c, p.NumRows, p.NumCols)
	}
	if r, c := p.B.Dims(); r != p.NumRows || c != 1 {
		return errors.Wrapf(ErrDimensionMismatch, "rhs is %dx%d, want %dx1", r, c, p.NumRows)
	}
	return nil
}
