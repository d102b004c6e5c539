//go:build glpk

package instance

import (
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"q.log/lpsolve/model"
)

// readMPS loads a fixed-format MPS file and rewrites it as
// max/min c'x s.t. Ax <= b, x >= 0. Range rows and equalities become pairs
// of rows and finite column bounds become extra rows.
func readMPS(filename string) (*model.Problem, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, filename); err != nil {
		return nil, errors.Wrap(err, "glpk")
	}

	p := model.NewProblem(0, lp.NumCols())
	if lp.ObjDir() == glpk.MIN {
		p.Direction = model.Minimize
	}

	//populate obj function
	cVec := make([]float64, lp.NumCols())
	for c := 0; c < lp.NumCols(); c++ {
		cVec[c] = lp.ObjCoef(c + 1)
	}
	if err := p.SetC(cVec); err != nil {
		return nil, err
	}

	//populate constraints
	for r := 1; r <= lp.NumRows(); r++ {
		rowVec := make([]float64, lp.NumCols())
		idxs, row := lp.MatRow(r)
		for i, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = row[i]
		}

		var err error
		switch lp.RowType(r) {
		case glpk.UP:
			err = p.AddConstraint(rowVec, model.LessEqual, lp.RowUB(r))
		case glpk.LO:
			err = p.AddConstraint(rowVec, model.GreaterEqual, lp.RowLB(r))
		case glpk.FX:
			err = p.AddConstraint(rowVec, model.Equal, lp.RowLB(r))
		case glpk.DB:
			if err = p.AddConstraint(rowVec, model.GreaterEqual, lp.RowLB(r)); err == nil {
				err = p.AddConstraint(rowVec, model.LessEqual, lp.RowUB(r))
			}
		}
		if err != nil {
			return nil, errors.Wrapf(err, "row %s", lp.RowName(r))
		}
	}

	//column bounds
	for c := 1; c <= lp.NumCols(); c++ {
		var lb, ub float64
		switch lp.ColType(c) {
		case glpk.FR, glpk.UP:
			return nil, errors.Wrapf(model.ErrInvalidParameter, "column %s is unbounded below", lp.ColName(c))
		case glpk.LO:
			lb, ub = lp.ColLB(c), math.Inf(1)
		case glpk.DB, glpk.FX:
			lb, ub = lp.ColLB(c), lp.ColUB(c)
		}
		if lb < 0 {
			return nil, errors.Wrapf(model.ErrInvalidParameter, "column %s has negative lower bound %v", lp.ColName(c), lb)
		}
		if err := p.AddBounds(c-1, lb, ub); err != nil {
			return nil, err
		}
	}

	return p, nil
}
