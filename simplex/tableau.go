package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsolve/model"
)

// tableau is the (m+1) x (n+m+1) augmented matrix of a problem in slack
// form. Rows 0..m-1 are constraints followed by their slack identity block
// and right-hand side, row m is the objective row.
type tableau struct {
	t *mat.Dense

	m, n int
	tol  float64
}

// newTableau builds the initial tableau. costs is the objective to maximize.
func newTableau(costs []float64, a mat.Matrix, b []float64, tol float64) *tableau {
	m, n := len(b), len(costs)
	tb := &tableau{
		t:   mat.NewDense(m+1, n+m+1, nil),
		m:   m,
		n:   n,
		tol: tol,
	}
	for i := 0; i < m; i++ {
		row := tb.t.RawRowView(i)
		for j := 0; j < n; j++ {
			row[j] = tb.zero(a.At(i, j))
		}
		row[n+i] = 1
		row[n+m] = tb.zero(b[i])
	}
	obj := tb.t.RawRowView(m)
	for j, c := range costs {
		obj[j] = -c
	}
	return tb
}

// zero snaps values inside the accuracy band to exactly zero.
func (tb *tableau) zero(v float64) float64 {
	if math.Abs(v) <= tb.tol {
		return 0
	}
	return v
}

func (tb *tableau) rhs(i int) float64 {
	return tb.t.At(i, tb.n+tb.m)
}

// pivotColumn returns the first objective-row column holding a negative
// entry, or -1 when the tableau is optimal. Lowest index wins, not the most
// negative entry.
func (tb *tableau) pivotColumn() int {
	obj := tb.t.RawRowView(tb.m)
	for j := 0; j < tb.n+tb.m; j++ {
		if obj[j] < -tb.tol {
			return j
		}
	}
	return -1
}

// pivotRow runs the minimum ratio test on col. Only rows with a positive
// pivot-column entry take part; the first row with the smallest ratio wins.
// It returns -1 when no row qualifies.
func (tb *tableau) pivotRow(col int) int {
	row := -1
	minRatio := math.Inf(1)
	for i := 0; i < tb.m; i++ {
		e := tb.t.At(i, col)
		if e <= tb.tol {
			continue
		}
		ratio := tb.rhs(i) / e
		if ratio < minRatio {
			minRatio = ratio
			row = i
		}
	}
	return row
}

// pivot normalizes row r and eliminates column c from every other row,
// objective row included. Results inside the accuracy band become zero.
func (tb *tableau) pivot(r, c int) {
	pr := tb.t.RawRowView(r)
	floats.Scale(1/pr[c], pr)
	pr[c] = 1
	for i := 0; i < tb.m+1; i++ {
		if i == r {
			continue
		}
		row := tb.t.RawRowView(i)
		f := row[c]
		if f == 0 {
			continue
		}
		floats.AddScaled(row, -f, pr)
		for j, v := range row {
			row[j] = tb.zero(v)
		}
		row[c] = 0
	}
}

// isUnit reports whether column j is a unit vector over the constraint rows
// with its one in row i.
func (tb *tableau) isUnit(i, j int) bool {
	for k := 0; k < tb.m; k++ {
		v := tb.t.At(k, j)
		if k == i {
			if math.Abs(v-1) > tb.tol {
				return false
			}
			continue
		}
		if math.Abs(v) > tb.tol {
			return false
		}
	}
	return true
}

// extract reads the basic solution. Each constraint row is assigned to the
// first column, in column order, that is a unit vector at that row; that
// variable takes the row's right-hand side and every other variable is zero.
func (tb *tableau) extract() []model.Variable {
	vars := make([]model.Variable, tb.n+tb.m)
	for j := range vars {
		vars[j].IsSlack = j >= tb.n
	}
	for i := 0; i < tb.m; i++ {
		for j := 0; j < tb.n+tb.m; j++ {
			if vars[j].IsBasic || !tb.isUnit(i, j) {
				continue
			}
			vars[j].IsBasic = true
			vars[j].Value = tb.rhs(i)
			break
		}
	}
	return vars
}

func (tb *tableau) value() float64 {
	return tb.rhs(tb.m)
}
