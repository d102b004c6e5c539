package model

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Fprint writes the problem in algebraic form:
//
//	max z = 3.00 * x1 + 5.00 * x2
//	subject to:
//	  1.00 * x1 + 0.00 * x2 <= 4.00
func (p *Problem) Fprint(w io.Writer, precision int) error {
	terms := make([]string, p.NumCols)
	for j := 0; j < p.NumCols; j++ {
		terms[j] = fmt.Sprintf("%.*f * x%d", precision, p.C.At(0, j), j+1)
	}
	if _, err := fmt.Fprintf(w, "%s z = %s\nsubject to:\n", p.Direction, strings.Join(terms, " + ")); err != nil {
		return err
	}
	for i := 0; i < p.NumRows; i++ {
		for j := 0; j < p.NumCols; j++ {
			terms[j] = fmt.Sprintf("%.*f * x%d", precision, p.A.At(i, j), j+1)
		}
		if _, err := fmt.Fprintf(w, "  %s <= %.*f\n", strings.Join(terms, " + "), precision, p.B.At(i, 0)); err != nil {
			return err
		}
	}
	return nil
}

// FprintMatrices dumps C, A and B in matrix form.
func (p *Problem) FprintMatrices(w io.Writer) {
	fmt.Fprintf(w, "c = %v\n", mat.Formatted(p.C, mat.Prefix("    "), mat.Squeeze()))
	if p.NumRows == 0 {
		return
	}
	fmt.Fprintf(w, "A = %v\n", mat.Formatted(p.A, mat.Prefix("    "), mat.Squeeze()))
	fmt.Fprintf(w, "b = %v\n", mat.Formatted(p.B, mat.Prefix("    "), mat.Squeeze()))
}

// Fprint writes one line per decision variable followed by the objective
// value, all with the given number of decimals.
func (s *Solution) Fprint(w io.Writer, precision int) error {
	for i, x := range s.X {
		if _, err := fmt.Fprintf(w, "x%d = %.*f\n", i+1, precision, x); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "z = %.*f\n", precision, s.Value)
	return err
}
