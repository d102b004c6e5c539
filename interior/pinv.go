package interior

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/lpsolve/model"
)

// rcond is the relative cutoff below which singular values count as zero.
const rcond = 1e-12

// pinv returns the Moore-Penrose pseudo-inverse of a computed from its
// thin SVD, a⁺ = V Σ⁺ Uᵀ.
func pinv(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := a.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(model.ErrNumericalFailure, "non-finite entry at (%d, %d)", i, j)
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.Wrap(model.ErrNumericalFailure, "singular value decomposition did not converge")
	}
	s := svd.Values(nil)
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrap(model.ErrNumericalFailure, "non-finite singular value")
		}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(s) > 0 {
		cutoff = rcond * floats.Max(s)
	}
	inv := make([]float64, len(s))
	for i, sv := range s {
		if sv > cutoff {
			inv[i] = 1 / sv
		}
	}

	var vs, out mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(inv), inv))
	out.Mul(&vs, u.T())
	return &out, nil
}
