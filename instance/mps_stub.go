//go:build !glpk

package instance

import "q.log/lpsolve/model"

func readMPS(filename string) (*model.Problem, error) {
	return nil, ErrMPSUnsupported
}
