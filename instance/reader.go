package instance

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"q.log/lpsolve/model"
)

// ErrMPSUnsupported is returned for MPS files by binaries built without the
// glpk tag.
var ErrMPSUnsupported = errors.New("instance: MPS files need a build with the glpk tag")

// Instance is a problem read from a file, with the interior-point starting
// point when the file provides one.
type Instance struct {
	Problem *model.Problem
	X0      []float64
}

// Reader reads a problem file. Files ending in .mps are read through GLPK,
// anything else is parsed as YAML or JSON.
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// Read returns the instance with every constraint rewritten as a <= row.
func (r *Reader) Read() (*Instance, error) {
	if strings.EqualFold(filepath.Ext(r.filename), ".mps") {
		p, err := readMPS(r.filename)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", r.filename)
		}
		return &Instance{Problem: p}, nil
	}

	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading problem file")
	}
	inst, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", r.filename)
	}
	return inst, nil
}
