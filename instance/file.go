package instance

import (
	"github.com/pkg/errors"
	"q.log/lpsolve/model"
	"sigs.k8s.io/yaml"
)

// File is the YAML/JSON layout of a problem:
//
//	direction: max
//	c: [3, 5]
//	a:
//	  - [1, 0]
//	  - [0, 2]
//	  - [3, 2]
//	b: [4, 12, 18]
//	senses: ["<=", "<=", "<="]   # optional, defaults to <=
//	x0: [1, 1, 3, 10, 13]        # optional interior starting point
type File struct {
	Direction string      `json:"direction,omitempty"`
	C         []float64   `json:"c"`
	A         [][]float64 `json:"a"`
	B         []float64   `json:"b"`
	Senses    []string    `json:"senses,omitempty"`
	X0        []float64   `json:"x0,omitempty"`
}

// Parse decodes a YAML or JSON document into an instance.
func Parse(data []byte) (*Instance, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding problem")
	}
	return f.Instance()
}

// Instance converts the file into a problem in <= form.
func (f *File) Instance() (*Instance, error) {
	dir, err := model.ParseDirection(f.Direction)
	if err != nil {
		return nil, err
	}
	if len(f.C) == 0 {
		return nil, errors.Wrap(model.ErrDimensionMismatch, "empty objective")
	}
	if len(f.A) != len(f.B) {
		return nil, errors.Wrapf(model.ErrDimensionMismatch, "%d constraint rows but %d right-hand sides", len(f.A), len(f.B))
	}
	if len(f.Senses) != 0 && len(f.Senses) != len(f.A) {
		return nil, errors.Wrapf(model.ErrDimensionMismatch, "%d senses for %d constraints", len(f.Senses), len(f.A))
	}

	p := model.NewProblem(0, len(f.C))
	p.Direction = dir
	if err := p.SetC(f.C); err != nil {
		return nil, err
	}
	for i, row := range f.A {
		sense := model.LessEqual
		if len(f.Senses) != 0 {
			if sense, err = model.ParseSense(f.Senses[i]); err != nil {
				return nil, errors.Wrapf(err, "constraint %d", i+1)
			}
		}
		if err := p.AddConstraint(row, sense, f.B[i]); err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i+1)
		}
	}
	return &Instance{Problem: p, X0: f.X0}, nil
}
