package interior

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/lpsolve/model"
)

// agreement is how close an affine scaling optimum is expected to get to the
// vertex optimum with the default accuracy.
const agreement = 1e-4

var (
	mixC  = []float64{3, 5}
	mixA  = [][]float64{{1, 0, 1, 0, 0}, {0, 2, 0, 1, 0}, {3, 2, 0, 0, 1}}
	mixB  = []float64{4, 12, 18}
	mixX0 = []float64{1, 1, 3, 10, 13}

	twoC  = []float64{100, 85}
	twoA  = [][]float64{{12, 24, 1, 0, 0}, {9, 5, 0, 1, 0}, {30, 30, 0, 0, 1}}
	twoB  = []float64{480, 180, 720}
	twoX0 = []float64{1, 1, 444, 166, 660}
)

func TestSolveSlicesProductionMix(t *testing.T) {
	for _, alpha := range []float64{0.5, 0.9} {
		x, z, err := SolveSlices(model.Maximize, mixC, mixA, mixB, 1e-6, mixX0, alpha)
		require.NoError(t, err)
		require.Len(t, x, 5)
		assert.InDelta(t, 2, x[0], agreement)
		assert.InDelta(t, 6, x[1], agreement)
		assert.InDelta(t, 36, z, agreement)
	}
}

func TestSolveMinimize(t *testing.T) {
	x, z, err := SolveSlices(model.Minimize, []float64{-3, -5}, mixA, mixB, 1e-6, mixX0, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2, x[0], agreement)
	assert.InDelta(t, 6, x[1], agreement)
	assert.InDelta(t, -36, z, agreement)
}

func TestSolveWithSlack(t *testing.T) {
	p, err := model.FromSlices([]float64{1, 2}, [][]float64{{1, 1}}, []float64{4})
	require.NoError(t, err)

	sol, err := Solve(p.WithSlack(), []float64{1, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0, sol.X[0], agreement)
	assert.InDelta(t, 4, sol.X[1], agreement)
	assert.InDelta(t, 8, sol.Value, agreement)
	assert.Nil(t, sol.Variables)
}

func TestSolveRedundantRows(t *testing.T) {
	// A duplicated row makes ÃÃᵀ singular; the pseudo-inverse absorbs it.
	a := append(append([][]float64(nil), mixA...), mixA[0])
	b := append(append([]float64(nil), mixB...), mixB[0])

	x, z, err := SolveSlices(model.Maximize, mixC, a, b, 1e-6, mixX0, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2, x[0], 1e-3)
	assert.InDelta(t, 6, x[1], 1e-3)
	assert.InDelta(t, 36, z, 1e-3)
}

func TestSolveStaysPositive(t *testing.T) {
	p := mixProblem(t)

	var iterates int
	sol, err := Solve(p, mixX0, WithIterationHook(func(iter int, x []float64) {
		iterates++
		for i, v := range x {
			assert.Greater(t, v, 0.0, "iteration %d, x%d", iter, i+1)
		}
	}))
	require.NoError(t, err)
	assert.Equal(t, sol.Iterations, iterates)
	for _, v := range sol.X {
		assert.Greater(t, v, 0.0)
	}
}

func TestSolveFeasible(t *testing.T) {
	redundantA := append(append([][]float64(nil), mixA...), mixA[0])
	redundantB := append(append([]float64(nil), mixB...), mixB[0])

	for _, test := range []struct {
		name string
		c    []float64
		a    [][]float64
		b    []float64
		x0   []float64
		z    float64
	}{
		{name: "production mix", c: mixC, a: mixA, b: mixB, x0: mixX0, z: 36},
		{name: "two products", c: twoC, a: twoA, b: twoB, x0: twoX0, z: 2265},
		{name: "single row", c: []float64{1, 2}, a: [][]float64{{1, 1, 1}}, b: []float64{4}, x0: []float64{1, 1, 2}, z: 8},
		{name: "redundant rows", c: mixC, a: redundantA, b: redundantB, x0: mixX0, z: 36},
	} {
		for _, accuracy := range []float64{1e-4, 1e-6, 1e-8} {
			for _, alpha := range []float64{0.5, 0.9} {
				t.Run(fmt.Sprintf("%s/%g/%g", test.name, accuracy, alpha), func(t *testing.T) {
					x, z, err := SolveSlices(model.Maximize, test.c, test.a, test.b, accuracy, test.x0, alpha)
					require.NoError(t, err)
					assert.InDelta(t, test.z, z, agreement*test.z)

					// A x = b holds along the whole path, so the final point
					// satisfies the original inequalities.
					var res, bnorm float64
					for i, row := range test.a {
						lhs := 0.0
						for j, a := range row {
							lhs += a * x[j]
						}
						res += (test.b[i] - lhs) * (test.b[i] - lhs)
						bnorm += test.b[i] * test.b[i]
					}
					tol := math.Max(accuracy, feasibilityFloor) * math.Max(1, math.Sqrt(bnorm))
					assert.LessOrEqual(t, math.Sqrt(res), tol)
					for i, v := range x {
						assert.Greater(t, v, 0.0, "x%d", i+1)
					}
				})
			}
		}
	}
}

func TestSolveLargeValues(t *testing.T) {
	// Steps on this problem stay above an absolute 1e-6 long after some
	// components reach 1e-13, where rounding starts to move A x off b.
	p, err := model.FromSlices(twoC, [][]float64{{12, 24}, {9, 5}, {30, 30}}, twoB)
	require.NoError(t, err)

	for _, alpha := range []float64{0.5, 0.9} {
		sol, err := Solve(p.WithSlack(), twoX0, WithAlpha(alpha))
		require.NoError(t, err)
		assert.InDelta(t, 2265, sol.Value, agreement*2265)
		assert.InDelta(t, 15, sol.X[0], 1e-3)
		assert.InDelta(t, 9, sol.X[1], 1e-3)
	}
}

func TestSolveTightAccuracy(t *testing.T) {
	// Accuracies below what rounding allows stop at the last feasible
	// iterate instead of wandering off.
	for _, accuracy := range []float64{1e-8, 1e-10, 1e-14} {
		x, z, err := SolveSlices(model.Maximize, mixC, mixA, mixB, accuracy, mixX0, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 36, z, agreement)
		assert.InDelta(t, 2, x[0], agreement)
		assert.InDelta(t, 6, x[1], agreement)
	}
}

func TestSolveZeroObjective(t *testing.T) {
	x, z, err := SolveSlices(model.Maximize, []float64{0, 0}, mixA, mixB, 1e-6, mixX0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)
	assert.Equal(t, mixX0, x)
}

func TestSolveUnbounded(t *testing.T) {
	for _, test := range []struct {
		name string
		c    []float64
		a    [][]float64
		b    []float64
		x0   []float64
	}{
		// The ray appears once x2 has shrunk.
		{name: "x1 - x2 <= 1", c: []float64{1, 0}, a: [][]float64{{1, -1, 1}}, b: []float64{1}, x0: []float64{1, 1, 1}},
		// The first projected direction is already non-negative.
		{name: "-x1 + x2 <= 2", c: []float64{1, 0}, a: [][]float64{{-1, 1, 1}}, b: []float64{2}, x0: []float64{1, 2, 1}},
		{name: "two rows", c: []float64{1, 1}, a: [][]float64{{1, -1, 1, 0}, {-1, 1, 0, 1}}, b: []float64{1, 1}, x0: []float64{1, 1, 1, 1}},
	} {
		for _, accuracy := range []float64{1e-4, 1e-6, 1e-8} {
			for _, alpha := range []float64{0.5, 0.9} {
				_, _, err := SolveSlices(model.Maximize, test.c, test.a, test.b, accuracy, test.x0, alpha)
				assert.ErrorIs(t, err, model.ErrUnbounded, "%s, accuracy %g, alpha %g", test.name, accuracy, alpha)
			}
		}
	}
}

func TestSolveNumericalFailure(t *testing.T) {
	// ÃÃᵀ overflows once the iterate is scaled by entries near 1e300.
	p, err := model.FromSlices([]float64{1, 1, 0}, [][]float64{{1, 1, 1}}, []float64{3e300})
	require.NoError(t, err)

	sol, err := Solve(p, []float64{1e300, 1e300, 1e300})
	assert.ErrorIs(t, err, model.ErrNumericalFailure)
	assert.Nil(t, sol)
}

func TestSolveNotConverged(t *testing.T) {
	_, err := Solve(mixProblem(t), mixX0, WithMaxIterations(3))
	assert.ErrorIs(t, err, model.ErrNotConverged)
}

func TestSolveInvalidInput(t *testing.T) {
	for _, test := range []struct {
		name string
		x0   []float64
		opts []Option
		err  error
	}{
		{name: "zero component", x0: []float64{1, 0, 3, 10, 13}, err: model.ErrInvalidStart},
		{name: "negative component", x0: []float64{1, 1, -3, 10, 13}, err: model.ErrInvalidStart},
		{name: "short start", x0: []float64{1, 1}, err: model.ErrDimensionMismatch},
		{name: "off the constraints", x0: []float64{1, 1, 1, 1, 1}, err: model.ErrInvalidStart},
		{name: "alpha one", x0: mixX0, opts: []Option{WithAlpha(1)}, err: model.ErrInvalidParameter},
		{name: "alpha zero", x0: mixX0, opts: []Option{WithAlpha(0)}, err: model.ErrInvalidParameter},
		{name: "zero accuracy", x0: mixX0, opts: []Option{WithAccuracy(0)}, err: model.ErrInvalidParameter},
	} {
		t.Run(test.name, func(t *testing.T) {
			sol, err := Solve(mixProblem(t), test.x0, test.opts...)
			assert.ErrorIs(t, err, test.err)
			assert.Nil(t, sol)
		})
	}
}

func TestSolveSlicesShape(t *testing.T) {
	_, _, err := SolveSlices(model.Maximize, []float64{1, 2, 3}, [][]float64{{1, 1}}, []float64{1}, 1e-6, []float64{0.5, 0.5}, 0.5)
	assert.ErrorIs(t, err, model.ErrDimensionMismatch)

	_, _, err = SolveSlices(model.Maximize, []float64{1}, [][]float64{{1, 1}, {1}}, []float64{1, 1}, 1e-6, []float64{0.5, 0.5}, 0.5)
	assert.ErrorIs(t, err, model.ErrDimensionMismatch)
}

func TestSolveDeterministic(t *testing.T) {
	first, err := Solve(mixProblem(t), mixX0)
	require.NoError(t, err)
	second, err := Solve(mixProblem(t), mixX0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSolveConcurrent(t *testing.T) {
	p := mixProblem(t)

	var wg sync.WaitGroup
	values := make([]float64, 8)
	errs := make([]error, 8)
	for i := range values {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sol, err := Solve(p, mixX0, WithAlpha(0.5+0.05*float64(i)))
			if err != nil {
				errs[i] = err
				return
			}
			values[i] = sol.Value
		}(i)
	}
	wg.Wait()

	for i, z := range values {
		require.NoError(t, errs[i])
		assert.InDelta(t, 36, z, agreement)
	}
}

func TestSolveDoesNotRetainStart(t *testing.T) {
	x0 := append([]float64(nil), mixX0...)
	_, err := Solve(mixProblem(t), x0)
	require.NoError(t, err)
	assert.Equal(t, mixX0, x0)
}

func mixProblem(t *testing.T) *model.Problem {
	t.Helper()

	p, err := model.FromSlices([]float64{3, 5, 0, 0, 0}, mixA, mixB)
	require.NoError(t, err)
	return p
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Print(v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprint(v...))
}

func TestSolveLogsIterations(t *testing.T) {
	var logger recordingLogger
	sol, err := Solve(mixProblem(t), mixX0, WithLogger(&logger))
	require.NoError(t, err)
	require.Len(t, logger.lines, sol.Iterations)
	assert.True(t, strings.HasPrefix(logger.lines[0], "interior: iteration 1: step "), logger.lines[0])
}
