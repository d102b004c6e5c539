package simplex_test

import (
	"fmt"

	"q.log/lpsolve/simplex"
)

func ExampleSolveSlices() {
	// maximize 3x1 + 5x2
	// s.t.     x1 <= 4, 2x2 <= 12, 3x1 + 2x2 <= 18
	x, z, err := simplex.SolveSlices(
		[]float64{3, 5},
		[][]float64{{1, 0}, {0, 2}, {3, 2}},
		[]float64{4, 12, 18},
		1e-6,
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("x = [%.1f %.1f], z = %.1f\n", x[0], x[1], z)
	// Output:
	// x = [2.0 6.0], z = 36.0
}
