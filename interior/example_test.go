package interior_test

import (
	"fmt"

	"q.log/lpsolve/interior"
	"q.log/lpsolve/model"
)

func ExampleSolve() {
	p, err := model.FromSlices([]float64{3, 5}, [][]float64{{1, 0}, {0, 2}, {3, 2}}, []float64{4, 12, 18})
	if err != nil {
		fmt.Println(err)
		return
	}

	// x0 = (1, 1) with slacks b - A x0.
	sol, err := interior.Solve(p.WithSlack(), []float64{1, 1, 3, 10, 13}, interior.WithAlpha(0.5))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("x = [%.3f %.3f], z = %.3f\n", sol.X[0], sol.X[1], sol.Value)
	// Output:
	// x = [2.000 6.000], z = 36.000
}
