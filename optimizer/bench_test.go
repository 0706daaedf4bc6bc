// SPDX-License-Identifier: MIT

package optimizer_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/minweights/optimizer"
)

func BenchmarkEvaluate(b *testing.B) {
	obj, err := optimizer.NewObjective(randomProblem(b, rand.New(rand.NewSource(1))))
	if err != nil {
		b.Fatal(err)
	}
	w := make([]float64, obj.Dim())
	for i := range w {
		w[i] = 1
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj.Evaluate(w)
	}
}

func BenchmarkSolve(b *testing.B) {
	obj, err := optimizer.NewObjective(randomProblem(b, rand.New(rand.NewSource(1))))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		optimizer.Solve(obj, optimizer.Settings{})
	}
}
