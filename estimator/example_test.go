// SPDX-License-Identifier: MIT

package estimator_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/minweights/estimator"
	"github.com/katalvlaran/minweights/mdp/mdptest"
)

func ExampleEstimator() {
	sc, err := mdptest.NewScenario(mdptest.DefaultSeed, 200)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	est, _ := estimator.New(mdptest.Gamma, sc.Dynamics,
		estimator.WithGradient(false),
		estimator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	var sources []estimator.Source
	for j := range sc.Tasks {
		sources = append(sources, estimator.Source{Task: sc.Tasks[j], Policy: sc.Policies[j], Batch: sc.Batches[j]})
	}
	ctx := context.Background()
	if err := est.AddSources(ctx, sources, sc.PhiQ, sc.PhiV); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := est.PrepareLSTD(ctx, sc.TargetPolicy, sc.TargetPower); err != nil {
		fmt.Println("error:", err)
		return
	}
	lower, upper, _ := est.SampleBounds(estimator.LSTDV)
	fmt.Println(len(lower), len(upper))
	// Output:
	// 400 400
}
