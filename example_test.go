package codebench_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/codebench"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/vocabulary"
)

// ExampleBench_Simulate plays a small batch between two random baselines and
// reads the aggregated report back from the store.
func ExampleBench_Simulate() {
	a, b := agents.NewRandom(1), agents.NewRandom(2)
	players := []ports.Player{
		{Name: "random-a", Spymaster: a, Guesser: a},
		{Name: "random-b", Spymaster: b, Guesser: b},
	}

	bench, err := codebench.New(players, vocabulary.Default(), codebench.WithSeed(7))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	summary, err := bench.Simulate(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	report, err := bench.Report(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("played:", summary.Played)
	fmt.Println("stored:", report.Games)
	// Output:
	// played: 10
	// stored: 10
}
