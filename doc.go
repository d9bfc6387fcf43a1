/*
Package codebench simulates games of a Codenames-style word game between automated agents and records every game for later analysis.

A game is played on a pool of 25 words dealt into four categories: the two teams (red and blue), neutral words and a single assassin. Each turn the acting team's spymaster gives a clue (a word and a count) and its guesser names unrevealed words until a guess misses. The game ends when a team reveals its last word, when a team's words are exhausted by the opponent, or when the assassin is revealed.

# Concept

The engine is deterministic given a board and the agents' answers. Agents sit behind two narrow interfaces (ports.Spymaster and ports.Guesser) so the same engine plays random baselines, scripted replays, humans at a terminal or LLMs behind an OpenAI compatible API. Finished games are handed to a ports.ResultStore (files, memory or redis) and aggregated by the stats package.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/codebench"
		"github.com/aretw0/codebench/pkg/agents"
		"github.com/aretw0/codebench/pkg/ports"
		"github.com/aretw0/codebench/pkg/vocabulary"
	)

	func main() {
		a, b := agents.NewRandom(1), agents.NewRandom(2)
		players := []ports.Player{
			{Name: "a", Spymaster: a, Guesser: a},
			{Name: "b", Spymaster: b, Guesser: b},
		}

		bench, err := codebench.New(players, vocabulary.Default(), codebench.WithSeed(42))
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if _, err := bench.Simulate(ctx, 100); err != nil {
			log.Fatal(err)
		}

		report, err := bench.Report(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(report.Markdown())
	}
*/
package codebench
