// Package stats aggregates stored games into per player win rates and
// clue/guess behaviour.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/codebench/pkg/domain"
)

// PlayerStats summarises every game one player took part in.
type PlayerStats struct {
	Name         string                      `json:"name"`
	Games        int                         `json:"games"`
	Wins         int                         `json:"wins"`
	WinsByReason map[domain.WinReason]int    `json:"wins_by_reason"`
	LossByReason map[domain.WinReason]int    `json:"losses_by_reason"`
	Spymaster    int                         `json:"spymaster_turns"`
	ClueCountSum int                         `json:"clue_count_sum"`
	Passes       int                         `json:"passes"`
	Outcomes     map[domain.GuessOutcome]int `json:"guess_outcomes"`
}

// WinRate is wins over games played.
func (p PlayerStats) WinRate() float64 {
	return ratio(p.Wins, p.Games)
}

// AvgClueCount is the mean count given as spymaster.
func (p PlayerStats) AvgClueCount() float64 {
	return ratio(p.ClueCountSum, p.Spymaster)
}

// AvgGuessesPerTurn is the mean number of processed guesses per turn.
func (p PlayerStats) AvgGuessesPerTurn() float64 {
	total := 0
	for _, n := range p.Outcomes {
		total += n
	}
	return ratio(total, p.Spymaster)
}

// Accuracy is the share of revealed words that belonged to the player.
func (p PlayerStats) Accuracy() float64 {
	decided := 0
	for o, n := range p.Outcomes {
		if o.Decided() {
			decided += n
		}
	}
	return ratio(p.Outcomes[domain.GuessCorrect], decided)
}

// Report is the aggregate over a set of games.
type Report struct {
	Games       int                      `json:"games"`
	ByReason    map[domain.WinReason]int `json:"by_reason"`
	StarterWins int                      `json:"starting_team_wins"`
	TotalTurns  int                      `json:"total_turns"`
	Players     []PlayerStats            `json:"players"`
}

// StarterWinRate is how often the team that moved first won.
func (r *Report) StarterWinRate() float64 {
	return ratio(r.StarterWins, r.Games)
}

// AvgTurns is the mean game length.
func (r *Report) AvgTurns() float64 {
	return ratio(r.TotalTurns, r.Games)
}

// Player returns the stats for name.
func (r *Report) Player(name string) (PlayerStats, bool) {
	for _, p := range r.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerStats{}, false
}

// Aggregate folds results into a report. Unfinished records (no winner)
// are ignored. Players are ordered by win rate, then name.
func Aggregate(results []*domain.GameResult) *Report {
	report := &Report{ByReason: map[domain.WinReason]int{}}
	players := map[string]*PlayerStats{}
	get := func(name string) *PlayerStats {
		p, ok := players[name]
		if !ok {
			p = &PlayerStats{
				Name:         name,
				WinsByReason: map[domain.WinReason]int{},
				LossByReason: map[domain.WinReason]int{},
				Outcomes:     map[domain.GuessOutcome]int{},
			}
			players[name] = p
		}
		return p
	}

	for _, res := range results {
		if res == nil || !res.Winner.Valid() {
			continue
		}
		report.Games++
		report.ByReason[res.WinType]++
		report.TotalTurns += res.Turns()
		if res.Winner == res.Started {
			report.StarterWins++
		}

		winner := get(res.PlayerOf(res.Winner))
		loser := get(res.PlayerOf(res.Winner.Opponent()))
		winner.Games++
		loser.Games++
		winner.Wins++
		winner.WinsByReason[res.WinType]++
		loser.LossByReason[res.WinType]++

		for _, turn := range res.TurnHistory {
			p := get(res.PlayerOf(turn.Team))
			p.Spymaster++
			p.ClueCountSum += max(turn.Clue.Count, 0)
			if turn.Clue.Pass() {
				p.Passes++
			}
			for _, o := range turn.Outcomes {
				p.Outcomes[o]++
			}
		}
	}

	for _, p := range players {
		report.Players = append(report.Players, *p)
	}
	sort.Slice(report.Players, func(i, j int) bool {
		a, b := report.Players[i], report.Players[j]
		if a.WinRate() != b.WinRate() {
			return a.WinRate() > b.WinRate()
		}
		return a.Name < b.Name
	})
	return report
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Results\n\n")
	if r.Games == 0 {
		b.WriteString("No finished games yet.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d games, %.1f turns on average. The starting team won %.0f%% of them.\n\n",
		r.Games, r.AvgTurns(), 100*r.StarterWinRate())

	b.WriteString("| Win type | Games |\n|---|---:|\n")
	for _, reason := range domain.WinReasons {
		fmt.Fprintf(&b, "| %s | %d |\n", reason, r.ByReason[reason])
	}

	b.WriteString("\n## Players\n\n")
	b.WriteString("| Player | Games | Wins | Win rate |")
	for _, reason := range domain.WinReasons {
		fmt.Fprintf(&b, " %s |", reason)
	}
	b.WriteString(" Avg clue count | Guesses/turn | Accuracy |\n|---|---:|---:|---:|")
	for range domain.WinReasons {
		b.WriteString("---:|")
	}
	b.WriteString("---:|---:|---:|\n")

	for _, p := range r.Players {
		fmt.Fprintf(&b, "| %s | %d | %d | %.0f%% |", p.Name, p.Games, p.Wins, 100*p.WinRate())
		for _, reason := range domain.WinReasons {
			fmt.Fprintf(&b, " %d |", p.WinsByReason[reason])
		}
		fmt.Fprintf(&b, " %.2f | %.2f | %.0f%% |\n", p.AvgClueCount(), p.AvgGuessesPerTurn(), 100*p.Accuracy())
	}
	return b.String()
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
