package llm

import (
	"fmt"
	"strings"

	"github.com/aretw0/codebench/pkg/domain"
)

const rules = `You are playing Codenames. Two teams, red and blue, race to reveal their own words on a shared board.
Each turn the spymaster gives a one-word clue and a number. The guesser then names board words one at a time.
A guess of the team's own word lets the guesser continue. A neutral or opposing word ends the turn.
Revealing the assassin loses the game immediately.`

func spymasterSystem(extra string) string {
	return join(rules, "You are the spymaster. You can see which words belong to which team.", extra)
}

func guesserSystem(extra string) string {
	return join(rules, "You are the guesser. You only see the clue and the unrevealed words.", extra)
}

func spymasterPrompt(team domain.Team, board *domain.WordAssignment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You play for %s.\n", team)
	fmt.Fprintf(&b, "Your words: %s\n", strings.Join(board.Words(team.Category()), ", "))
	fmt.Fprintf(&b, "Opponent words: %s\n", strings.Join(board.Words(team.Opponent().Category()), ", "))
	fmt.Fprintf(&b, "Neutral words: %s\n", strings.Join(board.Words(domain.CategoryNeutral), ", "))
	fmt.Fprintf(&b, "Assassin: %s\n\n", strings.Join(board.Words(domain.CategoryAssassin), ", "))
	b.WriteString("Give a single-word clue that is not on the board and the number of your words it relates to.\n")
	b.WriteString(`Answer with JSON only: {"clue": "<word>", "count": <number>}`)
	return b.String()
}

func guesserPrompt(team domain.Team, clue domain.Clue, leftOver []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You play for %s.\n", team)
	fmt.Fprintf(&b, "Clue: %q for %d\n", clue.Word, clue.Count)
	fmt.Fprintf(&b, "Unrevealed words: %s\n\n", strings.Join(leftOver, ", "))
	b.WriteString("List the words you want to reveal, most confident first.\n")
	b.WriteString(`Answer with JSON only: {"guesses": ["<word>", ...]}`)
	return b.String()
}

func correction(err error) string {
	return fmt.Sprintf("That answer was invalid: %v. Reply again with JSON only.", err)
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
