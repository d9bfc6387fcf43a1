package agents

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/codebench/pkg/domain"
)

// Human asks a person for clues and guesses over a line-oriented
// reader/writer pair (usually stdin/stdout). Malformed answers are asked
// again, up to Attempts times, before degrading like any other agent.
type Human struct {
	mu       sync.Mutex
	in       *bufio.Reader
	out      io.Writer
	Attempts int
}

// NewHuman creates a human agent reading from in and prompting on out.
func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewReader(in), out: out, Attempts: DefaultAttempts}
}

// GiveClue shows the team's words and reads "<word> <count>".
func (h *Human) GiveClue(ctx context.Context, team domain.Team, board *domain.WordAssignment) domain.Clue {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "\n[%s spymaster] your words: %s\n", team, strings.Join(board.Words(team.Category()), ", "))
	fmt.Fprintf(h.out, "  avoid: %s | assassin: %s\n",
		strings.Join(board.Words(team.Opponent().Category()), ", "),
		strings.Join(board.Words(domain.CategoryAssassin), ", "))

	resp := Retry(ctx, h.Attempts, domain.Clue{}, func(ctx context.Context, _ int) (domain.Clue, error) {
		fmt.Fprint(h.out, "clue (word count)> ")
		line, err := h.readLine()
		if err != nil {
			return domain.Clue{}, err
		}
		return ParseClueLine(line)
	})
	return resp.Value
}

// Guess shows the clue and the unrevealed words and reads a comma separated
// list of guesses.
func (h *Human) Guess(ctx context.Context, team domain.Team, clue domain.Clue, leftOver []string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "\n[%s guesser] clue: %q for %d\n", team, clue.Word, clue.Count)
	fmt.Fprintf(h.out, "  board: %s\n", strings.Join(leftOver, ", "))

	resp := Retry(ctx, h.Attempts, []string{}, func(ctx context.Context, _ int) ([]string, error) {
		fmt.Fprint(h.out, "guesses> ")
		line, err := h.readLine()
		if err != nil {
			return nil, err
		}
		return MatchWords(splitList(line), leftOver)
	})
	return resp.Value
}

func (h *Human) readLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ParseClueLine parses "<word> <count>" (a comma between the two is accepted).
func ParseClueLine(line string) (domain.Clue, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return domain.Clue{}, fmt.Errorf("expected '<word> <count>', got %q", line)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return domain.Clue{}, fmt.Errorf("count must be a non-negative integer, got %q", fields[1])
	}
	return domain.Clue{Word: fields[0], Count: n}, nil
}

// MatchWords maps answers onto the unrevealed words case-insensitively,
// keeping their order. Unknown answers are kept verbatim so the engine can
// reject them.
func MatchWords(answers, leftOver []string) ([]string, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("no guesses given")
	}
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		i := slices.IndexFunc(leftOver, func(w string) bool { return strings.EqualFold(w, a) })
		if i >= 0 {
			out = append(out, leftOver[i])
		} else {
			out = append(out, a)
		}
	}
	return out, nil
}

func splitList(line string) []string {
	var out []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
