package domain

import "fmt"

// Team identifies one of the two competing teams.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Teams lists both teams in a stable order.
var Teams = []Team{TeamRed, TeamBlue}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Category returns the board category holding the team's own words.
func (t Team) Category() Category {
	return Category(t)
}

// Valid reports whether t is one of the two known teams.
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// ParseTeam converts a string ("red"/"blue") into a Team.
func ParseTeam(s string) (Team, error) {
	t := Team(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid team %q, 'red' and 'blue' are the only valid teams", s)
	}
	return t, nil
}

// Category is the affiliation of a word on the board.
type Category string

const (
	CategoryRed      Category = "red"
	CategoryBlue     Category = "blue"
	CategoryNeutral  Category = "neutral"
	CategoryAssassin Category = "assassin"
)

// Categories lists every board category in serialization order.
var Categories = []Category{CategoryRed, CategoryBlue, CategoryNeutral, CategoryAssassin}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRed, CategoryBlue, CategoryNeutral, CategoryAssassin:
		return true
	}
	return false
}
