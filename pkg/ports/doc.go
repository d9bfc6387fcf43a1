/*
Package ports defines the driven ports (interfaces) for the codebench engine.

These interfaces decouple the game engine from the agents that play it and
from the places finished games are written to.

# Key Interfaces

  - Spymaster: produces a clue for the acting team.
  - Guesser: turns a clue into an ordered list of guesses.
  - ResultStore: persists one GameResult per finished game (file, memory, redis).
  - VocabularySource: yields the candidate words a board is drawn from.
*/
package ports
