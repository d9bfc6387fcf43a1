/*
Package domain contains the core game model of codebench.

It defines the board (WordAssignment), the teams and categories a word can
belong to, the per-turn history records and the final GameResult. This
package is kept pure and free of I/O, randomness and persistence, so the
engine and every adapter share the same vocabulary.

# Key Entities

  - Team: one of the two competing teams (red, blue).
  - Category: where a word lives on the board (red, blue, neutral, assassin).
  - WordAssignment: the live board, a partition of the word pool.
  - TurnRecord: one clue-and-guess exchange, as it happened.
  - GameResult: the persisted record of one finished game.
*/
package domain
