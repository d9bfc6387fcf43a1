/*
Package agents provides Spymaster and Guesser implementations.

  - Random: a rule-free baseline that gives random clues and guesses.
  - Scripted: plays back fixed clues and guesses (tests, replays).
  - Human: prompts a person on a reader/writer pair.

Remote language-model agents live in the llm subpackage. Every agent owns its
failures: retries are bounded by Retry, which returns an explicit Response
that is either a validated value or a degraded default.
*/
package agents
