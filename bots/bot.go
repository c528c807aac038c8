// Package bots implements the per-bot solve-time/pass-rate model
// (§4 "Bot solve-time model"): a pure, seedable function of
// (difficulty, rng) standing in for a bot player's code submission, so a
// match with bots behaves like one where every seat is occupied by an
// actor that can be attacked and can attack back (§10.4).
package bots

import (
	"math/rand"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// PassRate is the fixed probability a bot's submission passes (§4:
// "80% pass rate").
const PassRate = 0.8

// baseSolveSeconds is the mean solve time per difficulty before jitter.
var baseSolveSeconds = map[wire.Difficulty]float64{
	wire.DifficultyEasy:   12,
	wire.DifficultyMedium: 25,
	wire.DifficultyHard:   45,
}

// retryDelay is how long a bot waits before re-attempting a problem it
// just failed.
const retryDelay = 5 * time.Second

// SolveDuration draws how long a bot takes to attempt a problem, a pure
// function of (difficulty, rng) so replays are deterministic (spec §8
// determinism law). The jitter is uniform in [0.5x, 1.5x) the difficulty's
// base solve time.
func SolveDuration(difficulty wire.Difficulty, rng *rand.Rand) time.Duration {
	base, ok := baseSolveSeconds[difficulty]
	if !ok {
		base = baseSolveSeconds[wire.DifficultyMedium]
	}
	jitter := 0.5 + rng.Float64() // [0.5, 1.5)
	return time.Duration(base * jitter * float64(time.Second))
}

// RetryDelay is how long to wait before a bot's next attempt after a
// failed submission.
func RetryDelay() time.Duration {
	return retryDelay
}

// Passes draws whether a bot's attempt succeeds, a pure function of rng
// (spec §8 determinism law).
func Passes(rng *rand.Rand) bool {
	return rng.Float64() < PassRate
}
