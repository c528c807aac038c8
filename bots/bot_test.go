package bots

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestSolveDurationIsDeterministicForSameSeed(t *testing.T) {
	a := SolveDuration(wire.DifficultyHard, rand.New(rand.NewSource(7)))
	b := SolveDuration(wire.DifficultyHard, rand.New(rand.NewSource(7)))
	require.Equal(t, a, b)
}

func TestSolveDurationScalesWithDifficulty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	easy := SolveDuration(wire.DifficultyEasy, rng)
	hard := SolveDuration(wire.DifficultyHard, rng)
	require.Less(t, easy.Seconds(), hard.Seconds())
}

func TestPassesConvergesNearEightyPercent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	passes := 0
	const trials = 20000
	for i := 0; i < trials; i++ {
		if Passes(rng) {
			passes++
		}
	}
	rate := float64(passes) / float64(trials)
	require.InDelta(t, PassRate, rate, 0.02)
}
