package attack

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestStreakThreeAlwaysMemoryLeak(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, d := range []wire.Difficulty{wire.DifficultyEasy, wire.DifficultyMedium, wire.DifficultyHard} {
		require.Equal(t, wire.AttackMemoryLeak, DetermineAttackType(3, d, rng))
		require.Equal(t, wire.AttackMemoryLeak, DetermineAttackType(6, d, rng))
	}
}

func TestStreakZeroIgnoresDivisibility(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	require.Equal(t, wire.AttackGarbageDrop, DetermineAttackType(0, wire.DifficultyEasy, rng))
}

func TestEasyAlwaysGarbageDrop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for streak := 1; streak < 10; streak++ {
		if streak%3 == 0 {
			continue
		}
		require.Equal(t, wire.AttackGarbageDrop, DetermineAttackType(streak, wire.DifficultyEasy, rng))
	}
}

func TestHardAlwaysDDoS(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	require.Equal(t, wire.AttackDDoS, DetermineAttackType(1, wire.DifficultyHard, rng))
}

func TestMediumIsFlashbangOrVimLock(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[wire.AttackType]bool{}
	for i := 0; i < 200; i++ {
		seen[DetermineAttackType(1, wire.DifficultyMedium, rng)] = true
	}
	require.True(t, seen[wire.AttackFlashbang])
	require.True(t, seen[wire.AttackVimLock])
}

func TestDurationScalesByIntensity(t *testing.T) {
	require.Equal(t, 12*time.Second, Duration(wire.AttackDDoS, "low"))
	require.InDelta(t, float64(12*time.Second)*1.3, float64(Duration(wire.AttackDDoS, "high")), float64(time.Millisecond))
}

func TestScoreForGarbageIsZero(t *testing.T) {
	require.Equal(t, 0, ScoreFor(wire.DifficultyHard, true))
	require.Equal(t, 20, ScoreFor(wire.DifficultyHard, false))
}

func TestDeterminismGivenSeed(t *testing.T) {
	a := DetermineAttackType(2, wire.DifficultyMedium, rand.New(rand.NewSource(77)))
	b := DetermineAttackType(2, wire.DifficultyMedium, rand.New(rand.NewSource(77)))
	require.Equal(t, a, b)
}
