package problems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func sampleSet() []*wire.Problem {
	return []*wire.Problem{
		{ProblemID: "e1", Difficulty: wire.DifficultyEasy, ProblemType: wire.ProblemTypeCode, TimeLimitMs: 1000, FunctionName: "f", Signature: "f()"},
		{ProblemID: "e2", Difficulty: wire.DifficultyEasy, ProblemType: wire.ProblemTypeCode, TimeLimitMs: 1000, FunctionName: "f", Signature: "f()"},
		{ProblemID: "m1", Difficulty: wire.DifficultyMedium, ProblemType: wire.ProblemTypeCode, TimeLimitMs: 1000, FunctionName: "f", Signature: "f()"},
		{ProblemID: "h1", Difficulty: wire.DifficultyHard, ProblemType: wire.ProblemTypeCode, TimeLimitMs: 1000, FunctionName: "f", Signature: "f()"},
		{ProblemID: "g1", Difficulty: wire.DifficultyEasy, ProblemType: wire.ProblemTypeCode, TimeLimitMs: 1000, FunctionName: "f", Signature: "f()", IsGarbage: true},
	}
}

func TestLoadRejectsDuplicate(t *testing.T) {
	set := sampleSet()
	set = append(set, set[0])
	_, err := Load(set)
	require.Error(t, err)
}

func TestSampleDeterministicGivenSeed(t *testing.T) {
	lib, err := Load(sampleSet())
	require.NoError(t, err)

	run := func(seed int64) string {
		rng := rand.New(rand.NewSource(seed))
		p, _ := lib.Sample(nil, "moderate", true, rng)
		return p.ProblemID
	}

	a := run(42)
	b := run(42)
	require.Equal(t, a, b)
}

func TestSampleExcludesGarbageWhenAsked(t *testing.T) {
	lib, err := Load(sampleSet())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		p, _ := lib.Sample(nil, "moderate", true, rng)
		require.False(t, p.IsGarbage)
	}
}

func TestSampleResetsSeenWhenExhausted(t *testing.T) {
	lib, err := Load(sampleSet())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	seen := map[string]bool{"e1": true, "e2": true, "m1": true, "h1": true}
	p, newSeen := lib.Sample(seen, "moderate", true, rng)
	require.NotNil(t, p)
	// seen was full, so it must have reset to just the newly chosen id.
	require.Len(t, newSeen, 1)
}

func TestSampleGarbageReturnsGarbageProblem(t *testing.T) {
	lib, err := Load(sampleSet())
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))
	p := lib.SampleGarbage(rng)
	require.True(t, p.IsGarbage)
}
