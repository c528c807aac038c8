package targeting

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestTopScoreTiesUniform(t *testing.T) {
	cands := []Candidate{{PlayerID: "a", Score: 10}, {PlayerID: "b", Score: 10}, {PlayerID: "c", Score: 5}}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		pick := SelectTarget(Input{Mode: wire.TargetTopScore, Candidates: cands, Rng: rand.New(rand.NewSource(int64(i)))})
		seen[pick] = true
	}
	require.Contains(t, seen, "a")
	require.Contains(t, seen, "b")
	require.NotContains(t, seen, "c")
}

func TestNearDeathPicksHighestRatio(t *testing.T) {
	cands := []Candidate{{PlayerID: "a", StackSize: 9}, {PlayerID: "b", StackSize: 2}}
	pick := SelectTarget(Input{Mode: wire.TargetNearDeath, Candidates: cands, StackLimit: 10, Rng: rand.New(rand.NewSource(1))})
	require.Equal(t, "a", pick)
}

func TestAttackersWindowBoundary(t *testing.T) {
	cands := []Candidate{{PlayerID: "x"}, {PlayerID: "y"}}

	// exactly 20000ms: in window (inclusive).
	in := Input{
		Mode:          wire.TargetAttackers,
		Candidates:    cands,
		AttackerID:    "me",
		RecentAttacks: []Attack{{AttackerID: "x", At: 0}},
		NowMs:         20_000,
		Rng:           rand.New(rand.NewSource(1)),
	}
	require.Equal(t, "x", SelectTarget(in))

	// 20001ms: out of window, falls back to random over all candidates.
	in.NowMs = 20_001
	pick := SelectTarget(in)
	require.Contains(t, []string{"x", "y"}, pick)
}

func TestAttackersFallsBackToRandomWhenNoAttacker(t *testing.T) {
	cands := []Candidate{{PlayerID: "x"}, {PlayerID: "y"}}
	in := Input{Mode: wire.TargetAttackers, Candidates: cands, Rng: rand.New(rand.NewSource(1))}
	pick := SelectTarget(in)
	require.Contains(t, []string{"x", "y"}, pick)
}

func TestRankAboveFallsBackWhenFirst(t *testing.T) {
	cands := []Candidate{{PlayerID: "b"}, {PlayerID: "c"}}
	in := Input{
		Mode:       wire.TargetRankAbove,
		Candidates: cands,
		AttackerID: "a",
		Ranking:    []string{"a", "b", "c"},
		Rng:        rand.New(rand.NewSource(1)),
	}
	pick := SelectTarget(in)
	require.Contains(t, []string{"b", "c"}, pick)
}

func TestRankAbovePicksImmediatePredecessor(t *testing.T) {
	cands := []Candidate{{PlayerID: "a"}, {PlayerID: "c"}}
	in := Input{
		Mode:       wire.TargetRankAbove,
		Candidates: cands,
		AttackerID: "b",
		Ranking:    []string{"a", "b", "c"},
		Rng:        rand.New(rand.NewSource(1)),
	}
	require.Equal(t, "a", SelectTarget(in))
}

func TestSelectTargetDeterministic(t *testing.T) {
	cands := []Candidate{{PlayerID: "a"}, {PlayerID: "b"}, {PlayerID: "c"}}
	in1 := Input{Mode: wire.TargetRandom, Candidates: cands, Rng: rand.New(rand.NewSource(99))}
	in2 := Input{Mode: wire.TargetRandom, Candidates: cands, Rng: rand.New(rand.NewSource(99))}
	require.Equal(t, SelectTarget(in1), SelectTarget(in2))
}

func TestNoEligibleCandidatesReturnsEmpty(t *testing.T) {
	pick := SelectTarget(Input{Mode: wire.TargetRandom, Candidates: nil, Rng: rand.New(rand.NewSource(1))})
	require.Equal(t, "", pick)
}
