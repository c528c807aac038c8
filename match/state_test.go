package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestShouldEndLastAlive(t *testing.T) {
	now := time.Now()
	end, reason := ShouldEnd(wire.PhaseMain, now.Add(time.Hour), 1, now)
	require.True(t, end)
	require.Equal(t, wire.EndLastAlive, reason)
}

func TestShouldEndTimeExpired(t *testing.T) {
	now := time.Now()
	end, reason := ShouldEnd(wire.PhaseMain, now.Add(-time.Second), 5, now)
	require.True(t, end)
	require.Equal(t, wire.EndTimeExpired, reason)
}

func TestShouldNotEndDuringLobby(t *testing.T) {
	now := time.Now()
	end, _ := ShouldEnd(wire.PhaseLobby, now.Add(time.Hour), 1, now)
	require.False(t, end)
}

func TestStandingsScenario6(t *testing.T) {
	// spec §8 scenario 6: Alice score=30 stack=2, Bob score=30 stack=5, Carol score=20 alive.
	in := []StandingsInput{
		{PlayerID: "bob", Username: "Bob", Alive: true, Score: 30, StackSize: 5},
		{PlayerID: "alice", Username: "Alice", Alive: true, Score: 30, StackSize: 2},
		{PlayerID: "carol", Username: "Carol", Alive: true, Score: 20, StackSize: 1},
	}
	st := Standings(in)
	require.Equal(t, "alice", st[0].PlayerID)
	require.Equal(t, "bob", st[1].PlayerID)
	require.Equal(t, "carol", st[2].PlayerID)
	require.Equal(t, "alice", Winner(st))
}

func TestStandingsAliveBeforeEliminated(t *testing.T) {
	in := []StandingsInput{
		{PlayerID: "dead", Alive: false, Score: 1000},
		{PlayerID: "alive", Alive: true, Score: 1},
	}
	st := Standings(in)
	require.Equal(t, "alive", st[0].PlayerID)
}

func TestStandingsLexicographicTiebreak(t *testing.T) {
	in := []StandingsInput{
		{PlayerID: "zzz", Alive: true, Score: 10, StackSize: 1},
		{PlayerID: "aaa", Alive: true, Score: 10, StackSize: 1},
	}
	st := Standings(in)
	require.Equal(t, "aaa", st[0].PlayerID)
}

func TestWarmupEndIsTenPercent(t *testing.T) {
	start := time.Now()
	we := WarmupEnd(start, 100*time.Second)
	require.Equal(t, start.Add(10*time.Second), we)
}
