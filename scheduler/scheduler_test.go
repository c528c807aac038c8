package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEffectiveIntervalMemoryLeakHalves(t *testing.T) {
	require.Equal(t, 30*time.Second, EffectiveInterval("main", true, false))
}

func TestEffectiveIntervalRateLimiterDoubles(t *testing.T) {
	require.Equal(t, 120*time.Second, EffectiveInterval("main", false, true))
}

func TestEffectiveIntervalBothStack(t *testing.T) {
	// 60s * 0.5 * 2 = 60s
	require.Equal(t, 60*time.Second, EffectiveInterval("main", true, true))
}

func TestEffectiveIntervalFloor(t *testing.T) {
	require.GreaterOrEqual(t, EffectiveInterval("main", true, false), 1*time.Second)
}

func TestFiredSelectsDuePlayers(t *testing.T) {
	now := time.Now()
	players := []PlayerArrival{
		{PlayerID: "a", LastArrivalAt: now.Add(-61 * time.Second)},
		{PlayerID: "b", LastArrivalAt: now.Add(-10 * time.Second)},
	}
	fired := Fired(players, "main", now)
	require.Equal(t, []string{"a"}, fired)
}

func TestNextWakeupTakesMinimum(t *testing.T) {
	now := time.Now()
	players := []PlayerArrival{
		{PlayerID: "a", LastArrivalAt: now},
	}
	matchEnd := now.Add(10 * time.Second)
	wakeup := NextWakeup(players, "main", time.Time{}, matchEnd)
	require.Equal(t, matchEnd, wakeup)
}

func TestNextWakeupConsidersWarmupEnd(t *testing.T) {
	now := time.Now()
	players := []PlayerArrival{{PlayerID: "a", LastArrivalAt: now}}
	warmupEnd := now.Add(5 * time.Second)
	matchEnd := now.Add(600 * time.Second)
	wakeup := NextWakeup(players, "warmup", warmupEnd, matchEnd)
	require.Equal(t, warmupEnd, wakeup)
}
