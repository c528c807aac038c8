package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckTightness(t *testing.T) {
	// SEND_CHAT: interval 500ms, max 2.
	start := time.Now()
	st := State{}

	r1 := Check(ActionSendChat, st, start)
	require.True(t, r1.Allowed)
	st = r1.NewState

	r2 := Check(ActionSendChat, st, start.Add(100*time.Millisecond))
	require.True(t, r2.Allowed)
	st = r2.NewState

	r3 := Check(ActionSendChat, st, start.Add(200*time.Millisecond))
	require.False(t, r3.Allowed)
	require.Equal(t, int64(300), r3.RetryAfterMs)
}

func TestCheckWindowResetsAfterInterval(t *testing.T) {
	start := time.Now()
	st := State{}
	r1 := Check(ActionRunCode, st, start)
	require.True(t, r1.Allowed)
	st = r1.NewState

	r2 := Check(ActionRunCode, st, start.Add(2001*time.Millisecond))
	require.True(t, r2.Allowed)
}

func TestUnknownActionAlwaysPasses(t *testing.T) {
	r := Check("NOT_A_REAL_ACTION", State{Count: 999}, time.Now())
	require.True(t, r.Allowed)
}

func TestCheckDeterministic(t *testing.T) {
	now := time.Now()
	st := State{WindowStart: now, Count: 1}
	r1 := Check(ActionSubmitCode, st, now.Add(time.Second))
	r2 := Check(ActionSubmitCode, st, now.Add(time.Second))
	require.Equal(t, r1, r2)
}

func TestStoreForget(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Check("p1", ActionSendChat, now)
	s.Check("p1", ActionSendChat, now)
	r := s.Check("p1", ActionSendChat, now)
	require.False(t, r.Allowed)

	s.Forget("p1")
	r2 := s.Check("p1", ActionSendChat, now)
	require.True(t, r2.Allowed)
}
