// Package ratelimit implements the per-connection, per-action sliding
// window check (spec §4.2). The core is a pure function so it can be
// property-tested and replayed deterministically (spec §8).
package ratelimit

import "time"

// Action is the closed set of rate-limited actions (spec §4.2).
type Action string

const (
	ActionRunCode         Action = "RUN_CODE"
	ActionSubmitCode      Action = "SUBMIT_CODE"
	ActionCodeUpdate      Action = "CODE_UPDATE"
	ActionSpectatePlayer  Action = "SPECTATE_PLAYER"
	ActionSendChat        Action = "SEND_CHAT"
)

// Limit is (intervalMs, maxRequests) for one action (spec §4.2).
type Limit struct {
	Interval    time.Duration
	MaxRequests int
}

// Limits is the closed action->limit table (spec §4.2).
var Limits = map[Action]Limit{
	ActionRunCode:        {Interval: 2000 * time.Millisecond, MaxRequests: 1},
	ActionSubmitCode:     {Interval: 3000 * time.Millisecond, MaxRequests: 1},
	ActionCodeUpdate:     {Interval: 100 * time.Millisecond, MaxRequests: 10},
	ActionSpectatePlayer: {Interval: 1000 * time.Millisecond, MaxRequests: 1},
	ActionSendChat:       {Interval: 500 * time.Millisecond, MaxRequests: 2},
}

// State is the sliding-window state for one (player, action) pair
// (spec §4.2: "State: {windowStart, count}").
type State struct {
	WindowStart time.Time
	Count       int
}

// Result is the outcome of one Check call.
type Result struct {
	Allowed      bool
	NewState     State
	RetryAfterMs int64
}

// Check is the pure sliding-window function (spec §4.2: "Pure function:
// check(action, state, now) -> {allowed, newState, retryAfterMs?}").
// Unknown actions always pass (spec §4.2: "Unknown actions pass").
func Check(action Action, state State, now time.Time) Result {
	limit, known := Limits[action]
	if !known {
		return Result{Allowed: true, NewState: state}
	}

	// Start (or restart) the window if this is the first request or the
	// previous window has fully elapsed.
	if state.WindowStart.IsZero() || now.Sub(state.WindowStart) >= limit.Interval {
		return Result{Allowed: true, NewState: State{WindowStart: now, Count: 1}}
	}

	if state.Count < limit.MaxRequests {
		return Result{Allowed: true, NewState: State{WindowStart: state.WindowStart, Count: state.Count + 1}}
	}

	elapsed := now.Sub(state.WindowStart)
	retryAfter := limit.Interval - elapsed
	if retryAfter < 0 {
		retryAfter = 0
	}
	return Result{
		Allowed:      false,
		NewState:     state,
		RetryAfterMs: retryAfter.Milliseconds(),
	}
}

// Store tracks rate-limit State per (player, action), used outside the
// pure core by the Room actor. It is not safe for concurrent use from
// multiple goroutines; the Room's single-writer dispatch already serializes
// all access the same way every other per-room mutable state is serialized.
type Store struct {
	states map[string]map[Action]State
}

// NewStore creates an empty rate-limit state store.
func NewStore() *Store {
	return &Store{states: make(map[string]map[Action]State)}
}

// Check looks up, checks, and updates the state for (playerID, action).
func (s *Store) Check(playerID string, action Action, now time.Time) Result {
	perPlayer, ok := s.states[playerID]
	if !ok {
		perPlayer = make(map[Action]State)
		s.states[playerID] = perPlayer
	}
	res := Check(action, perPlayer[action], now)
	if res.Allowed {
		perPlayer[action] = res.NewState
	}
	return res
}

// Forget drops all rate-limit state for a player (e.g. on elimination or
// return-to-lobby).
func (s *Store) Forget(playerID string) {
	delete(s.states, playerID)
}
