// Package scheduler implements the per-player problem arrival scheduler
// (spec §4.3): a dynamic interval modulated by buffs/debuffs, and a single
// earliest-wakeup alarm the Room rearms after every mutation, grounded on
// wsnet2's single-timer-per-room idiom (game/room.go's chRoomInfo
// debounce timer).
package scheduler

import "time"

const (
	baseWarmup = 90 * time.Second
	baseMain   = 60 * time.Second

	// floorInterval avoids busy loops (spec §4.3: "keeps a floor of 1s").
	floorInterval = 1 * time.Second
)

// Base returns the un-modulated arrival interval for a match phase
// (spec §4.3: "90s in warmup, 60s in main").
func Base(phase string) time.Duration {
	if phase == "warmup" {
		return baseWarmup
	}
	return baseMain
}

// EffectiveInterval applies the buff/debuff modulation (spec §4.3):
//
//	base(phase) * (hasMemoryLeak ? 0.5 : 1) * (hasRateLimiter ? 2 : 1)
func EffectiveInterval(phase string, hasMemoryLeak, hasRateLimiter bool) time.Duration {
	d := Base(phase)
	if hasMemoryLeak {
		d = time.Duration(float64(d) * 0.5)
	}
	if hasRateLimiter {
		d = d * 2
	}
	if d < floorInterval {
		d = floorInterval
	}
	return d
}

// PlayerArrival is the scheduling state for one eligible (non-eliminated,
// non-spectator) player.
type PlayerArrival struct {
	PlayerID         string
	LastArrivalAt    time.Time
	HasMemoryLeak    bool
	HasRateLimiter   bool
}

// NextArrival returns when this player's next problem is due.
func (p PlayerArrival) NextArrival(phase string) time.Time {
	return p.LastArrivalAt.Add(EffectiveInterval(phase, p.HasMemoryLeak, p.HasRateLimiter))
}

// Fired reports, for every eligible player, whether `now` has reached their
// next-arrival instant (spec §4.3: "now - lastArrival >= effectiveInterval").
func Fired(players []PlayerArrival, phase string, now time.Time) []string {
	var out []string
	for _, p := range players {
		if !now.Before(p.NextArrival(phase)) {
			out = append(out, p.PlayerID)
		}
	}
	return out
}

// NextWakeup computes the single absolute-instant the Room should arm its
// next alarm for (spec §4.3): the minimum of every eligible player's next
// arrival, the warmup-end instant (if still in warmup), and matchEnd.
// warmupEnd and matchEnd may be the zero Time to mean "not applicable".
func NextWakeup(players []PlayerArrival, phase string, warmupEnd, matchEnd time.Time) time.Time {
	var min time.Time
	consider := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if min.IsZero() || t.Before(min) {
			min = t
		}
	}

	for _, p := range players {
		consider(p.NextArrival(phase))
	}
	if phase == "warmup" {
		consider(warmupEnd)
	}
	consider(matchEnd)
	return min
}
