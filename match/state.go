// Package match implements the Match State Machine (spec §4.9): phase
// transitions, match-end determination, and standings ordering.
package match

import (
	"sort"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// WarmupFraction is the fraction of matchDurationSec spent in warmup
// (spec §4.9: "warmup ends at startAt + 10% of duration").
const WarmupFraction = 0.10

// WarmupEnd computes the warmup->main transition instant.
func WarmupEnd(startAt time.Time, matchDuration time.Duration) time.Time {
	return startAt.Add(time.Duration(float64(matchDuration) * WarmupFraction))
}

// ShouldEnd is a pure function deciding whether the match should transition
// to `ended` (spec §4.9):
//
//	lastAlive    when aliveCount <= 1
//	timeExpired  when now >= endAt
func ShouldEnd(phase wire.MatchPhase, endAt time.Time, aliveCount int, now time.Time) (bool, wire.MatchEndReason) {
	if phase == wire.PhaseEnded || phase == wire.PhaseLobby {
		return false, ""
	}
	if aliveCount <= 1 {
		return true, wire.EndLastAlive
	}
	if !now.Before(endAt) {
		return true, wire.EndTimeExpired
	}
	return false, ""
}

// StandingsInput is one non-spectator participant's state for ordering.
type StandingsInput struct {
	PlayerID  string
	Username  string
	Alive     bool
	Score     int
	StackSize int
}

// Standings computes the ranked order (spec §4.9: "alive before eliminated;
// then higher score; then lower stackSize; then lexicographic playerId").
// It is a pure, deterministic sort.
func Standings(participants []StandingsInput) []wire.StandingEntry {
	sorted := append([]StandingsInput{}, participants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Alive != b.Alive {
			return a.Alive // alive sorts first
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.StackSize != b.StackSize {
			return a.StackSize < b.StackSize
		}
		return a.PlayerID < b.PlayerID
	})

	out := make([]wire.StandingEntry, len(sorted))
	for i, p := range sorted {
		out[i] = wire.StandingEntry{
			Rank:      i + 1,
			PlayerID:  p.PlayerID,
			Username:  p.Username,
			Score:     p.Score,
			StackSize: p.StackSize,
			Alive:     p.Alive,
		}
	}
	return out
}

// Winner returns the winning playerId for a MATCH_END event (spec §4.9:
// "Winner: for lastAlive, the first alive in the ordering; for
// timeExpired, the first of the ordering"). Both reduce to "first row of
// Standings" given Standings already orders alive-before-eliminated.
func Winner(standings []wire.StandingEntry) string {
	if len(standings) == 0 {
		return ""
	}
	return standings[0].PlayerID
}
