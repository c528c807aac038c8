// Package targeting implements the Targeting Engine (spec §4.4): selecting
// a victim for an attack under one of the closed TargetingMode policies.
package targeting

import (
	"math/rand"
	"sort"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// Candidate is one eligible target (spec §4.4: "alive, not self, not
// spectator, not in grace").
type Candidate struct {
	PlayerID  string
	Score     int
	StackSize int
}

// Attack is one recent incoming attack, used by the `attackers` policy
// (spec §4.4: "players who attacked attacker within the last 20s").
type Attack struct {
	AttackerID string
	At         int64 // unix millis
}

// Input bundles everything SelectTarget needs to stay a pure function of
// its arguments (spec §8 determinism law).
type Input struct {
	Mode           wire.TargetingMode
	Candidates     []Candidate
	StackLimit     int
	AttackerID     string
	RecentAttacks  []Attack // attacks directed at AttackerID, any age
	NowMs          int64
	Ranking        []string // all non-spectator player ids, best score first, ties by the rules in spec §4.9 standings
	Rng            *rand.Rand
}

// AttackersWindowMs is the lookback window for the `attackers` policy
// (spec §4.4, boundary test: "exactly 20,000ms... 20,001ms is out of
// window").
const AttackersWindowMs = 20_000

// SelectTarget picks one victim under the given policy, or "" if there are
// no eligible candidates at all.
func SelectTarget(in Input) string {
	if len(in.Candidates) == 0 {
		return ""
	}

	switch in.Mode {
	case wire.TargetTopScore:
		return pickUniform(topScoreGroup(in.Candidates), in.Rng)

	case wire.TargetNearDeath:
		return pickUniform(nearDeathGroup(in.Candidates, in.StackLimit), in.Rng)

	case wire.TargetAttackers:
		recent := recentAttackerIDs(in.RecentAttacks, in.NowMs)
		eligible := intersectCandidates(in.Candidates, recent)
		if len(eligible) == 0 {
			return pickUniform(allIDs(in.Candidates), in.Rng)
		}
		return pickUniform(eligible, in.Rng)

	case wire.TargetRankAbove:
		above, ok := rankAbove(in.Ranking, in.AttackerID, in.Candidates)
		if !ok {
			return pickUniform(allIDs(in.Candidates), in.Rng)
		}
		return above

	default: // wire.TargetRandom and any unrecognized mode fall back to random
		return pickUniform(allIDs(in.Candidates), in.Rng)
	}
}

func allIDs(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.PlayerID
	}
	return out
}

func pickUniform(ids []string, rng *rand.Rand) string {
	if len(ids) == 0 {
		return ""
	}
	// Sort for determinism: the RNG draw is the only source of randomness,
	// never map/slice iteration order.
	sorted := append([]string{}, ids...)
	sort.Strings(sorted)
	return sorted[rng.Intn(len(sorted))]
}

func topScoreGroup(cs []Candidate) []string {
	max := cs[0].Score
	for _, c := range cs {
		if c.Score > max {
			max = c.Score
		}
	}
	var ids []string
	for _, c := range cs {
		if c.Score == max {
			ids = append(ids, c.PlayerID)
		}
	}
	return ids
}

func nearDeathGroup(cs []Candidate, stackLimit int) []string {
	if stackLimit <= 0 {
		stackLimit = 1
	}
	best := -1.0
	for _, c := range cs {
		ratio := float64(c.StackSize) / float64(stackLimit)
		if ratio > best {
			best = ratio
		}
	}
	var ids []string
	for _, c := range cs {
		ratio := float64(c.StackSize) / float64(stackLimit)
		if ratio == best {
			ids = append(ids, c.PlayerID)
		}
	}
	return ids
}

func recentAttackerIDs(attacks []Attack, nowMs int64) []string {
	var ids []string
	for _, a := range attacks {
		if nowMs-a.At <= AttackersWindowMs {
			ids = append(ids, a.AttackerID)
		}
	}
	return ids
}

func intersectCandidates(cs []Candidate, ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []string
	for _, c := range cs {
		if set[c.PlayerID] {
			out = append(out, c.PlayerID)
		}
	}
	return out
}

// rankAbove finds the player immediately above attackerID in ranking that
// is also present in candidates (spec §4.4, §10.2: "player
// immediately above the attacker in current score ranking; falls back to
// random if the attacker is already first or has no eligible target
// above them").
func rankAbove(ranking []string, attackerID string, candidates []Candidate) (string, bool) {
	idx := -1
	for i, id := range ranking {
		if id == attackerID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return "", false
	}
	eligible := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		eligible[c.PlayerID] = true
	}
	above := ranking[idx-1]
	if !eligible[above] {
		return "", false
	}
	return above, true
}
