// Package attack implements the Attack Engine (spec §4.4): converting a
// passing SUBMIT_CODE into an attack payload, and computing debuff
// durations and grace windows.
package attack

import (
	"math/rand"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// ScoreFor returns the score a passing submit awards (spec §4.4:
// "{easy:5, medium:10, hard:20}[difficulty], 0 if problem.isGarbage").
func ScoreFor(difficulty wire.Difficulty, isGarbage bool) int {
	if isGarbage {
		return 0
	}
	switch difficulty {
	case wire.DifficultyEasy:
		return 5
	case wire.DifficultyMedium:
		return 10
	case wire.DifficultyHard:
		return 20
	default:
		return 0
	}
}

// DetermineAttackType is a pure function of (streak, difficulty, rng)
// (spec §4.4, §8 determinism law):
//
//	streak>0 && streak%3==0 -> memoryLeak (regardless of difficulty)
//	else by difficulty: easy->garbageDrop, medium->random{flashbang,vimLock} (P=0.5), hard->ddos
func DetermineAttackType(streak int, difficulty wire.Difficulty, rng *rand.Rand) wire.AttackType {
	if streak > 0 && streak%3 == 0 {
		return wire.AttackMemoryLeak
	}
	switch difficulty {
	case wire.DifficultyEasy:
		return wire.AttackGarbageDrop
	case wire.DifficultyMedium:
		if rng.Float64() < 0.5 {
			return wire.AttackFlashbang
		}
		return wire.AttackVimLock
	case wire.DifficultyHard:
		return wire.AttackDDoS
	default:
		return wire.AttackGarbageDrop
	}
}

// baseDuration is the un-scaled debuff duration (spec §4.4).
func baseDuration(t wire.AttackType) time.Duration {
	switch wire.DebuffType(t) {
	case wire.DebuffDDoS:
		return 12 * time.Second
	case wire.DebuffFlashbang:
		return 25 * time.Second
	case wire.DebuffVimLock:
		return 12 * time.Second
	case wire.DebuffMemoryLeak:
		return 30 * time.Second
	default:
		return 0
	}
}

// GraceDuration is the immunity window after a debuff ends (spec §4.4, §4.7).
const GraceDuration = 5 * time.Second

// Duration computes the intensity-scaled debuff duration (spec §4.4:
// "duration = baseDur(type) * (attackIntensity=='high' ? 1.3 : 1)").
func Duration(t wire.AttackType, attackIntensity string) time.Duration {
	base := baseDuration(t)
	if attackIntensity == "high" {
		return time.Duration(float64(base) * 1.3)
	}
	return base
}

// IsDebuff reports whether an AttackType applies a Debuff rather than just
// enqueuing a garbage problem (spec §4.4).
func IsDebuff(t wire.AttackType) bool {
	return t != wire.AttackGarbageDrop
}
