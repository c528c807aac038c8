// Package shop implements the shop catalog and item effects (spec §4.7).
package shop

import (
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// Cost is the closed catalog cost table (spec §4.7).
var Cost = map[wire.ShopItem]int{
	wire.ItemClearDebuff:  10,
	wire.ItemMemoryDefrag: 10,
	wire.ItemSkipProblem:  15,
	wire.ItemRateLimiter:  10,
	wire.ItemHint:         5,
}

// Cooldown is the closed catalog cooldown table; only rateLimiter has one
// (spec §4.7).
var Cooldown = map[wire.ShopItem]time.Duration{
	wire.ItemRateLimiter: 60 * time.Second,
}

// RateLimiterBuffDuration is how long the rateLimiter buff lasts once
// purchased (spec §4.7).
const RateLimiterBuffDuration = 30 * time.Second

// PurchaseCheck bundles the inputs canPurchaseItem needs to stay a pure
// function (spec §8 determinism law).
type PurchaseCheck struct {
	Item              wire.ShopItem
	Score             int
	CooldownUntil     time.Time // zero means no cooldown active
	Now               time.Time
	AllowNegativeSkip bool // §10.1 feature flag
}

// Verdict is the result of CanPurchase.
type Verdict struct {
	Allowed      bool
	ErrorCode    wire.ErrorCode
	RetryAfterMs int64
}

// CanPurchase is the pure canPurchaseItem function (spec §4.7, §8).
// skipProblem is the one documented escape hatch: when AllowNegativeSkip is
// set, it may be purchased even if score < cost (§10.1).
func CanPurchase(c PurchaseCheck) Verdict {
	cost, known := Cost[c.Item]
	if !known {
		return Verdict{Allowed: false, ErrorCode: wire.ErrBadRequest}
	}

	if cd, has := Cooldown[c.Item]; has {
		if !c.CooldownUntil.IsZero() && c.Now.Before(c.CooldownUntil) {
			retry := c.CooldownUntil.Sub(c.Now)
			if retry > cd {
				retry = cd
			}
			return Verdict{Allowed: false, ErrorCode: wire.ErrItemOnCooldown, RetryAfterMs: retry.Milliseconds()}
		}
	}

	if c.Score < cost {
		if c.Item == wire.ItemSkipProblem && c.AllowNegativeSkip {
			return Verdict{Allowed: true}
		}
		return Verdict{Allowed: false, ErrorCode: wire.ErrInsufficientScore}
	}

	return Verdict{Allowed: true}
}
