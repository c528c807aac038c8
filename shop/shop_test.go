package shop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestRateLimiterPurchaseThenCooldown(t *testing.T) {
	now := time.Now()
	v := CanPurchase(PurchaseCheck{Item: wire.ItemRateLimiter, Score: 10, Now: now})
	require.True(t, v.Allowed)

	cooldownUntil := now.Add(60 * time.Second)
	v2 := CanPurchase(PurchaseCheck{Item: wire.ItemRateLimiter, Score: 10, Now: now.Add(10 * time.Second), CooldownUntil: cooldownUntil})
	require.False(t, v2.Allowed)
	require.Equal(t, wire.ErrItemOnCooldown, v2.ErrorCode)
	require.LessOrEqual(t, v2.RetryAfterMs, int64(60_000))
}

func TestInsufficientScore(t *testing.T) {
	v := CanPurchase(PurchaseCheck{Item: wire.ItemClearDebuff, Score: 0, Now: time.Now()})
	require.False(t, v.Allowed)
	require.Equal(t, wire.ErrInsufficientScore, v.ErrorCode)
}

func TestSkipProblemNegativeScoreEscapeHatch(t *testing.T) {
	v := CanPurchase(PurchaseCheck{Item: wire.ItemSkipProblem, Score: 0, Now: time.Now(), AllowNegativeSkip: true})
	require.True(t, v.Allowed)

	v2 := CanPurchase(PurchaseCheck{Item: wire.ItemSkipProblem, Score: 0, Now: time.Now(), AllowNegativeSkip: false})
	require.False(t, v2.Allowed)
}

func TestUnknownItemBadRequest(t *testing.T) {
	v := CanPurchase(PurchaseCheck{Item: "not-a-real-item", Score: 1000, Now: time.Now()})
	require.False(t, v.Allowed)
	require.Equal(t, wire.ErrBadRequest, v.ErrorCode)
}
