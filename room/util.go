package room

import (
	"encoding/json"

	"github.com/Tien-Cheng/leetcode-99-sub000/ratelimit"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func unmarshalPayload(in *wire.Inbound, v interface{}) error {
	if len(in.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(in.Payload, v)
}

// checkRateLimit applies the rate limiter and, on violation, replies with
// RATE_LIMITED (spec §4.2). Returns false if the caller should stop.
func (r *Room) checkRateLimit(p *Player, c *Conn, requestID string, action ratelimit.Action) bool {
	res := r.ratelimits.Check(p.PlayerID, action, r.now())
	if !res.Allowed {
		c.SendError(requestID, wire.NewRateLimited(res.RetryAfterMs))
		return false
	}
	return true
}
