package room

import (
	"context"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/attack"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/ratelimit"
	"github.com/Tien-Cheng/leetcode-99-sub000/shop"
	"github.com/Tien-Cheng/leetcode-99-sub000/targeting"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// handleSetTargetMode implements SET_TARGET_MODE (spec §4.1: "any
// non-spectator; set targetingMode").
func (r *Room) handleSetTargetMode(p *Player, c *Conn, in *wire.Inbound) {
	if p.IsSpectator() {
		c.SendError(in.RequestID, wire.NewError(wire.ErrForbidden, "spectators have no targeting mode"))
		return
	}
	var payload wire.SetTargetModePayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed SET_TARGET_MODE"))
		return
	}
	switch payload.Mode {
	case wire.TargetRandom, wire.TargetAttackers, wire.TargetTopScore, wire.TargetNearDeath, wire.TargetRankAbove:
	default:
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "unknown targeting mode"))
		return
	}
	p.TargetingMode = payload.Mode
	r.broadcastPlayerUpdate(p)
}

// validateCodeSubmission applies the preconditions common to RUN_CODE and
// SUBMIT_CODE (spec §4.1): not eliminated, no active ddos, code matches the
// player's currentProblem, and the code payload is within bounds.
func (r *Room) validateCodeSubmission(p *Player, c *Conn, in *wire.Inbound, problemID, code string) bool {
	if r.match.Phase != wire.PhaseWarmup && r.match.Phase != wire.PhaseMain {
		c.SendError(in.RequestID, wire.NewError(wire.ErrMatchNotStarted, "match not running"))
		return false
	}
	if p.Status == wire.StatusEliminated {
		c.SendError(in.RequestID, wire.NewError(wire.ErrPlayerEliminated, "player eliminated"))
		return false
	}
	if d := p.DebuffAt(r.now()); d != nil && d.Type == wire.DebuffDDoS {
		c.SendError(in.RequestID, wire.NewError(wire.ErrForbidden, "ddos debuff blocks code execution"))
		return false
	}
	if p.CurrentProblem == nil || p.CurrentProblem.ProblemID != problemID {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "problemId does not match current problem"))
		return false
	}
	if len([]byte(code)) > wire.MaxCodeBytes {
		c.SendError(in.RequestID, wire.NewError(wire.ErrPayloadTooLarge, "code too large"))
		return false
	}
	return true
}

// handleRunCode implements RUN_CODE (spec §4.1, §4.8): judges against
// public tests only, without scoring effects.
func (r *Room) handleRunCode(p *Player, c *Conn, in *wire.Inbound) {
	var payload wire.RunCodePayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed RUN_CODE"))
		return
	}
	if !r.validateCodeSubmission(p, c, in, payload.ProblemID, payload.Code) {
		return
	}
	if !r.checkRateLimit(p, c, in.RequestID, ratelimit.ActionRunCode) {
		return
	}

	r.judgeClient.SubmitAsync(context.Background(), p.PlayerID, judge.Request{
		Problem: p.CurrentProblem,
		Code:    payload.Code,
		Kind:    judge.KindRun,
	}, in.RequestID, r.postJudgeResult)
}

// handleSubmitCode implements SUBMIT_CODE (spec §4.1, §4.4, §4.8): judges
// against public+hidden tests; on pass, applies score/streak/attack and
// advances to the next problem.
func (r *Room) handleSubmitCode(p *Player, c *Conn, in *wire.Inbound) {
	var payload wire.SubmitCodePayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed SUBMIT_CODE"))
		return
	}
	if !r.validateCodeSubmission(p, c, in, payload.ProblemID, payload.Code) {
		return
	}
	if !r.checkRateLimit(p, c, in.RequestID, ratelimit.ActionSubmitCode) {
		return
	}

	r.judgeClient.SubmitAsync(context.Background(), p.PlayerID, judge.Request{
		Problem:  p.CurrentProblem,
		Code:     payload.Code,
		OptionID: payload.OptionID,
		Kind:     judge.KindSubmit,
	}, in.RequestID, r.postJudgeResult)
}

// handleJudgeResult delivers a detached judge worker's result back into
// the dispatch loop (spec §5: "delivers the JudgeResult back to the actor
// as a normal inbound event").
func (r *Room) handleJudgeResult(res judge.Result) {
	p, ok := r.players[res.PlayerID]
	if !ok {
		return
	}

	if res.Err != nil {
		if p.Conn != nil {
			if werr, ok := res.Err.(*wire.Error); ok {
				p.Conn.SendError(res.RequestID, werr)
			} else {
				p.Conn.SendError(res.RequestID, wire.NewError(wire.ErrInternal, res.Err.Error()))
			}
		}
		return
	}

	if p.Conn != nil {
		p.Conn.Send(wire.EvJudgeResult, res.RequestID, res.Payload)
	}

	if res.Kind == judge.KindSubmit {
		r.applySubmitResult(p, res)
	}
}

func (r *Room) applySubmitResult(p *Player, res judge.Result) {
	if p.Status == wire.StatusEliminated || p.CurrentProblem == nil {
		return
	}

	if !res.Payload.Passed {
		p.Streak = 0
		p.Status = wire.StatusError
		r.broadcastPlayerUpdate(p)
		p.Status = wire.StatusCoding
		r.broadcastPlayerUpdate(p)
		return
	}

	gained := r.scoreForDifficulty(p.CurrentProblem)
	p.Score += gained
	p.Streak++
	atype := attack.DetermineAttackType(p.Streak, p.CurrentProblem.Difficulty, r.rng)
	r.applyAttack(p, atype)
	r.advanceToNextProblem(p)
	p.Status = wire.StatusCoding
	r.broadcastPlayerUpdate(p)
}

// eligibleCandidates lists targeting-eligible victims for an attack (spec
// §4.4: "alive, not self, not spectator, not in grace"). Grace only
// exempts debuff application; garbageDrop ignores it (spec §4.4: "immune
// to any new debuff (but not to garbageDrop)").
func (r *Room) eligibleCandidates(attacker *Player, ignoreGrace bool) []targeting.Candidate {
	now := r.now()
	var out []targeting.Candidate
	for _, id := range r.participantIDsSorted() {
		pl := r.players[id]
		if pl == attacker || pl.IsSpectator() || pl.Status == wire.StatusEliminated {
			continue
		}
		if !ignoreGrace && pl.InGrace(now) {
			continue
		}
		out = append(out, targeting.Candidate{PlayerID: pl.PlayerID, Score: pl.Score, StackSize: pl.StackSize()})
	}
	return out
}

func (r *Room) applyAttack(attacker *Player, atype wire.AttackType) {
	candidates := r.eligibleCandidates(attacker, atype == wire.AttackGarbageDrop)
	if len(candidates) == 0 {
		return
	}

	now := r.now()
	var recent []targeting.Attack
	for _, a := range attacker.RecentAttacksOnMe.Items() {
		recent = append(recent, a)
	}

	targetID := targeting.SelectTarget(targeting.Input{
		Mode:          attacker.TargetingMode,
		Candidates:    candidates,
		StackLimit:    r.settings.StackLimit,
		AttackerID:    attacker.PlayerID,
		RecentAttacks: recent,
		NowMs:         now.UnixMilli(),
		Ranking:       r.standingsRanking(),
		Rng:           r.rng,
	})
	if targetID == "" {
		return
	}
	target := r.players[targetID]

	var debuff *wire.Debuff
	if atype == wire.AttackGarbageDrop {
		garbage := r.lib.SampleGarbage(r.rng)
		r.enqueueProblem(target, garbage)
	} else {
		dur := attack.Duration(atype, r.settings.AttackIntensity)
		d := &wire.Debuff{Type: wire.DebuffType(atype), EndsAt: now.Add(dur).UnixMilli()}
		target.ActiveDebuff = d
		target.Status = wire.StatusUnderAttack
		debuff = d
	}
	target.RecentAttacksOnMe.Push(targeting.Attack{AttackerID: attacker.PlayerID, At: now.UnixMilli()})

	if target.Conn != nil {
		target.Conn.Send(wire.EvAttackReceived, "", wire.AttackReceivedPayload{
			AttackerID: attacker.PlayerID,
			Type:       atype,
			Debuff:     debuff,
		})
	}
	r.broadcastPlayerUpdate(target)
}

// handleSpendPoints implements SPEND_POINTS (spec §4.1, §4.7).
func (r *Room) handleSpendPoints(p *Player, c *Conn, in *wire.Inbound) {
	if p.Status == wire.StatusEliminated {
		c.SendError(in.RequestID, wire.NewError(wire.ErrPlayerEliminated, "player eliminated"))
		return
	}
	var payload wire.SpendPointsPayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed SPEND_POINTS"))
		return
	}

	now := r.now()
	verdict := shop.CanPurchase(shop.PurchaseCheck{
		Item:              payload.Item,
		Score:             p.Score,
		CooldownUntil:     p.ShopCooldownUntil[payload.Item],
		Now:               now,
		AllowNegativeSkip: r.conf.Shop.AllowNegativeSkip,
	})
	if !verdict.Allowed {
		e := wire.NewError(verdict.ErrorCode, "purchase not allowed")
		if verdict.RetryAfterMs > 0 {
			e.RetryAfterMs = &verdict.RetryAfterMs
		}
		c.SendError(in.RequestID, e)
		return
	}

	p.Score -= shop.Cost[payload.Item]
	r.applyShopEffect(p, payload.Item, now)
	if cd, has := shop.Cooldown[payload.Item]; has {
		p.ShopCooldownUntil[payload.Item] = now.Add(cd)
	}
	r.broadcastPlayerUpdate(p)
}

func (r *Room) applyShopEffect(p *Player, item wire.ShopItem, now time.Time) {
	switch item {
	case wire.ItemClearDebuff:
		p.ActiveDebuff = nil
		if p.Status == wire.StatusUnderAttack {
			p.Status = wire.StatusCoding
		}
	case wire.ItemMemoryDefrag:
		kept := p.Queued[:0]
		for _, q := range p.Queued {
			if !q.IsGarbage {
				kept = append(kept, q)
			}
		}
		p.Queued = kept
	case wire.ItemSkipProblem:
		p.CurrentProblem = nil
		p.Streak = 0
		r.advanceToNextProblem(p)
	case wire.ItemRateLimiter:
		p.ActiveBuff = &wire.Buff{Type: wire.BuffRateLimiter, EndsAt: now.Add(shop.RateLimiterBuffDuration).UnixMilli()}
	case wire.ItemHint:
		if p.CurrentProblem != nil && p.RevealedHints < len(p.CurrentProblem.Hints) {
			p.RevealedHints++
		}
	}
}

// handleSpectatePlayer / handleStopSpectate implement SPECTATE_PLAYER and
// STOP_SPECTATE (spec §4.1: "spectator or eliminated; set spectate target").
func (r *Room) handleSpectatePlayer(p *Player, c *Conn, in *wire.Inbound) {
	if p.Role != wire.RoleSpectator && p.Status != wire.StatusEliminated {
		c.SendError(in.RequestID, wire.NewError(wire.ErrForbidden, "only spectators or eliminated players may spectate"))
		return
	}
	if !r.checkRateLimit(p, c, in.RequestID, ratelimit.ActionSpectatePlayer) {
		return
	}
	var payload wire.SpectatePlayerPayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed SPECTATE_PLAYER"))
		return
	}
	target, ok := r.players[payload.PlayerID]
	if !ok || target.IsSpectator() {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "unknown spectate target"))
		return
	}
	p.SpectatingPlayerID = payload.PlayerID
	c.Send(wire.EvSpectateState, in.RequestID, wire.SpectateStatePayload{Spectating: &wire.SpectateView{PlayerID: payload.PlayerID}})
}

func (r *Room) handleStopSpectate(p *Player, c *Conn, in *wire.Inbound) {
	p.SpectatingPlayerID = ""
	c.Send(wire.EvSpectateState, in.RequestID, wire.SpectateStatePayload{Spectating: nil})
}

// handleCodeUpdate implements CODE_UPDATE (spec §4.1: "player, version
// monotonic; relay to subscribers of that player").
func (r *Room) handleCodeUpdate(p *Player, c *Conn, in *wire.Inbound) {
	if !r.checkRateLimit(p, c, in.RequestID, ratelimit.ActionCodeUpdate) {
		return
	}
	var payload wire.CodeUpdatePayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed CODE_UPDATE"))
		return
	}
	if payload.Version <= p.CodeVersion {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "version must be monotonically increasing"))
		return
	}
	if len([]byte(payload.Code)) > wire.MaxCodeBytes {
		c.SendError(in.RequestID, wire.NewError(wire.ErrPayloadTooLarge, "code too large"))
		return
	}

	p.Code = payload.Code
	p.CodeVersion = payload.Version

	relay := wire.CodeUpdateRelayPayload{PlayerID: p.PlayerID, Code: payload.Code, Version: payload.Version}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.SpectatingPlayerID == p.PlayerID && other.Conn != nil {
			other.Conn.Send(wire.EvCodeUpdate, "", relay)
		}
	}
}
