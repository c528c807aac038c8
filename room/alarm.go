package room

import (
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/attack"
	"github.com/Tien-Cheng/leetcode-99-sub000/scheduler"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func (r *Room) eligibleArrivals(now time.Time) []scheduler.PlayerArrival {
	var out []scheduler.PlayerArrival
	for _, id := range r.participantIDsSorted() {
		p := r.players[id]
		if p.IsSpectator() || p.Status == wire.StatusEliminated {
			continue
		}
		debuff := p.DebuffAt(now)
		buff := p.BuffAt(now)
		out = append(out, scheduler.PlayerArrival{
			PlayerID:       p.PlayerID,
			LastArrivalAt:  p.LastProblemArrivalAt,
			HasMemoryLeak:  debuff != nil && debuff.Type == wire.DebuffMemoryLeak,
			HasRateLimiter: buff != nil && buff.Type == wire.BuffRateLimiter,
		})
	}
	return out
}

// nextEffectExpiry returns the earliest still-pending ActiveDebuff/ActiveBuff
// EndsAt across every participant, so the alarm wakes the Room exactly when
// an effect lapses instead of relying on an unrelated arrival to do it
// (spec §4.4: "the Room never reads an expired value as active").
func (r *Room) nextEffectExpiry(now time.Time) time.Time {
	var min time.Time
	consider := func(ms int64) {
		if ms == 0 {
			return
		}
		t := time.UnixMilli(ms)
		if !t.After(now) {
			return
		}
		if min.IsZero() || t.Before(min) {
			min = t
		}
	}
	for _, id := range r.participantIDsSorted() {
		p := r.players[id]
		if p.ActiveDebuff != nil {
			consider(p.ActiveDebuff.EndsAt)
		}
		if p.ActiveBuff != nil {
			consider(p.ActiveBuff.EndsAt)
		}
	}
	return min
}

// rearmAlarm recomputes the single earliest wakeup and re-arms the Room's
// timer, grounded on wsnet2's single-timer-per-room debounce idiom
// (game/room.go's chRoomInfo timer). Called after every dispatch.
func (r *Room) rearmAlarm() {
	if r.closed {
		return
	}
	if r.match.Phase != wire.PhaseWarmup && r.match.Phase != wire.PhaseMain {
		if r.alarm != nil {
			r.alarm.Stop()
			r.alarm = nil
		}
		return
	}

	now := r.now()
	next := scheduler.NextWakeup(r.eligibleArrivals(now), string(r.match.Phase), r.match.WarmupEnd, r.match.EndAt)
	if botNext := r.nextBotSubmitAt(); !botNext.IsZero() && (next.IsZero() || botNext.Before(next)) {
		next = botNext
	}
	if expiry := r.nextEffectExpiry(now); !expiry.IsZero() && (next.IsZero() || expiry.Before(next)) {
		next = expiry
	}
	if next.IsZero() {
		if r.alarm != nil {
			r.alarm.Stop()
			r.alarm = nil
		}
		return
	}
	if r.alarm != nil && r.alarmWhen.Equal(next) {
		return
	}
	if r.alarm != nil {
		r.alarm.Stop()
	}

	r.alarmWhen = next
	d := next.Sub(r.now())
	if d < 0 {
		d = 0
	}
	r.alarm = time.AfterFunc(d, r.postAlarm)
}

// handleAlarm processes the warmup->main transition, clears any debuff/buff
// that has expired, then processes every player whose next problem arrival
// is due. The expiry sweep runs first so an arrival computed in the same
// tick already sees the post-expiry state.
func (r *Room) handleAlarm() {
	now := r.now()

	if r.match.Phase == wire.PhaseWarmup && !now.Before(r.match.WarmupEnd) {
		r.match.Phase = wire.PhaseMain
		r.broadcastMatchPhaseUpdate()
	}

	for _, id := range r.participantIDsSorted() {
		p := r.players[id]
		changed := false
		if p.ActiveDebuff != nil && now.UnixMilli() >= p.ActiveDebuff.EndsAt {
			p.ActiveDebuff = nil
			p.GraceUntil = now.Add(attack.GraceDuration)
			if p.Status == wire.StatusUnderAttack {
				p.Status = wire.StatusCoding
			}
			changed = true
		}
		if p.ActiveBuff != nil && now.UnixMilli() >= p.ActiveBuff.EndsAt {
			p.ActiveBuff = nil
			changed = true
		}
		if changed {
			r.broadcastPlayerUpdate(p)
		}
	}

	if r.match.Phase == wire.PhaseWarmup || r.match.Phase == wire.PhaseMain {
		fired := scheduler.Fired(r.eligibleArrivals(now), string(r.match.Phase), now)
		for _, id := range fired {
			p := r.players[id]
			if p == nil || p.Status == wire.StatusEliminated {
				continue
			}
			next, seen := r.lib.Sample(p.SeenProblemIDs, r.settings.DifficultyProfile, true, r.rng)
			p.SeenProblemIDs = seen
			p.LastProblemArrivalAt = now
			r.enqueueProblem(p, next)
		}

		r.processBotSubmissions(now)
	}
}
