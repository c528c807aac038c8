package room

import (
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/metrics"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// enqueueProblem pushes a problem onto the front of a player's queue
// (§10.3: front of Queued is the next problem drawn, so
// garbageDrop attacks and timed arrivals prepend rather than append).
// Pushing onto an already-full queue is a stack overflow and eliminates
// the player instead (spec §4.6).
func (r *Room) enqueueProblem(p *Player, prob *wire.Problem) {
	if p.Status == wire.StatusEliminated {
		return
	}
	if len(p.Queued) >= r.settings.StackLimit {
		r.eliminate(p, "stack overflow")
		return
	}
	p.Queued = append([]*wire.Problem{prob}, p.Queued...)
	r.broadcastStackUpdate(p)
}

// eliminate removes a player from active play (spec §4.6, §4.9). Bots are
// eliminated the same way as humans; only the standings ranking and match
// end condition care about Status afterward.
func (r *Room) eliminate(p *Player, reason string) {
	if p.Status == wire.StatusEliminated {
		return
	}
	p.Status = wire.StatusEliminated
	metrics.Eliminations.Add(1)
	p.EliminatedAt = r.now()
	p.ActiveDebuff = nil
	p.ActiveBuff = nil
	p.SpectatingPlayerID = ""
	p.BotSubmitAt = time.Time{}

	entry := r.appendEventLog(wire.LogLevelWarn, p.Username+" was eliminated ("+reason+")")
	r.broadcastEventLog(entry)
	r.broadcastPlayerUpdate(p)
}

// advanceToNextProblem pops the front of the queue as the new current
// problem, or samples a fresh one if the queue is empty (spec §4.3, §4.6).
func (r *Room) advanceToNextProblem(p *Player) {
	if p.Status == wire.StatusEliminated {
		return
	}

	if len(p.Queued) > 0 {
		p.CurrentProblem = p.Queued[0]
		p.Queued = p.Queued[1:]
	} else {
		next, seen := r.lib.Sample(p.SeenProblemIDs, r.settings.DifficultyProfile, true, r.rng)
		p.SeenProblemIDs = seen
		p.CurrentProblem = next
	}

	p.Code = p.CurrentProblem.StarterCode
	p.CodeVersion = 1
	p.RevealedHints = 0
	r.scheduleBotSubmit(p)
	r.broadcastStackUpdate(p)
}
