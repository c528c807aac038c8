package room

import (
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/bots"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// scheduleBotSubmit arms or clears a bot's next pure submission instant
// (§10.4: a bot's solve outcome feeds the same attack path a
// human's does). Humans are judged externally and are never scheduled here.
func (r *Room) scheduleBotSubmit(p *Player) {
	if p.Role != wire.RoleBot {
		return
	}
	if p.Status == wire.StatusEliminated || p.CurrentProblem == nil {
		p.BotSubmitAt = time.Time{}
		return
	}
	p.BotSubmitAt = r.now().Add(bots.SolveDuration(p.CurrentProblem.Difficulty, r.rng))
}

// nextBotSubmitAt is the earliest pending bot submission, folded into the
// Room's single alarm alongside scheduler.NextWakeup (alarm.go).
func (r *Room) nextBotSubmitAt() time.Time {
	var next time.Time
	for _, id := range r.participantIDsSorted() {
		p := r.players[id]
		if p.Role != wire.RoleBot || p.BotSubmitAt.IsZero() {
			continue
		}
		if next.IsZero() || p.BotSubmitAt.Before(next) {
			next = p.BotSubmitAt
		}
	}
	return next
}

// processBotSubmissions resolves every bot whose submission instant has
// passed, feeding the outcome through the same applySubmitResult path a
// human's SUBMIT_CODE uses (spec §4.4, §4.8), then reschedules that bot's
// next attempt.
func (r *Room) processBotSubmissions(now time.Time) {
	for _, id := range r.participantIDsSorted() {
		p := r.players[id]
		if p.Role != wire.RoleBot || p.Status == wire.StatusEliminated {
			continue
		}
		if p.BotSubmitAt.IsZero() || now.Before(p.BotSubmitAt) {
			continue
		}
		if p.CurrentProblem == nil {
			p.BotSubmitAt = time.Time{}
			continue
		}

		passed := bots.Passes(r.rng)
		res := judge.Result{
			PlayerID:  p.PlayerID,
			ProblemID: p.CurrentProblem.ProblemID,
			Kind:      judge.KindSubmit,
			Payload: &wire.JudgeResultPayload{
				Kind:      "submit",
				ProblemID: p.CurrentProblem.ProblemID,
				Passed:    passed,
			},
		}
		r.applySubmitResult(p, res)

		// A pass already rearmed BotSubmitAt via advanceToNextProblem; a
		// fail leaves the same problem in place, so retry after a delay.
		if !passed && p.Status != wire.StatusEliminated {
			p.BotSubmitAt = now.Add(bots.RetryDelay())
		}
	}
}
