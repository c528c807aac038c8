package room

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/match"
	"github.com/Tien-Cheng/leetcode-99-sub000/metrics"
	"github.com/Tien-Cheng/leetcode-99-sub000/persistence"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// checkMatchEnd transitions the match to `ended` once match.ShouldEnd says
// so (spec §4.9), broadcasts MATCH_END, and hands the final outcome to the
// Results Store off the dispatch loop.
func (r *Room) checkMatchEnd() {
	if r.match.Phase != wire.PhaseWarmup && r.match.Phase != wire.PhaseMain {
		return
	}

	alive := 0
	for _, p := range r.players {
		if p.IsSpectator() {
			continue
		}
		if p.Status != wire.StatusEliminated {
			alive++
		}
	}

	should, reason := match.ShouldEnd(r.match.Phase, r.match.EndAt, alive, r.now())
	if !should {
		return
	}

	r.match.Phase = wire.PhaseEnded
	r.match.EndReason = reason
	metrics.MatchesEnded.Add(1)
	standings := r.computeStandings()
	winner := match.Winner(standings)

	payload := wire.MatchEndPayload{Reason: reason, Winner: winner, Standings: standings}
	for _, id := range r.participantIDsSorted() {
		pl := r.players[id]
		if pl.Conn != nil {
			pl.Conn.Send(wire.EvMatchEnd, "", payload)
		}
	}
	r.broadcastMatchPhaseUpdate()

	r.recordMatchEnd(standings, reason)
}

func (r *Room) recordMatchEnd(standings []wire.StandingEntry, reason wire.MatchEndReason) {
	if r.store == nil {
		return
	}

	roles := make(map[string]wire.PlayerRole)
	eliminatedAt := make(map[string]int64)
	for _, p := range r.players {
		if p.IsSpectator() {
			continue
		}
		roles[p.PlayerID] = p.Role
		if !p.EliminatedAt.IsZero() {
			eliminatedAt[p.PlayerID] = p.EliminatedAt.UnixMilli()
		}
	}

	settingsJSON, err := json.Marshal(r.settings)
	if err != nil {
		r.logger.Errorf("marshal settings for match record: %v", err)
		return
	}

	m := persistence.Match{
		ID:        r.match.MatchID,
		RoomID:    r.ID,
		StartedAt: r.match.StartAt.UnixMilli(),
		EndedAt:   r.now().UnixMilli(),
		EndReason: string(reason),
		Settings:  string(settingsJSON),
	}
	players := persistence.FromStandings(r.match.MatchID, standings, roles, eliminatedAt)

	store := r.store
	logger := r.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.RecordMatchEnd(ctx, m, players); err != nil {
			logger.Errorf("record match end: %v", err)
		}
	}()
}
