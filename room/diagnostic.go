package room

import "github.com/Tien-Cheng/leetcode-99-sub000/wire"

// DiagnosticSnapshot is the read-only state the Gateway-facing HTTP side
// channel needs (spec §6: register response counts, GET .../state).
type DiagnosticSnapshot struct {
	Phase          wire.MatchPhase
	Settings       wire.Settings
	PlayerCount    int
	SpectatorCount int
}

// DiagnosticState reads Room state the only safe way: by asking the single
// dispatch goroutine for it, rather than touching Room fields from the
// calling (HTTP handler) goroutine.
func (r *Room) DiagnosticState() DiagnosticSnapshot {
	reply := make(chan DiagnosticSnapshot, 1)
	select {
	case r.inbox <- inboundEvent{kind: kindQuery, reply: reply}:
	case <-r.done:
		return DiagnosticSnapshot{}
	}
	select {
	case s := <-reply:
		return s
	case <-r.done:
		return DiagnosticSnapshot{}
	}
}

func (r *Room) handleQuery(reply chan DiagnosticSnapshot) {
	snap := DiagnosticSnapshot{Phase: r.match.Phase, Settings: r.settings}
	for _, p := range r.players {
		if p.IsSpectator() {
			snap.SpectatorCount++
		} else {
			snap.PlayerCount++
		}
	}
	reply <- snap
}
