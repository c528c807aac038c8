package room

import (
	"github.com/Tien-Cheng/leetcode-99-sub000/match"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// buildSnapshot renders the full ROOM_SNAPSHOT contract for one viewer
// (spec §6 ROOM_SNAPSHOT payload).
func (r *Room) buildSnapshot(viewer *Player) wire.RoomSnapshotPayload {
	now := r.now()

	players := make([]wire.PlayerPublic, 0, len(r.players))
	for _, id := range r.participantIDsSorted() {
		players = append(players, r.players[id].Public(now))
	}

	mp := wire.MatchPublic{
		MatchID:  r.match.MatchID,
		Phase:    r.match.Phase,
		Settings: r.settings,
	}
	if !r.match.StartAt.IsZero() {
		t := r.match.StartAt.UnixMilli()
		mp.StartAt = &t
	}
	if !r.match.EndAt.IsZero() {
		t := r.match.EndAt.UnixMilli()
		mp.EndAt = &t
	}
	if r.match.Phase == wire.PhaseEnded {
		reason := r.match.EndReason
		mp.EndReason = &reason
		mp.Standings = r.computeStandings()
	}

	payload := wire.RoomSnapshotPayload{
		RoomID:     r.ID,
		ServerTime: now.UnixMilli(),
		Match:      mp,
		ShopCatalog: wire.ShopCatalog,
		Chat:        append([]wire.ChatMessage{}, r.chat...),
		EventLog:    append([]wire.EventLogEntry{}, r.eventLog...),
		Players:     players,
	}

	if viewer != nil {
		payload.Me = wire.MePayload{
			PlayerID: viewer.PlayerID,
			Username: viewer.Username,
			Role:     viewer.Role,
			IsHost:   viewer.IsHost,
			Status:   viewer.Status,
		}
		if !viewer.IsSpectator() && r.match.Phase != wire.PhaseLobby {
			var cur *wire.ClientProblemView
			if viewer.CurrentProblem != nil {
				cur = viewer.CurrentProblem.ClientView(viewer.RevealedHints)
			}
			payload.Self = &wire.SelfPrivate{
				CurrentProblem: cur,
				Queued:         viewer.queuedSummaries(),
				Code:           viewer.Code,
				CodeVersion:    viewer.CodeVersion,
				RevealedHints:  viewer.RevealedHints,
				ShopCooldowns:  viewer.shopCooldownsMs(now),
			}
		}
		if viewer.SpectatingPlayerID != "" {
			payload.Spectating = &wire.SpectateView{PlayerID: viewer.SpectatingPlayerID}
		}
	}

	return payload
}

func (r *Room) computeStandings() []wire.StandingEntry {
	return match.Standings(r.standingsInputs())
}

func (r *Room) sendSnapshot(p *Player) {
	if p.Conn == nil {
		return
	}
	p.Conn.Send(wire.EvRoomSnapshot, "", r.buildSnapshot(p))
}

func (r *Room) broadcastSnapshotAll() {
	for _, id := range r.participantIDsSorted() {
		r.sendSnapshot(r.players[id])
	}
}

func (r *Room) broadcastPlayerUpdate(p *Player) {
	payload := wire.PlayerUpdatePayload{Player: p.Public(r.now())}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.Conn != nil {
			other.Conn.Send(wire.EvPlayerUpdate, "", payload)
		}
	}
}

func (r *Room) broadcastEventLog(entry wire.EventLogEntry) {
	payload := wire.EventLogAppendPayload{Entry: entry}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.Conn != nil {
			other.Conn.Send(wire.EvEventLogAppend, "", payload)
		}
	}
}

func (r *Room) broadcastChat(msg wire.ChatMessage) {
	payload := wire.ChatAppendPayload{Message: msg}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.Conn != nil {
			other.Conn.Send(wire.EvChatAppend, "", payload)
		}
	}
}

func (r *Room) broadcastSettingsUpdate() {
	payload := wire.SettingsUpdatePayload{Settings: r.settings}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.Conn != nil {
			other.Conn.Send(wire.EvSettingsUpdate, "", payload)
		}
	}
}

func (r *Room) broadcastStackUpdate(p *Player) {
	payload := wire.StackUpdatePayload{PlayerID: p.PlayerID, StackSize: p.StackSize()}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.Conn != nil {
			other.Conn.Send(wire.EvStackUpdate, "", payload)
		}
	}
}

func (r *Room) broadcastMatchPhaseUpdate() {
	payload := wire.MatchPhaseUpdatePayload{Phase: r.match.Phase}
	for _, id := range r.participantIDsSorted() {
		other := r.players[id]
		if other.Conn != nil {
			other.Conn.Send(wire.EvMatchPhaseUpdate, "", payload)
		}
	}
}
