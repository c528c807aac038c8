package room

import (
	"fmt"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/match"
	"github.com/Tien-Cheng/leetcode-99-sub000/ratelimit"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func (r *Room) requireHost(p *Player, c *Conn, requestID string) bool {
	if !p.IsHost {
		c.SendError(requestID, wire.NewError(wire.ErrForbidden, "host only"))
		return false
	}
	return true
}

func (r *Room) requireLobby(c *Conn, requestID string) bool {
	if r.match.Phase != wire.PhaseLobby {
		c.SendError(requestID, wire.NewError(wire.ErrMatchAlreadyStarted, "match already started"))
		return false
	}
	return true
}

// handleSendChat implements SEND_CHAT (spec §4.1: "lobby; append, trim to
// 100").
func (r *Room) handleSendChat(p *Player, c *Conn, in *wire.Inbound) {
	if !r.requireLobby(c, in.RequestID) {
		return
	}
	if !r.checkRateLimit(p, c, in.RequestID, ratelimit.ActionSendChat) {
		return
	}
	var payload wire.SendChatPayload
	if err := unmarshalPayload(in, &payload); err != nil || payload.Text == "" {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed SEND_CHAT"))
		return
	}
	if len([]byte(payload.Text)) > wire.MaxChatBytes {
		c.SendError(in.RequestID, wire.NewError(wire.ErrPayloadTooLarge, "chat message too large"))
		return
	}

	r.nextChatID++
	msg := wire.ChatMessage{
		ID:        fmt.Sprintf("%s-chat-%d", r.ID, r.nextChatID),
		Timestamp: r.now().UnixMilli(),
		Sender:    p.Username,
		Text:      payload.Text,
	}
	r.appendChat(msg)
	r.broadcastChat(msg)
}

// handleUpdateSettings implements UPDATE_SETTINGS (spec §4.1: "host,
// lobby; merge validated patch").
func (r *Room) handleUpdateSettings(p *Player, c *Conn, in *wire.Inbound) {
	if !r.requireHost(p, c, in.RequestID) || !r.requireLobby(c, in.RequestID) {
		return
	}
	var payload wire.UpdateSettingsPayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed UPDATE_SETTINGS"))
		return
	}

	merged := r.settings
	patch := payload.Patch
	if patch.MatchDurationSec != nil {
		merged.MatchDurationSec = *patch.MatchDurationSec
	}
	if patch.PlayerCap != nil {
		merged.PlayerCap = *patch.PlayerCap
	}
	if patch.StackLimit != nil {
		merged.StackLimit = *patch.StackLimit
	}
	if patch.StartingQueued != nil {
		merged.StartingQueued = *patch.StartingQueued
	}
	if patch.DifficultyProfile != nil {
		merged.DifficultyProfile = *patch.DifficultyProfile
	}
	if patch.AttackIntensity != nil {
		merged.AttackIntensity = *patch.AttackIntensity
	}

	if err := validateSettings(merged); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, err.Error()))
		return
	}

	r.settings = merged
	r.broadcastSettingsUpdate()
}

func validateSettings(s wire.Settings) error {
	if s.MatchDurationSec < wire.MinMatchDurationSec || s.MatchDurationSec > wire.MaxMatchDurationSec {
		return fmt.Errorf("matchDurationSec out of range")
	}
	if s.PlayerCap < wire.MinPlayerCap || s.PlayerCap > wire.MaxPlayerCap {
		return fmt.Errorf("playerCap out of range")
	}
	if s.StackLimit < wire.MinStackLimit || s.StackLimit > wire.MaxStackLimit {
		return fmt.Errorf("stackLimit out of range")
	}
	if s.StartingQueued < wire.MinStartingQueued || s.StartingQueued > wire.MaxStartingQueued {
		return fmt.Errorf("startingQueued out of range")
	}
	switch s.DifficultyProfile {
	case "beginner", "moderate", "competitive":
	default:
		return fmt.Errorf("unknown difficultyProfile")
	}
	switch s.AttackIntensity {
	case "low", "high":
	default:
		return fmt.Errorf("unknown attackIntensity")
	}
	return nil
}

// handleAddBots implements ADD_BOTS (spec §4.1: "host, lobby; count in
// [1,20]; create N bot players").
func (r *Room) handleAddBots(p *Player, c *Conn, in *wire.Inbound) {
	if !r.requireHost(p, c, in.RequestID) || !r.requireLobby(c, in.RequestID) {
		return
	}
	var payload wire.AddBotsPayload
	if err := unmarshalPayload(in, &payload); err != nil || payload.Count < 1 || payload.Count > 20 {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "count must be 1..20"))
		return
	}

	for i := 0; i < payload.Count; i++ {
		if len(r.players) >= r.settings.PlayerCap {
			break
		}
		r.botSeq++
		r.joinSeq++
		name := fmt.Sprintf("bot-%d", r.botSeq)
		bot := NewPlayer(newID(), name, "", wire.RoleBot, r.joinSeq)
		bot.Connected = true
		r.players[bot.PlayerID] = bot
		r.usernames[name] = true
	}

	r.broadcastSnapshotAll()
}

// handleStartMatch implements START_MATCH (spec §4.1, §4.9: "host, lobby,
// >=2 participants; allocate matchId, phase=warmup, set endAt, seed each
// non-spectator with a current problem and startingQueued queued
// problems, arm warmup->main transition, arm first arrival").
func (r *Room) handleStartMatch(p *Player, c *Conn, in *wire.Inbound) {
	if !r.requireHost(p, c, in.RequestID) || !r.requireLobby(c, in.RequestID) {
		return
	}

	participants := 0
	for _, pl := range r.players {
		if !pl.IsSpectator() {
			participants++
		}
	}
	if participants < 2 {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "need at least 2 participants"))
		return
	}

	now := r.now()
	matchDuration := secondsToDuration(r.settings.MatchDurationSec)
	r.match = matchState{
		MatchID:   newID(),
		Phase:     wire.PhaseWarmup,
		StartAt:   now,
		EndAt:     now.Add(matchDuration),
		WarmupEnd: match.WarmupEnd(now, matchDuration),
		Settings:  r.settings,
	}

	for _, pl := range r.players {
		if pl.IsSpectator() {
			continue
		}
		pl.Status = wire.StatusCoding
		pl.Score = 0
		pl.Streak = 0
		pl.SeenProblemIDs = map[string]bool{}
		pl.LastProblemArrivalAt = now

		cur, seen := r.lib.Sample(pl.SeenProblemIDs, r.settings.DifficultyProfile, true, r.rng)
		pl.SeenProblemIDs = seen
		pl.CurrentProblem = cur
		pl.Code = cur.StarterCode
		pl.CodeVersion = 1
		pl.RevealedHints = 0

		pl.Queued = nil
		for i := 0; i < r.settings.StartingQueued; i++ {
			q, seen2 := r.lib.Sample(pl.SeenProblemIDs, r.settings.DifficultyProfile, true, r.rng)
			pl.SeenProblemIDs = seen2
			pl.Queued = append(pl.Queued, q)
		}

		r.scheduleBotSubmit(pl)
	}

	payload := wire.MatchStartedPayload{
		MatchID: r.match.MatchID,
		StartAt: r.match.StartAt.UnixMilli(),
		EndAt:   r.match.EndAt.UnixMilli(),
	}
	for _, id := range r.participantIDsSorted() {
		pl := r.players[id]
		if pl.Conn != nil {
			pl.Conn.Send(wire.EvMatchStarted, "", payload)
		}
	}
	r.broadcastSnapshotAll()
}

// handleReturnToLobby implements RETURN_TO_LOBBY (spec §4.1, §4.9: "host,
// phase=ended; reset match, clear eventLog, clear problem history").
func (r *Room) handleReturnToLobby(p *Player, c *Conn, in *wire.Inbound) {
	if !r.requireHost(p, c, in.RequestID) {
		return
	}
	if r.match.Phase != wire.PhaseEnded {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "match not ended"))
		return
	}

	r.match = matchState{Phase: wire.PhaseLobby}
	r.eventLog = nil
	r.nextEventLogID = 0

	for _, pl := range r.players {
		pl.Status = wire.StatusLobby
		pl.Streak = 0
		pl.ActiveDebuff = nil
		pl.ActiveBuff = nil
		pl.CurrentProblem = nil
		pl.Queued = nil
		pl.SeenProblemIDs = map[string]bool{}
		pl.Code = ""
		pl.CodeVersion = 0
		pl.RevealedHints = 0
		pl.ShopCooldownUntil = map[wire.ShopItem]time.Time{}
		pl.BotSubmitAt = time.Time{}
		r.ratelimits.Forget(pl.PlayerID)
	}

	r.broadcastSnapshotAll()
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
