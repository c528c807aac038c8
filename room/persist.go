package room

import (
	"math/rand"
	"strings"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/config"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/log"
	"github.com/Tien-Cheng/leetcode-99-sub000/persistence"
	"github.com/Tien-Cheng/leetcode-99-sub000/problems"
	"github.com/Tien-Cheng/leetcode-99-sub000/ratelimit"
	"github.com/Tien-Cheng/leetcode-99-sub000/targeting"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// toSnapshot renders the live Room into a persisted record covering
// settings, players, match, chat, event log, and the join/bot/chat/event
// counters.
func (r *Room) toSnapshot() persistence.RoomSnapshot {
	snap := persistence.RoomSnapshot{
		RoomID:         r.ID,
		Settings:       r.settings,
		Match:          matchToSnapshot(r.match),
		Chat:           append([]wire.ChatMessage{}, r.chat...),
		EventLog:       append([]wire.EventLogEntry{}, r.eventLog...),
		NextChatID:     r.nextChatID,
		NextEventLogID: r.nextEventLogID,
		JoinSeq:        r.joinSeq,
		BotSeq:         r.botSeq,
	}
	for _, id := range r.participantIDsSorted() {
		snap.Players = append(snap.Players, playerToSnapshot(r.players[id]))
	}
	return snap
}

func matchToSnapshot(m matchState) persistence.MatchSnapshot {
	ms := persistence.MatchSnapshot{
		MatchID:   m.MatchID,
		Phase:     m.Phase,
		EndReason: m.EndReason,
	}
	if !m.StartAt.IsZero() {
		ms.StartAt = m.StartAt.UnixMilli()
	}
	if !m.EndAt.IsZero() {
		ms.EndAt = m.EndAt.UnixMilli()
	}
	if !m.WarmupEnd.IsZero() {
		ms.WarmupEnd = m.WarmupEnd.UnixMilli()
	}
	return ms
}

func matchFromSnapshot(ms persistence.MatchSnapshot, settings wire.Settings) matchState {
	m := matchState{
		MatchID:   ms.MatchID,
		Phase:     ms.Phase,
		EndReason: ms.EndReason,
		Settings:  settings,
	}
	if ms.StartAt != 0 {
		m.StartAt = time.UnixMilli(ms.StartAt)
	}
	if ms.EndAt != 0 {
		m.EndAt = time.UnixMilli(ms.EndAt)
	}
	if ms.WarmupEnd != 0 {
		m.WarmupEnd = time.UnixMilli(ms.WarmupEnd)
	}
	return m
}

func playerToSnapshot(p *Player) persistence.PlayerSnapshot {
	ps := persistence.PlayerSnapshot{
		PlayerID:             p.PlayerID,
		Token:                p.Token,
		Username:             p.Username,
		Role:                 p.Role,
		IsHost:               p.IsHost,
		JoinOrder:            p.JoinOrder,
		Status:               p.Status,
		Score:                p.Score,
		Streak:               p.Streak,
		TargetingMode:        p.TargetingMode,
		ActiveDebuff:         p.ActiveDebuff,
		ActiveBuff:           p.ActiveBuff,
		Connected:            false, // every connection is dropped across a cold start
		SeenProblemIDs:       seenIDsSlice(p.SeenProblemIDs),
		Code:                 p.Code,
		CodeVersion:          p.CodeVersion,
		RevealedHints:        p.RevealedHints,
		StackSize:            p.StackSize(),
		LastProblemArrivalAt: p.LastProblemArrivalAt.UnixMilli(),
	}
	if p.CurrentProblem != nil {
		ps.CurrentProblemID = p.CurrentProblem.ProblemID
	}
	for _, q := range p.Queued {
		ps.QueuedProblemIDs = append(ps.QueuedProblemIDs, q.ProblemID)
	}
	if len(p.ShopCooldownUntil) > 0 {
		ps.ShopCooldownsUntilMs = make(map[wire.ShopItem]int64, len(p.ShopCooldownUntil))
		for item, until := range p.ShopCooldownUntil {
			ps.ShopCooldownsUntilMs[item] = until.UnixMilli()
		}
	}
	for _, a := range p.RecentAttacksOnMe.Items() {
		ps.RecentAttackerIDs = append(ps.RecentAttackerIDs, a.AttackerID)
		ps.RecentAttackAtMs = append(ps.RecentAttackAtMs, a.At)
	}
	return ps
}

func seenIDsSlice(seen map[string]bool) []string {
	out := make([]string, 0, len(seen))
	for id, v := range seen {
		if v {
			out = append(out, id)
		}
	}
	return out
}

// playerFromSnapshot rebuilds a Player from its persisted slice, resolving
// problem IDs back to *wire.Problem via the Library.
func playerFromSnapshot(ps persistence.PlayerSnapshot, lib *problems.Library) *Player {
	p := NewPlayer(ps.PlayerID, ps.Username, ps.Token, ps.Role, ps.JoinOrder)
	p.IsHost = ps.IsHost
	p.Status = ps.Status
	p.Score = ps.Score
	p.Streak = ps.Streak
	p.TargetingMode = ps.TargetingMode
	p.ActiveDebuff = ps.ActiveDebuff
	p.ActiveBuff = ps.ActiveBuff
	p.Connected = false
	p.Code = ps.Code
	p.CodeVersion = ps.CodeVersion
	p.RevealedHints = ps.RevealedHints
	if ps.LastProblemArrivalAt != 0 {
		p.LastProblemArrivalAt = time.UnixMilli(ps.LastProblemArrivalAt)
	}

	for _, id := range ps.SeenProblemIDs {
		p.SeenProblemIDs[id] = true
	}
	if ps.CurrentProblemID != "" {
		if prob, ok := lib.Get(ps.CurrentProblemID); ok {
			p.CurrentProblem = prob
		}
	}
	for _, id := range ps.QueuedProblemIDs {
		if prob, ok := lib.Get(id); ok {
			p.Queued = append(p.Queued, prob)
		}
	}
	for item, ms := range ps.ShopCooldownsUntilMs {
		p.ShopCooldownUntil[item] = time.UnixMilli(ms)
	}
	for i, attackerID := range ps.RecentAttackerIDs {
		at := int64(0)
		if i < len(ps.RecentAttackAtMs) {
			at = ps.RecentAttackAtMs[i]
		}
		p.RecentAttacksOnMe.Push(targeting.Attack{AttackerID: attackerID, At: at})
	}
	return p
}

// RestoreOptions bundles NewRoomFromSnapshot's dependencies, mirroring
// Options plus the snapshot to rebuild from.
type RestoreOptions struct {
	Conf        config.Config
	Logger      log.Logger
	Library     *problems.Library
	JudgeClient *judge.Client
	Store       *persistence.Store
	Seed        int64
	Snapshot    persistence.RoomSnapshot
}

// NewRoomFromSnapshot rebuilds a Room from a previously persisted
// RoomSnapshot so a freshly started process can resume a Room instead of
// accepting connections into an empty one.
// Every connection is considered disconnected until players rejoin with
// their original tokens; the alarm is re-armed against the restored state
// before the dispatch loop starts.
func NewRoomFromSnapshot(opts RestoreOptions) *Room {
	snap := persistence.RestoreDefaults(opts.Snapshot)

	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	r := &Room{
		ID:          snap.RoomID,
		conf:        opts.Conf,
		logger:      logger,
		lib:         opts.Library,
		judgeClient: opts.JudgeClient,
		store:       opts.Store,

		inbox: make(chan inboundEvent, inboxSize),
		done:  make(chan struct{}),

		rng: rand.New(rand.NewSource(opts.Seed)),

		settings:  snap.Settings,
		players:   make(map[string]*Player),
		tokens:    make(map[string]string),
		usernames: make(map[string]bool),
		joinSeq:   snap.JoinSeq,
		botSeq:    snap.BotSeq,

		match: matchFromSnapshot(snap.Match, snap.Settings),

		chat:           append([]wire.ChatMessage{}, snap.Chat...),
		nextChatID:     snap.NextChatID,
		eventLog:       append([]wire.EventLogEntry{}, snap.EventLog...),
		nextEventLogID: snap.NextEventLogID,

		ratelimits: ratelimit.NewStore(),

		hasEverJoined: len(snap.Players) > 0,
	}

	for _, ps := range snap.Players {
		p := playerFromSnapshot(ps, r.lib)
		r.players[p.PlayerID] = p
		if p.Token != "" {
			r.tokens[p.Token] = p.PlayerID
		}
		if !p.IsSpectator() {
			r.usernames[strings.ToLower(p.Username)] = true
		}
		r.scheduleBotSubmit(p)
	}

	r.rearmAlarm()
	go r.run()
	return r
}
