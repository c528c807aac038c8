// Package room implements the Room Actor / Dispatcher (spec §4.1): the
// single-writer per-match state machine that owns every Player, the match
// lifecycle, and all outbound broadcasting, grounded throughout on
// wsnet2's Room (game/room.go: msgCh dispatch loop, single done channel,
// per-client attach/detach) and Peer (game/peer.go: read/write goroutine
// split) types.
package room

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Tien-Cheng/leetcode-99-sub000/attack"
	"github.com/Tien-Cheng/leetcode-99-sub000/config"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/log"
	"github.com/Tien-Cheng/leetcode-99-sub000/match"
	"github.com/Tien-Cheng/leetcode-99-sub000/metrics"
	"github.com/Tien-Cheng/leetcode-99-sub000/persistence"
	"github.com/Tien-Cheng/leetcode-99-sub000/problems"
	"github.com/Tien-Cheng/leetcode-99-sub000/ratelimit"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// inboxSize mirrors wsnet2's RoomMsgChSize buffered-channel idiom
// (game/room.go: "RoomMsgChSize: Msgチャネルのバッファサイズ").
const inboxSize = 64

type eventKind int

const (
	kindCommand eventKind = iota
	kindDisconnect
	kindAlarm
	kindJudgeResult
	kindQuery
)

// inboundEvent is the Room's single queued event type, merging the three
// sources spec §5 names (connection messages, alarm wakeups, judge
// completions) plus a read-only diagnostic query so callers outside the
// dispatch goroutine never read Room state directly.
type inboundEvent struct {
	kind   eventKind
	conn   *Conn
	cmd    *wire.Inbound
	result *judge.Result
	reply  chan DiagnosticSnapshot
}

// matchState is the Match record (spec §3).
type matchState struct {
	MatchID   string
	Phase     wire.MatchPhase
	StartAt   time.Time
	EndAt     time.Time
	WarmupEnd time.Time
	EndReason wire.MatchEndReason
	Settings  wire.Settings
}

// Room is the single-writer actor for one match (spec §4.1, §5).
type Room struct {
	ID     string
	conf   config.Config
	logger log.Logger

	lib         *problems.Library
	judgeClient *judge.Client
	store       *persistence.Store

	inbox chan inboundEvent
	done  chan struct{}

	rng *rand.Rand

	settings  wire.Settings
	players   map[string]*Player
	tokens    map[string]string // token -> playerId
	usernames map[string]bool   // lowercase username, active participants only
	joinSeq   int
	botSeq    int

	match matchState

	chat           []wire.ChatMessage
	nextChatID     int
	eventLog       []wire.EventLogEntry
	nextEventLogID int

	ratelimits *ratelimit.Store

	alarm     *time.Timer
	alarmWhen time.Time

	hasEverJoined bool
	closed        bool
}

// Options bundles NewRoom's dependencies.
type Options struct {
	ID          string
	Conf        config.Config
	Logger      log.Logger
	Library     *problems.Library
	JudgeClient *judge.Client
	Store       *persistence.Store
	Seed        int64
}

// NewRoom constructs an idle Room in the lobby phase and starts its
// dispatch loop (grounded on NewRoom's "go r.MsgLoop()" in game/room.go).
func NewRoom(opts Options) *Room {
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	r := &Room{
		ID:          opts.ID,
		conf:        opts.Conf,
		logger:      logger,
		lib:         opts.Library,
		judgeClient: opts.JudgeClient,
		store:       opts.Store,

		inbox: make(chan inboundEvent, inboxSize),
		done:  make(chan struct{}),

		rng: rand.New(rand.NewSource(opts.Seed)),

		settings: wire.Settings{
			MatchDurationSec:  opts.Conf.RoomDefaults.MatchDurationSec,
			PlayerCap:         opts.Conf.RoomDefaults.PlayerCap,
			StackLimit:        opts.Conf.RoomDefaults.StackLimit,
			StartingQueued:    opts.Conf.RoomDefaults.StartingQueued,
			DifficultyProfile: opts.Conf.RoomDefaults.DifficultyProfile,
			AttackIntensity:   opts.Conf.RoomDefaults.AttackIntensity,
		},
		players:   make(map[string]*Player),
		tokens:    make(map[string]string),
		usernames: make(map[string]bool),

		match: matchState{Phase: wire.PhaseLobby},

		ratelimits: ratelimit.NewStore(),
	}
	go r.run()
	return r
}

// Done is closed when the Room shuts down (see closeIfEmpty).
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) postCommand(c *Conn, in *wire.Inbound) {
	select {
	case r.inbox <- inboundEvent{kind: kindCommand, conn: c, cmd: in}:
	case <-r.done:
	}
}

func (r *Room) postDisconnect(c *Conn) {
	select {
	case r.inbox <- inboundEvent{kind: kindDisconnect, conn: c}:
	case <-r.done:
	}
}

func (r *Room) postAlarm() {
	select {
	case r.inbox <- inboundEvent{kind: kindAlarm}:
	case <-r.done:
	}
}

func (r *Room) postJudgeResult(res judge.Result) {
	select {
	case r.inbox <- inboundEvent{kind: kindJudgeResult, result: &res}:
	case <-r.done:
	}
}

// run is the Room's single dispatch goroutine (spec §4.1: "every inbound
// event is processed atomically"). Grounded on Room.MsgLoop
// (game/room.go:124-141).
func (r *Room) run() {
	metrics.Rooms.Add(1)
	defer metrics.Rooms.Add(-1)
	for {
		select {
		case ev := <-r.inbox:
			r.dispatch(ev)
			if r.closed {
				return
			}
		case <-r.done:
			return
		}
	}
}

// closeIfEmpty shuts the Room down once someone has joined and its player
// table is empty, mirroring wsnet2's removePlayer: "if len(r.players) == 0 {
// close(r.done) }" (game/room.go:217-220). A disconnect keeps the player's
// record (only its Conn is cleared) and no handler removes records, so a
// Room that has had a player joined stays open.
func (r *Room) closeIfEmpty() {
	if r.closed || !r.hasEverJoined || len(r.players) != 0 {
		return
	}
	r.closed = true
	close(r.done)
}

func (r *Room) dispatch(ev inboundEvent) {
	switch ev.kind {
	case kindCommand:
		r.handleCommand(ev.conn, ev.cmd)
	case kindDisconnect:
		r.handleDisconnect(ev.conn)
	case kindAlarm:
		r.handleAlarm()
	case kindJudgeResult:
		r.handleJudgeResult(*ev.result)
	case kindQuery:
		r.handleQuery(ev.reply)
	}
	r.checkMatchEnd()
	r.rearmAlarm()
	r.snapshotToStore()
	r.closeIfEmpty()
}

func (r *Room) handleCommand(c *Conn, in *wire.Inbound) {
	if in.Type == wire.CmdJoinRoom {
		r.handleJoinRoom(c, in)
		return
	}

	playerID := c.PlayerID()
	p, ok := r.players[playerID]
	if !ok {
		c.SendError(in.RequestID, wire.NewError(wire.ErrUnauthorized, "not joined"))
		return
	}

	switch in.Type {
	case wire.CmdSendChat:
		r.handleSendChat(p, c, in)
	case wire.CmdUpdateSettings:
		r.handleUpdateSettings(p, c, in)
	case wire.CmdAddBots:
		r.handleAddBots(p, c, in)
	case wire.CmdStartMatch:
		r.handleStartMatch(p, c, in)
	case wire.CmdReturnToLobby:
		r.handleReturnToLobby(p, c, in)
	case wire.CmdSetTargetMode:
		r.handleSetTargetMode(p, c, in)
	case wire.CmdRunCode:
		r.handleRunCode(p, c, in)
	case wire.CmdSubmitCode:
		r.handleSubmitCode(p, c, in)
	case wire.CmdSpendPoints:
		r.handleSpendPoints(p, c, in)
	case wire.CmdSpectatePlayer:
		r.handleSpectatePlayer(p, c, in)
	case wire.CmdStopSpectate:
		r.handleStopSpectate(p, c, in)
	case wire.CmdCodeUpdate:
		r.handleCodeUpdate(p, c, in)
	default:
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "unknown command"))
	}
}

func (r *Room) handleDisconnect(c *Conn) {
	playerID := c.PlayerID()
	if playerID == "" {
		return
	}
	p, ok := r.players[playerID]
	if !ok || p.Conn != c {
		return
	}
	p.Connected = false
	p.Conn = nil
	r.transferHostIfNeeded(p)
	r.broadcastPlayerUpdate(p)
}

// now is the single time source every handler uses, so a dispatch's
// internal logic sees one consistent instant (spec §4.1 atomicity).
func (r *Room) now() time.Time {
	return time.Now()
}

func newID() string {
	return uuid.NewString()
}

// standingsRanking returns every non-spectator player id ordered by the
// standings ranking (spec §4.9), used as targeting's Ranking input.
func (r *Room) standingsRanking() []string {
	st := match.Standings(r.standingsInputs())
	out := make([]string, len(st))
	for i, s := range st {
		out[i] = s.PlayerID
	}
	return out
}

func (r *Room) standingsInputs() []match.StandingsInput {
	var in []match.StandingsInput
	for _, p := range r.players {
		if p.IsSpectator() {
			continue
		}
		in = append(in, match.StandingsInput{
			PlayerID:  p.PlayerID,
			Username:  p.Username,
			Alive:     p.Status != wire.StatusEliminated,
			Score:     p.Score,
			StackSize: p.StackSize(),
		})
	}
	return in
}

func (r *Room) participantIDsSorted() []string {
	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Room) appendChat(msg wire.ChatMessage) {
	r.chat = append(r.chat, msg)
	if len(r.chat) > wire.MaxChatHistory {
		r.chat = r.chat[len(r.chat)-wire.MaxChatHistory:]
	}
}

func (r *Room) appendEventLog(level wire.EventLogLevel, text string) wire.EventLogEntry {
	r.nextEventLogID++
	entry := wire.EventLogEntry{
		ID:        newID(),
		Timestamp: r.now().UnixMilli(),
		Level:     level,
		Text:      text,
	}
	r.eventLog = append(r.eventLog, entry)
	return entry
}

func (r *Room) scoreForDifficulty(p *wire.Problem) int {
	return attack.ScoreFor(p.Difficulty, p.IsGarbage)
}

// snapshotToStore persists the Room's current state after every mutating
// dispatch (spec §5: "after any state-modifying event, the Room writes a
// single snapshot"), so a freshly started process can restore it via
// NewRoomFromSnapshot instead of starting the room empty.
func (r *Room) snapshotToStore() {
	if r.store == nil {
		return
	}
	blob, err := persistence.Encode(r.toSnapshot())
	if err != nil {
		r.logger.Errorf("room %s: encode snapshot: %v", r.ID, err)
		return
	}
	if err := r.store.SaveSnapshot(context.Background(), r.ID, blob, r.now()); err != nil {
		r.logger.Errorf("room %s: save snapshot: %v", r.ID, err)
		return
	}
	metrics.SnapshotWrites.Add(1)
}
