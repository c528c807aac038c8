package persistence

import (
	"github.com/vmihailenco/msgpack/v4"
	"golang.org/x/xerrors"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// PlayerSnapshot is the persisted slice of one Player sufficient to
// reconstruct it across a restart.
type PlayerSnapshot struct {
	PlayerID             string             `msgpack:"playerId"`
	Token                string             `msgpack:"token,omitempty"`
	Username             string             `msgpack:"username"`
	Role                 wire.PlayerRole    `msgpack:"role"`
	IsHost               bool               `msgpack:"isHost"`
	JoinOrder            int                `msgpack:"joinOrder"`
	Status               wire.PlayerStatus  `msgpack:"status"`
	Score                int                `msgpack:"score"`
	Streak               int                `msgpack:"streak"`
	TargetingMode        wire.TargetingMode `msgpack:"targetingMode"`
	ActiveDebuff         *wire.Debuff       `msgpack:"activeDebuff,omitempty"`
	ActiveBuff           *wire.Buff         `msgpack:"activeBuff,omitempty"`
	Connected            bool               `msgpack:"connected"`
	CurrentProblemID     string             `msgpack:"currentProblemId,omitempty"`
	QueuedProblemIDs     []string           `msgpack:"queuedProblemIds,omitempty"`
	SeenProblemIDs       []string           `msgpack:"seenProblemIds,omitempty"`
	Code                 string             `msgpack:"code"`
	CodeVersion          int                `msgpack:"codeVersion"`
	RevealedHints        int                `msgpack:"revealedHints"`
	StackSize            int                `msgpack:"stackSize"`
	ShopCooldownsUntilMs map[wire.ShopItem]int64 `msgpack:"shopCooldownsUntilMs,omitempty"`
	LastProblemArrivalAt int64              `msgpack:"lastProblemArrivalAt,omitempty"`
	RecentAttackerIDs    []string           `msgpack:"recentAttackerIds,omitempty"`
	RecentAttackAtMs     []int64            `msgpack:"recentAttackAtMs,omitempty"`
}

// MatchSnapshot is the persisted slice of the match state machine.
type MatchSnapshot struct {
	MatchID   string             `msgpack:"matchId,omitempty"`
	Phase     wire.MatchPhase    `msgpack:"phase"`
	StartAt   int64              `msgpack:"startAt,omitempty"`
	EndAt     int64              `msgpack:"endAt,omitempty"`
	WarmupEnd int64              `msgpack:"warmupEnd,omitempty"`
	EndReason wire.MatchEndReason `msgpack:"endReason,omitempty"`
}

// RoomSnapshot is the full persisted Room state. It is encoded with
// msgpack rather than JSON: the client wire is JSON, but this blob never
// crosses the client wire, so it takes over wsnet2's compact-binary-encoding
// role (wsnet2's own client wire is a hand-rolled binary format; here
// msgpack is relocated to the one remaining binary-encoding concern). Each
// player's nextProblemArrivalAt is
// carried on its own PlayerSnapshot.LastProblemArrivalAt, since the
// scheduler recomputes the actual next-arrival instant from that plus the
// phase's effective interval rather than from a separately stored value.
type RoomSnapshot struct {
	RoomID         string                `msgpack:"roomId"`
	Settings       wire.Settings         `msgpack:"settings"`
	Players        []PlayerSnapshot      `msgpack:"players"`
	Match          MatchSnapshot         `msgpack:"match"`
	Chat           []wire.ChatMessage    `msgpack:"chat"`
	EventLog       []wire.EventLogEntry  `msgpack:"eventLog"`
	NextChatID     int                   `msgpack:"nextChatId"`
	NextEventLogID int                   `msgpack:"nextEventLogId"`
	JoinSeq        int                   `msgpack:"joinSeq"`
	BotSeq         int                   `msgpack:"botSeq"`
}

// Encode serializes a RoomSnapshot to msgpack bytes for storage.
func Encode(s RoomSnapshot) ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, xerrors.Errorf("persistence: encode snapshot: %w", err)
	}
	return b, nil
}

// Decode deserializes a msgpack-encoded RoomSnapshot.
func Decode(b []byte) (RoomSnapshot, error) {
	var s RoomSnapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return RoomSnapshot{}, xerrors.Errorf("persistence: decode snapshot: %w", err)
	}
	return s, nil
}

// RestoreDefaults fills in fields a cold-started Room must default when
// they are absent from an older or partially-written snapshot, such as a
// missing lastProblemArrivalAt defaulting to the match start. It mutates
// and returns the same snapshot for chaining.
func RestoreDefaults(s RoomSnapshot) RoomSnapshot {
	for i := range s.Players {
		if s.Players[i].LastProblemArrivalAt == 0 {
			s.Players[i].LastProblemArrivalAt = s.Match.StartAt
		}
	}
	return s
}
