package room

import (
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/common"
	"github.com/Tien-Cheng/leetcode-99-sub000/targeting"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// attackRingSize bounds the per-player ring of recent incoming attacks the
// `attackers` targeting policy consults (spec §4.4).
const attackRingSize = 32

// Player is the Room's authoritative record for one participant, human or
// bot (spec §3 Data Model). It is only ever mutated from the Room's single
// dispatch goroutine.
type Player struct {
	PlayerID  string
	Username  string
	Token     string // empty for bots
	Role      wire.PlayerRole
	IsHost    bool
	JoinOrder int

	Status        wire.PlayerStatus
	Score         int
	Streak        int
	TargetingMode wire.TargetingMode
	ActiveDebuff  *wire.Debuff
	ActiveBuff    *wire.Buff
	GraceUntil    time.Time
	Connected     bool

	Conn *Conn

	CurrentProblem       *wire.Problem
	Queued               []*wire.Problem
	SeenProblemIDs       map[string]bool
	Code                 string
	CodeVersion          int
	RevealedHints        int
	ShopCooldownUntil    map[wire.ShopItem]time.Time
	LastProblemArrivalAt time.Time
	RecentAttacksOnMe    *common.RingBuf[targeting.Attack]

	SpectatingPlayerID string
	EliminatedAt       time.Time

	// BotSubmitAt is the next instant a bot player's pure solve model fires
	// (room/bot.go). Zero for humans and for a bot with no current problem.
	BotSubmitAt time.Time
}

// NewPlayer constructs a fresh Player record at join time.
func NewPlayer(playerID, username, token string, role wire.PlayerRole, joinOrder int) *Player {
	return &Player{
		PlayerID:          playerID,
		Username:          username,
		Token:             token,
		Role:              role,
		JoinOrder:         joinOrder,
		Status:            wire.StatusLobby,
		TargetingMode:     wire.TargetRandom,
		SeenProblemIDs:    make(map[string]bool),
		ShopCooldownUntil: make(map[wire.ShopItem]time.Time),
		RecentAttacksOnMe: common.NewRingBuf[targeting.Attack](attackRingSize),
	}
}

// StackSize is the number of queued problems, not counting the current one
// (spec §3 invariant: "stackSize = len(queued); currentProblem not
// counted").
func (p *Player) StackSize() int {
	return len(p.Queued)
}

// IsSpectator reports whether this record never carries private match
// state (spec §3: "Spectators never have private state").
func (p *Player) IsSpectator() bool {
	return p.Role == wire.RoleSpectator
}

// InGrace reports whether the player is currently immune to new debuffs
// (spec §4.4: grace period after a debuff ends).
func (p *Player) InGrace(now time.Time) bool {
	return !p.GraceUntil.IsZero() && now.Before(p.GraceUntil)
}

// DebuffAt returns the player's ActiveDebuff, or nil if it has expired as of
// now. The Room never reads an expired value as active (spec §8); this
// stays correct even for the instant between an alarm's wakeup and its
// expiry sweep clearing the field.
func (p *Player) DebuffAt(now time.Time) *wire.Debuff {
	if p.ActiveDebuff == nil || now.UnixMilli() >= p.ActiveDebuff.EndsAt {
		return nil
	}
	return p.ActiveDebuff
}

// BuffAt returns the player's ActiveBuff, or nil if it has expired as of now.
func (p *Player) BuffAt(now time.Time) *wire.Buff {
	if p.ActiveBuff == nil || now.UnixMilli() >= p.ActiveBuff.EndsAt {
		return nil
	}
	return p.ActiveBuff
}

// Public renders the publicly-visible slice of a Player (spec §3).
func (p *Player) Public(now time.Time) wire.PlayerPublic {
	return wire.PlayerPublic{
		PlayerID:      p.PlayerID,
		Username:      p.Username,
		Role:          p.Role,
		IsHost:        p.IsHost,
		JoinOrder:     p.JoinOrder,
		Status:        p.Status,
		Score:         p.Score,
		Streak:        p.Streak,
		TargetingMode: p.TargetingMode,
		StackSize:     p.StackSize(),
		ActiveDebuff:  p.DebuffAt(now),
		ActiveBuff:    p.BuffAt(now),
		Connected:     p.Connected,
	}
}

// queuedSummaries renders the Queued problems as QueuedProblemSummary rows,
// front first (spec §10.3: front of Queued is the next one
// seen).
func (p *Player) queuedSummaries() []wire.QueuedProblemSummary {
	out := make([]wire.QueuedProblemSummary, 0, len(p.Queued))
	for _, q := range p.Queued {
		out = append(out, q.Summary())
	}
	return out
}

// shopCooldownsMs renders ShopCooldownUntil as the millis-until-ready map
// ROOM_SNAPSHOT.self.shopCooldowns expects.
func (p *Player) shopCooldownsMs(now time.Time) map[wire.ShopItem]int64 {
	out := make(map[wire.ShopItem]int64, len(p.ShopCooldownUntil))
	for item, until := range p.ShopCooldownUntil {
		if until.After(now) {
			out[item] = until.Sub(now).Milliseconds()
		}
	}
	return out
}
