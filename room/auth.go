package room

import (
	"strings"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// Register pre-creates a Player record and its auth token, the step the
// Gateway's `POST /parties/<name>/<roomId>/register` performs before a
// client ever opens the duplex connection (spec §6: "JOIN_ROOM carries a
// bearer playerToken minted by the external gateway ... the Room verifies
// membership by token lookup within its own player table"). Bots never
// carry a token (spec §3: "authToken (empty for bots)").
func (r *Room) Register(playerID, token, username string, role wire.PlayerRole, isHost bool) *wire.Error {
	if r.match.Phase != wire.PhaseLobby {
		return wire.NewError(wire.ErrMatchAlreadyStarted, "room already started")
	}
	key := strings.ToLower(username)
	if r.usernames[key] {
		return wire.NewError(wire.ErrUsernameTaken, "username taken")
	}
	if len(r.players) >= r.settings.PlayerCap {
		return wire.NewError(wire.ErrRoomFull, "room full")
	}

	r.joinSeq++
	p := NewPlayer(playerID, username, token, role, r.joinSeq)
	p.IsHost = isHost
	r.players[playerID] = p
	r.usernames[key] = true
	if token != "" {
		r.tokens[token] = playerID
	}
	return nil
}

func (r *Room) handleJoinRoom(c *Conn, in *wire.Inbound) {
	var payload wire.JoinRoomPayload
	if err := unmarshalPayload(in, &payload); err != nil {
		c.SendError(in.RequestID, wire.NewError(wire.ErrBadRequest, "malformed JOIN_ROOM"))
		return
	}

	playerID, ok := r.tokens[payload.Token]
	if !ok {
		c.SendError(in.RequestID, wire.NewError(wire.ErrUnauthorized, "unknown token"))
		return
	}
	p, ok := r.players[playerID]
	if !ok {
		c.SendError(in.RequestID, wire.NewError(wire.ErrUnauthorized, "unknown player"))
		return
	}

	if p.Conn != nil && p.Conn != c {
		p.Conn.Close("replaced by new connection")
	}
	p.Conn = c
	p.Connected = true
	c.bind(playerID)
	r.hasEverJoined = true

	r.transferHostIfNeeded(nil)

	c.Send(wire.EvRoomSnapshot, in.RequestID, r.buildSnapshot(p))
	r.broadcastPlayerUpdate(p)
}

// transferHostIfNeeded ensures exactly one connected human player is host
// whenever one exists (spec §3 invariant), picking the earliest-joined
// connected human (§10.4: bots never hold host).
func (r *Room) transferHostIfNeeded(leaving *Player) {
	hasConnectedHost := false
	for _, p := range r.players {
		if p == leaving {
			continue
		}
		if p.IsHost && p.Connected && p.Role != wire.RoleBot {
			hasConnectedHost = true
			break
		}
	}
	if hasConnectedHost {
		return
	}

	var candidate *Player
	for _, p := range r.players {
		if p == leaving || p.Role == wire.RoleBot || p.IsSpectator() || !p.Connected {
			continue
		}
		if candidate == nil || p.JoinOrder < candidate.JoinOrder {
			candidate = p
		}
	}

	for _, p := range r.players {
		if p != candidate {
			p.IsHost = false
		}
	}
	if candidate != nil {
		if !candidate.IsHost {
			candidate.IsHost = true
			r.appendEventLog(wire.LogLevelInfo, candidate.Username+" is now the host")
			r.broadcastPlayerUpdate(candidate)
		}
	}
}
