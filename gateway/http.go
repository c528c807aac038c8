package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Tien-Cheng/leetcode-99-sub000/room"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// registerRequest is the body of POST /parties/{name}/{roomId}/register
// (spec §6).
type registerRequest struct {
	PlayerID    string          `json:"playerId"`
	PlayerToken string          `json:"playerToken"`
	Username    string          `json:"username"`
	Role        wire.PlayerRole `json:"role"`
	IsHost      bool            `json:"isHost"`
}

type registerResponse struct {
	RoomID   string       `json:"roomId"`
	Settings wire.Settings `json:"settings"`
	Phase    wire.MatchPhase `json:"phase"`
	Counts   countsPayload `json:"counts"`
}

type countsPayload struct {
	Players    int `json:"players"`
	Spectators int `json:"spectators"`
}

type stateResponse struct {
	RoomID      string          `json:"roomId"`
	Phase       wire.MatchPhase `json:"phase"`
	PlayerCount int             `json:"playerCount"`
	Settings    wire.Settings   `json:"settings"`
}

// httpErrorStatus maps a canonical ErrorCode onto the HTTP status the
// Gateway-facing side channel returns (spec §6).
func httpErrorStatus(code wire.ErrorCode) int {
	switch code {
	case wire.ErrRoomNotFound:
		return http.StatusNotFound
	case wire.ErrBadRequest:
		return http.StatusBadRequest
	case wire.ErrUsernameTaken, wire.ErrRoomFull, wire.ErrMatchAlreadyStarted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, e *wire.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErrorStatus(e.Code))
	json.NewEncoder(w).Encode(e)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Router builds the mux.Router the process listens with: the Gateway HTTP
// side channel plus the client-facing websocket upgrade (spec §6, §7).
func (m *Manager) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/parties/{name}/{roomId}/register", m.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/parties/{name}/{roomId}/state", m.handleState).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{roomId}/connect", m.handleConnect).Methods(http.MethodGet)
	return r
}

func (m *Manager) handleRegister(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	roomID := vars["roomId"]

	var body registerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, wire.NewError(wire.ErrBadRequest, "malformed register body"))
		return
	}
	if body.PlayerID == "" || body.Username == "" {
		writeError(w, wire.NewError(wire.ErrBadRequest, "playerId and username are required"))
		return
	}
	if n := len([]rune(body.Username)); n < wire.MinUsernameLen || n > wire.MaxUsernameLen {
		writeError(w, wire.NewError(wire.ErrBadRequest, "username must be 1..16 characters"))
		return
	}
	switch body.Role {
	case wire.RolePlayer, wire.RoleSpectator, wire.RoleBot:
	default:
		writeError(w, wire.NewError(wire.ErrBadRequest, "unknown role"))
		return
	}

	rm := m.GetOrCreateRoom(roomID)
	if werr := rm.Register(body.PlayerID, body.PlayerToken, body.Username, body.Role, body.IsHost); werr != nil {
		writeError(w, werr)
		return
	}

	snap := rm.DiagnosticState()
	writeJSON(w, registerResponse{
		RoomID:   roomID,
		Settings: snap.Settings,
		Phase:    snap.Phase,
		Counts:   countsPayload{Players: snap.PlayerCount, Spectators: snap.SpectatorCount},
	})
}

func (m *Manager) handleState(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	roomID := vars["roomId"]

	rm, ok := m.GetRoom(roomID)
	if !ok {
		writeError(w, wire.NewError(wire.ErrRoomNotFound, "room not found"))
		return
	}

	snap := rm.DiagnosticState()
	writeJSON(w, stateResponse{
		RoomID:      roomID,
		Phase:       snap.Phase,
		PlayerCount: snap.PlayerCount,
		Settings:    snap.Settings,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleConnect upgrades to a websocket and hands the connection to the
// Room; authentication happens over the duplex stream itself via JOIN_ROOM
// (spec §6: "JOIN_ROOM carries a bearer playerToken").
func (m *Manager) handleConnect(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	roomID := vars["roomId"]

	rm, ok := m.GetRoom(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		m.logger.Warnf("gateway: upgrade failed: %v", err)
		return
	}

	room.NewConn(uuid.NewString(), ws, rm)
}
