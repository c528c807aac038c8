package wire

import "encoding/json"

// CommandType is the closed set of client->server message types (spec §4.1).
type CommandType string

const (
	CmdJoinRoom       CommandType = "JOIN_ROOM"
	CmdSendChat       CommandType = "SEND_CHAT"
	CmdUpdateSettings CommandType = "UPDATE_SETTINGS"
	CmdAddBots        CommandType = "ADD_BOTS"
	CmdStartMatch     CommandType = "START_MATCH"
	CmdSetTargetMode  CommandType = "SET_TARGET_MODE"
	CmdRunCode        CommandType = "RUN_CODE"
	CmdSubmitCode     CommandType = "SUBMIT_CODE"
	CmdSpendPoints    CommandType = "SPEND_POINTS"
	CmdSpectatePlayer CommandType = "SPECTATE_PLAYER"
	CmdStopSpectate   CommandType = "STOP_SPECTATE"
	CmdCodeUpdate     CommandType = "CODE_UPDATE"
	CmdReturnToLobby  CommandType = "RETURN_TO_LOBBY"
)

// EventType is the closed set of server->client message types (spec §6).
type EventType string

const (
	EvRoomSnapshot     EventType = "ROOM_SNAPSHOT"
	EvSettingsUpdate   EventType = "SETTINGS_UPDATE"
	EvMatchStarted     EventType = "MATCH_STARTED"
	EvMatchPhaseUpdate EventType = "MATCH_PHASE_UPDATE"
	EvPlayerUpdate     EventType = "PLAYER_UPDATE"
	EvJudgeResult      EventType = "JUDGE_RESULT"
	EvStackUpdate      EventType = "STACK_UPDATE"
	EvChatAppend       EventType = "CHAT_APPEND"
	EvAttackReceived   EventType = "ATTACK_RECEIVED"
	EvEventLogAppend   EventType = "EVENT_LOG_APPEND"
	EvSpectateState    EventType = "SPECTATE_STATE"
	EvCodeUpdate       EventType = "CODE_UPDATE"
	EvMatchEnd         EventType = "MATCH_END"
	EvError            EventType = "ERROR"
)

// Envelope is the single JSON object framing every message on the duplex
// stream (spec §6: "every message ... is a single JSON object
// {type, requestId?, payload}").
type Envelope struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Inbound is a parsed client->server Envelope with a typed payload still
// encoded, ready for command-specific unmarshaling.
type Inbound struct {
	Type      CommandType
	RequestID string
	Payload   json.RawMessage
}

// ParseInbound decodes a raw client message into its envelope.
func ParseInbound(data []byte) (*Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &Inbound{Type: CommandType(env.Type), RequestID: env.RequestID, Payload: env.Payload}, nil
}

// Outbound builds the bytes for one server->client Envelope, echoing
// requestId when present (spec §4.1: "responses ... echo it").
func Outbound(t EventType, requestID string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	env := Envelope{Type: string(t), RequestID: requestID, Payload: raw}
	return json.Marshal(env)
}

// MaxCodeBytes / MaxChatBytes / MaxUsernameLen / MaxPayloadBytes enforce the
// size bounds in spec §6.
const (
	MaxCodeBytes    = 50_000
	MaxChatBytes    = 200
	MinUsernameLen  = 1
	MaxUsernameLen  = 16
	MaxPayloadBytes = 64 * 1024
	MaxChatHistory  = 100
)
