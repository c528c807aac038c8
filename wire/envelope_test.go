package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInboundRoundTrip(t *testing.T) {
	raw := []byte(`{"type":"SEND_CHAT","requestId":"r1","payload":{"text":"hi"}}`)
	in, err := ParseInbound(raw)
	require.NoError(t, err)
	require.Equal(t, CmdSendChat, in.Type)
	require.Equal(t, "r1", in.RequestID)

	var p SendChatPayload
	require.NoError(t, json.Unmarshal(in.Payload, &p))
	require.Equal(t, "hi", p.Text)
}

func TestOutboundEchoesRequestID(t *testing.T) {
	data, err := Outbound(EvChatAppend, "r1", ChatAppendPayload{Message: ChatMessage{ID: "1", Text: "hi"}})
	require.NoError(t, err)
	require.Contains(t, string(data), `"requestId":"r1"`)
	require.Contains(t, string(data), `"type":"CHAT_APPEND"`)
}

func TestOutboundOmitsEmptyRequestID(t *testing.T) {
	data, err := Outbound(EvError, "", NewError(ErrBadRequest, "bad"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "requestId")
}
