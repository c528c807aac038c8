package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snap := RoomSnapshot{
		RoomID: "room-1",
		Settings: wire.Settings{
			MatchDurationSec: 300,
			PlayerCap:        20,
			StackLimit:       10,
			StartingQueued:   2,
		},
		Players: []PlayerSnapshot{
			{PlayerID: "alice", Username: "Alice", Role: wire.RolePlayer, Score: 30, Code: "x := 1"},
		},
		Match: MatchSnapshot{MatchID: "match-1", Phase: wire.PhaseMain, StartAt: 1000, EndAt: 2000},
		Chat: []wire.ChatMessage{
			{ID: "c1", Timestamp: 1001, Sender: "alice", Text: "gl hf"},
		},
		NextChatID:     2,
		NextEventLogID: 1,
	}

	encoded, err := Encode(snap)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, snap, decoded)
}

func TestRestoreDefaultsFillsMissingArrival(t *testing.T) {
	snap := RoomSnapshot{
		Match: MatchSnapshot{StartAt: 5000},
		Players: []PlayerSnapshot{
			{PlayerID: "alice", LastProblemArrivalAt: 0},
			{PlayerID: "bob", LastProblemArrivalAt: 7000},
		},
	}

	restored := RestoreDefaults(snap)
	require.Equal(t, int64(5000), restored.Players[0].LastProblemArrivalAt)
	require.Equal(t, int64(7000), restored.Players[1].LastProblemArrivalAt)
}

func TestDecodeInvalidBytesErrors(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}
