package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/config"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/log"
	"github.com/Tien-Cheng/leetcode-99-sub000/persistence"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestToSnapshotCapturesPlayerAndMatchState(t *testing.T) {
	r := newTestRoom(t)
	alice := joinHuman(r, "alice", "alice", true)
	joinHuman(r, "bob", "bob", false)
	r.handleStartMatch(alice, &Conn{}, &wire.Inbound{})

	alice.Score = 42
	alice.ActiveDebuff = &wire.Debuff{Type: wire.DebuffDDoS, EndsAt: r.now().Add(10 * time.Second).UnixMilli()}
	r.nextChatID++
	r.appendChat(wire.ChatMessage{ID: "room-1-chat-1", Timestamp: 1, Sender: "alice", Text: "hi"})

	snap := r.toSnapshot()

	require.Equal(t, "room-1", snap.RoomID)
	require.Equal(t, wire.PhaseWarmup, snap.Match.Phase)
	require.NotZero(t, snap.Match.StartAt)
	require.NotZero(t, snap.Match.WarmupEnd)
	require.Len(t, snap.Chat, 1)
	require.Equal(t, 1, snap.NextChatID)
	require.Len(t, snap.Players, 2)

	var aliceSnap persistence.PlayerSnapshot
	for _, ps := range snap.Players {
		if ps.PlayerID == "alice" {
			aliceSnap = ps
		}
	}
	require.Equal(t, 42, aliceSnap.Score)
	require.Equal(t, "tok-alice", aliceSnap.Token)
	require.NotNil(t, aliceSnap.ActiveDebuff)
	require.Equal(t, wire.DebuffDDoS, aliceSnap.ActiveDebuff.Type)
	require.NotEmpty(t, aliceSnap.CurrentProblemID)
}

func TestNewRoomFromSnapshotRestoresStateAndAcceptsRejoin(t *testing.T) {
	r := newTestRoom(t)
	alice := joinHuman(r, "alice", "alice", true)
	joinHuman(r, "bob", "bob", false)
	r.handleStartMatch(alice, &Conn{}, &wire.Inbound{})
	alice.Score = 7

	snap := r.toSnapshot()

	restored := NewRoomFromSnapshot(RestoreOptions{
		Conf:        config.Default(),
		Logger:      log.Nop(),
		Library:     r.lib,
		JudgeClient: judge.NewClient("http://judge.invalid", time.Second, 30*time.Second),
		Seed:        1,
		Snapshot:    snap,
	})
	defer func() { restored.closed = true; close(restored.done) }()

	diag := restored.DiagnosticState()
	require.Equal(t, wire.PhaseWarmup, diag.Phase)
	require.Equal(t, 2, diag.PlayerCount)

	c := &Conn{room: restored, sendCh: make(chan []byte, 8), done: make(chan struct{})}
	restored.postCommand(c, &wire.Inbound{
		Type:      wire.CmdJoinRoom,
		RequestID: "req-1",
		Payload:   []byte(`{"token":"tok-alice"}`),
	})

	select {
	case msg := <-c.sendCh:
		require.Contains(t, string(msg), string(wire.EvRoomSnapshot))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ROOM_SNAPSHOT after rejoin")
	}
}
