package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "mysql")
	return NewStore(sqlxDB), mock, func() { db.Close() }
}

func TestRecordMatchEndCommitsOnSuccess(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO match_players")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO match_players")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.RecordMatchEnd(context.Background(), Match{
		ID:        "m1",
		RoomID:    "r1",
		StartedAt: 1000,
		EndedAt:   2000,
		EndReason: string(wire.EndLastAlive),
		Settings:  "{}",
	}, []MatchPlayer{
		{PlayerID: "alice", Username: "Alice", Role: "player", Score: 30, Rank: 1},
		{PlayerID: "bob", Username: "Bob", Role: "player", Score: 10, Rank: 2},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMatchEndRollsBackOnPlayerInsertFailure(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO match_players")).WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err := store.RecordMatchEnd(context.Background(), Match{ID: "m1", RoomID: "r1"}, []MatchPlayer{
		{PlayerID: "alice", Username: "Alice", Role: "player"},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshotUpserts(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_snapshots")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveSnapshot(context.Background(), "room-1", []byte("blob"), time.UnixMilli(1000))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshotReturnsNotOkWhenMissing(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT roomId, blob, updatedAt FROM room_snapshots")).
		WillReturnError(sql.ErrNoRows)

	_, ok, err := store.LoadSnapshot(context.Background(), "missing-room")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadSnapshotReturnsBlob(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	rows := sqlmock.NewRows([]string{"roomId", "blob", "updatedAt"}).
		AddRow("room-1", []byte("blob"), int64(1000))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT roomId, blob, updatedAt FROM room_snapshots")).
		WillReturnRows(rows)

	blob, ok, err := store.LoadSnapshot(context.Background(), "room-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("blob"), blob)
}

func TestFromStandingsFillsRoleAndElimination(t *testing.T) {
	standings := []wire.StandingEntry{
		{Rank: 1, PlayerID: "alice", Username: "Alice", Score: 30, StackSize: 2, Alive: true},
		{Rank: 2, PlayerID: "bot-1", Username: "bot-1", Score: 10, StackSize: 5, Alive: false},
	}
	rows := FromStandings("m1", standings, map[string]wire.PlayerRole{"bot-1": wire.RoleBot}, map[string]int64{"bot-1": 5000})

	require.Len(t, rows, 2)
	require.Equal(t, wire.RolePlayer, wire.PlayerRole(rows[0].Role))
	require.Nil(t, rows[0].EliminatedAt)
	require.Equal(t, wire.RoleBot, wire.PlayerRole(rows[1].Role))
	require.NotNil(t, rows[1].EliminatedAt)
	require.Equal(t, int64(5000), *rows[1].EliminatedAt)
}
