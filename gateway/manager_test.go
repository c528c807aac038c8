package gateway

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/config"
	"github.com/Tien-Cheng/leetcode-99-sub000/judge"
	"github.com/Tien-Cheng/leetcode-99-sub000/log"
	"github.com/Tien-Cheng/leetcode-99-sub000/persistence"
	"github.com/Tien-Cheng/leetcode-99-sub000/problems"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func TestGetOrCreateRoomRestoresFromPersistedSnapshot(t *testing.T) {
	lib, err := problems.Load([]*wire.Problem{
		{
			ProblemID:    "p-1",
			Title:        "One",
			Difficulty:   wire.DifficultyEasy,
			ProblemType:  wire.ProblemTypeCode,
			TimeLimitMs:  2000,
			FunctionName: "solve",
			Signature:    "func solve() int",
			StarterCode:  "func solve() int {}",
		},
	})
	require.NoError(t, err)

	defaults := config.Default().RoomDefaults
	now := time.Now().UnixMilli()
	snap := persistence.RoomSnapshot{
		RoomID: "room-1",
		Settings: wire.Settings{
			MatchDurationSec:  defaults.MatchDurationSec,
			PlayerCap:         defaults.PlayerCap,
			StackLimit:        defaults.StackLimit,
			StartingQueued:    defaults.StartingQueued,
			DifficultyProfile: defaults.DifficultyProfile,
			AttackIntensity:   defaults.AttackIntensity,
		},
		Match: persistence.MatchSnapshot{MatchID: "m1", Phase: wire.PhaseMain, StartAt: now, EndAt: now + 600_000},
		Players: []persistence.PlayerSnapshot{
			{PlayerID: "alice", Token: "tok-alice", Username: "alice", Role: wire.RolePlayer, IsHost: true, CurrentProblemID: "p-1"},
		},
	}
	blob, err := persistence.Encode(snap)
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "mysql")
	store := persistence.NewStore(sqlxDB)

	rows := sqlmock.NewRows([]string{"roomId", "blob", "updatedAt"}).AddRow("room-1", blob, int64(1000))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT roomId, blob, updatedAt FROM room_snapshots")).WillReturnRows(rows)

	m := NewManager(config.Default(), log.Nop(), lib, judge.NewClient("http://judge.invalid", time.Second, 30*time.Second), store)
	r := m.GetOrCreateRoom("room-1")

	diag := r.DiagnosticState()
	require.Equal(t, wire.PhaseMain, diag.Phase)
	require.Equal(t, 1, diag.PlayerCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
