// Package persistence implements the Persistence Shim (spec §4.10): the
// Results Store that records final match outcomes, and (in snapshot.go) the
// per-event state snapshot used for cold-start restore.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/xerrors"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// Match is one row of the `matches` table (spec §6:
// "matches(id, roomId, startedAt, endedAt, endReason, settings)").
type Match struct {
	ID        string `db:"id"`
	RoomID    string `db:"roomId"`
	StartedAt int64  `db:"startedAt"`
	EndedAt   int64  `db:"endedAt"`
	EndReason string `db:"endReason"`
	Settings  string `db:"settings"` // JSON-encoded wire.Settings
}

// MatchPlayer is one row of the `match_players` table (spec §6:
// "match_players(matchId, playerId, username, role, score, rank,
// eliminatedAt?)"), one per non-spectator participant.
type MatchPlayer struct {
	MatchID     string `db:"matchId"`
	PlayerID    string `db:"playerId"`
	Username    string `db:"username"`
	Role        string `db:"role"`
	Score       int    `db:"score"`
	Rank        int    `db:"rank"`
	EliminatedAt *int64 `db:"eliminatedAt"`
}

// insertQuery builds a NamedExec-ready "INSERT INTO table (...) VALUES
// (:...)" statement from a struct's `db` tags, the same reflect-tag-driven
// approach wsnet2's game repository uses for its room table
// (repository.go: initQueries/roomInsertQuery).
func insertQuery(table string, sample interface{}) string {
	t := reflect.TypeOf(sample)
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if c := t.Field(i).Tag.Get("db"); c != "" {
			cols = append(cols, c)
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)", table, strings.Join(cols, ","), strings.Join(cols, ",:"))
}

var (
	matchInsertQuery       = insertQuery("matches", Match{})
	matchPlayerInsertQuery = insertQuery("match_players", MatchPlayer{})
)

// Store is the Results Store: a thin sqlx wrapper writing final match
// outcomes once, at match end (spec §6). Grounded on the wsnet2
// Repository's use of *sqlx.DB plus transactional writes in CreateRoom.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already-opened *sqlx.DB. Opening/pooling the connection
// is the caller's job (cmd/matchserver), mirroring how wsnet2's
// Repository takes a *sqlx.DB rather than a DSN.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open is a convenience constructor for production wiring: it opens a MySQL
// connection via go-sql-driver/mysql and applies sane pool limits.
func Open(dsn string, maxOpenConns int) (*Store, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, xerrors.Errorf("persistence: open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	if err := db.Ping(); err != nil {
		return nil, xerrors.Errorf("persistence: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordMatchEnd writes the match row and one match_players row per
// non-spectator participant in a single transaction (spec §6: "written once
// to the Results Store").
func (s *Store) RecordMatchEnd(ctx context.Context, m Match, players []MatchPlayer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return xerrors.Errorf("persistence: begin: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx, matchInsertQuery, m); err != nil {
		tx.Rollback()
		return xerrors.Errorf("persistence: insert match: %w", err)
	}

	for _, p := range players {
		p.MatchID = m.ID
		if _, err := tx.NamedExecContext(ctx, matchPlayerInsertQuery, p); err != nil {
			tx.Rollback()
			return xerrors.Errorf("persistence: insert match_player %s: %w", p.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return xerrors.Errorf("persistence: commit: %w", err)
	}
	return nil
}

// roomSnapshotRow is one row of the `room_snapshots` table: one row per
// room holding the latest msgpack-encoded blob.
type roomSnapshotRow struct {
	RoomID    string `db:"roomId"`
	Blob      []byte `db:"blob"`
	UpdatedAt int64  `db:"updatedAt"`
}

// SaveSnapshot upserts the latest encoded RoomSnapshot for a room. Called
// by the Room itself after every mutating dispatch, so writes are frequent
// and must stay cheap: a single upsert, no transaction.
func (s *Store) SaveSnapshot(ctx context.Context, roomID string, blob []byte, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	const q = `INSERT INTO room_snapshots (roomId, blob, updatedAt) VALUES (:roomId, :blob, :updatedAt)
		ON DUPLICATE KEY UPDATE blob = VALUES(blob), updatedAt = VALUES(updatedAt)`
	_, err := s.db.NamedExecContext(ctx, q, roomSnapshotRow{RoomID: roomID, Blob: blob, UpdatedAt: now.UnixMilli()})
	if err != nil {
		return xerrors.Errorf("persistence: save snapshot %s: %w", roomID, err)
	}
	return nil
}

// LoadSnapshot fetches the latest encoded RoomSnapshot for a room, if one
// was ever written. ok is false when the room has never been snapshotted
// (a genuinely new room, not a cold-start restore).
func (s *Store) LoadSnapshot(ctx context.Context, roomID string) (blob []byte, ok bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var row roomSnapshotRow
	err = s.db.GetContext(ctx, &row, `SELECT roomId, blob, updatedAt FROM room_snapshots WHERE roomId = ?`, roomID)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, xerrors.Errorf("persistence: load snapshot %s: %w", roomID, err)
	}
	return row.Blob, true, nil
}

// FromStandings is a helper building MatchPlayer rows from the match
// package's ranked Standings output, carrying each player's role and an
// optional elimination timestamp supplied by the Room.
func FromStandings(matchID string, standings []wire.StandingEntry, roles map[string]wire.PlayerRole, eliminatedAt map[string]int64) []MatchPlayer {
	out := make([]MatchPlayer, 0, len(standings))
	for _, st := range standings {
		role := roles[st.PlayerID]
		if role == "" {
			role = wire.RolePlayer
		}
		var elim *int64
		if t, ok := eliminatedAt[st.PlayerID]; ok {
			elim = &t
		}
		out = append(out, MatchPlayer{
			PlayerID:     st.PlayerID,
			Username:     st.Username,
			Role:         string(role),
			Score:        st.Score,
			Rank:         st.Rank,
			EliminatedAt: elim,
		})
	}
	return out
}
