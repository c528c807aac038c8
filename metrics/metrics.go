// Package metrics exposes process-wide counters via expvar, the same way
// wsnet2's metrics package is called from Room/Peer (metrics.Rooms.Add(1),
// metrics.MessageSent.Add(1)).
package metrics

import "expvar"

var (
	// Rooms is the number of currently running Room actors.
	Rooms = expvar.NewInt("rooms")

	// MessageSent / MessageRecv count wire messages across all connections.
	MessageSent = expvar.NewInt("message_sent")
	MessageRecv = expvar.NewInt("message_recv")

	// JudgeCalls / JudgeCacheHits / JudgeTimeouts count judge orchestration outcomes.
	JudgeCalls      = expvar.NewInt("judge_calls")
	JudgeCacheHits  = expvar.NewInt("judge_cache_hits")
	JudgeTimeouts   = expvar.NewInt("judge_timeouts")
	JudgeFailures   = expvar.NewInt("judge_failures")

	// Eliminations / MatchesEnded count match lifecycle events.
	Eliminations = expvar.NewInt("eliminations")
	MatchesEnded = expvar.NewInt("matches_ended")

	// SnapshotWrites counts persistence shim writes.
	SnapshotWrites = expvar.NewInt("snapshot_writes")
)
