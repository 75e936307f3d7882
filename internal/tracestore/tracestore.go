// Package tracestore persists step-trace events (internal/vm.TraceEvent)
// to a local SQLite database when `--trace-db` is given. Grounded on the
// pack's standard database/sql + pure-Go driver pattern (modernc.org/
// sqlite is a direct dependency of both the teacher and other example
// repos, always used this way rather than through an ORM).
//
// Never stores the bytecode or constant pool — only the per-step trace
// rows a run produces.
package tracestore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/sofia-lang/sofia/internal/vm"
)

// Store is a SQLite-backed sink for one run's step trace.
type Store struct {
	db    *sql.DB
	runID int64
}

// Open creates (or reuses) a trace database at path and begins a new run
// row, returning a Store ready to record its steps.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace db %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	res, err := db.Exec(`INSERT INTO runs DEFAULT VALUES`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("starting trace run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, runID: runID}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			ip INTEGER NOT NULL,
			opcode TEXT NOT NULL,
			operands TEXT NOT NULL,
			stack TEXT NOT NULL,
			frame_index INTEGER NOT NULL,
			node_id INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrating trace db: %w", err)
	}
	return nil
}

// Recorder returns a vm.TraceEvent callback that appends every event to
// this store, suitable for assigning directly to VM.Trace.
func (s *Store) Recorder() func(vm.TraceEvent) {
	seq := 0
	return func(evt vm.TraceEvent) {
		seq++
		operands, _ := json.Marshal(evt.Operands)
		stack, _ := json.Marshal(evt.Stack)
		_, err := s.db.Exec(
			`INSERT INTO steps (run_id, seq, ip, opcode, operands, stack, frame_index, node_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.runID, seq, evt.IP, evt.Opcode, string(operands), string(stack), evt.FrameIndex, evt.NodeID,
		)
		if err != nil {
			// A trace-store write failure must not abort program
			// execution; the worst case is a gap in the persisted trace.
			fmt.Printf("tracestore: write failed: %v\n", err)
		}
	}
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
