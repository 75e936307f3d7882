package tracestore

import (
	"path/filepath"
	"testing"

	"github.com/sofia-lang/sofia/internal/vm"
)

func TestOpenCreatesRunAndRecorderPersistsSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	record := store.Recorder()
	record(vm.TraceEvent{IP: 0, Opcode: "CONSTANT", Operands: []int{0}, Stack: []string{"10"}, FrameIndex: 0, NodeID: 1})
	record(vm.TraceEvent{IP: 3, Opcode: "POP", Operands: nil, Stack: nil, FrameIndex: 0, NodeID: 0})

	var runCount int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runCount); err != nil {
		t.Fatalf("counting runs: %v", err)
	}
	if runCount != 1 {
		t.Fatalf("expected exactly 1 run row, got %d", runCount)
	}

	var stepCount int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM steps WHERE run_id = ?`, store.runID).Scan(&stepCount); err != nil {
		t.Fatalf("counting steps: %v", err)
	}
	if stepCount != 2 {
		t.Fatalf("expected 2 recorded steps, got %d", stepCount)
	}

	var opcode string
	var seq int
	if err := store.db.QueryRow(`SELECT seq, opcode FROM steps WHERE run_id = ? ORDER BY seq ASC LIMIT 1`, store.runID).Scan(&seq, &opcode); err != nil {
		t.Fatalf("reading first step: %v", err)
	}
	if seq != 1 || opcode != "CONSTANT" {
		t.Fatalf("expected first step to be seq=1 opcode=CONSTANT, got seq=%d opcode=%s", seq, opcode)
	}
}

func TestOpenReusesExistingDatabaseAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopening the same trace db failed: %v", err)
	}
	defer second.Close()

	var runCount int
	if err := second.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runCount); err != nil {
		t.Fatalf("counting runs: %v", err)
	}
	if runCount != 2 {
		t.Fatalf("expected the second Open to add its own run row (2 total), got %d", runCount)
	}
}
