package autosave

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { runs.Add(1) })

	d.Trigger()
	d.Trigger()
	d.Trigger()

	time.Sleep(60 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("runs: got %d, want 1", got)
	}
}

func TestDebouncer_TriggerResetsWindow(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { runs.Add(1) })

	d.Trigger()
	time.Sleep(15 * time.Millisecond)
	d.Trigger()
	time.Sleep(15 * time.Millisecond)

	// The first window would have elapsed by now, but the second trigger
	// replaced it.
	if got := runs.Load(); got != 0 {
		t.Errorf("runs before window elapsed: got %d, want 0", got)
	}

	time.Sleep(40 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("runs: got %d, want 1", got)
	}
}

func TestDebouncer_FlushRunsSynchronously(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })

	d.Trigger()
	d.Flush()

	if got := runs.Load(); got != 1 {
		t.Errorf("runs after flush: got %d, want 1", got)
	}

	// The cancelled timer must not fire later.
	time.Sleep(20 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("runs after wait: got %d, want 1", got)
	}
}

func TestDebouncer_FlushWithoutPendingIsNoOp(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })

	d.Flush()

	if got := runs.Load(); got != 0 {
		t.Errorf("runs: got %d, want 0", got)
	}
}

func TestDebouncer_CancelReportsPending(t *testing.T) {
	d := NewDebouncer(time.Hour, func() {})

	if d.Cancel() {
		t.Error("cancel with nothing pending reported true")
	}

	d.Trigger()
	if !d.Cancel() {
		t.Error("cancel with pending run reported false")
	}
}
