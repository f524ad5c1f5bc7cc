// Package notify forwards engine snapshots into the Bubble Tea event loop.
package notify

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/toasty/internal/toaster"
)

// SnapshotMsg carries a snapshot into Update.
type SnapshotMsg struct {
	Snapshot toaster.Snapshot
}

// Relay subscribes to an engine and keeps at most one pending snapshot,
// always the newest. Engine callbacks never block on the UI, so Update may
// call back into the engine freely.
type Relay struct {
	ch          chan toaster.Snapshot
	mu          sync.Mutex
	closed      bool
	unsubscribe func()
}

// NewRelay subscribes to engine.
func NewRelay(engine toaster.Engine) *Relay {
	r := &Relay{ch: make(chan toaster.Snapshot, 1)}
	r.unsubscribe = engine.Subscribe(r.push)
	return r
}

func (r *Relay) push(snap toaster.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case <-r.ch:
	default:
	}
	r.ch <- snap
}

// Wait returns a command that blocks until the next snapshot arrives. It
// must be re-issued after every SnapshotMsg.
func (r *Relay) Wait() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-r.ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// Close unsubscribes from the engine and releases any pending Wait.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.unsubscribe()
	close(r.ch)
}
