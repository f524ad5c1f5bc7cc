package logutils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// DefaultDeferredLimit bounds how much output a held DeferredWriter keeps.
const DefaultDeferredLimit = 1 << 20

// Stderr is the writer New uses when no log file is given. Hold it while a
// full screen program owns the terminal.
var Stderr = &DeferredWriter{Out: os.Stderr}

// DeferredWriter passes writes through to Out until Hold is called. While
// held, writes are kept in memory and written out on Release. Writes past
// Limit bytes are counted and discarded. Safe for concurrent use.
type DeferredWriter struct {
	Out   io.Writer
	Limit int

	mu      sync.Mutex
	holding bool
	buf     bytes.Buffer
	dropped int
}

func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.holding {
		return d.Out.Write(p)
	}

	limit := d.Limit
	if limit <= 0 {
		limit = DefaultDeferredLimit
	}
	if d.buf.Len()+len(p) > limit {
		d.dropped++
		return len(p), nil
	}
	return d.buf.Write(p)
}

// Hold starts buffering writes.
func (d *DeferredWriter) Hold() {
	d.mu.Lock()
	d.holding = true
	d.mu.Unlock()
}

// Dropped returns how many writes were discarded since Hold.
func (d *DeferredWriter) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Release writes everything held to Out and goes back to passing writes
// through.
func (d *DeferredWriter) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.holding = false
	dropped := d.dropped
	d.dropped = 0

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(d.Out); err != nil {
			return err
		}
	}
	if dropped > 0 {
		if _, err := fmt.Fprintf(d.Out, "(%d log writes discarded)\n", dropped); err != nil {
			return err
		}
	}
	return nil
}
