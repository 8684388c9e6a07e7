package fake

import (
	"errors"
	"sync"

	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

var ErrClosed = errors.New("fake driver closed")

// Driver captures frames for headless tests.
type Driver struct {
	mu         sync.Mutex
	Count      int
	Last       render.Grid
	Brightness uint8
	Closed     bool
	// Fail, when set, is returned from every Write.
	Fail error
}

func (d *Driver) Write(g *render.Grid, brightness uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Closed {
		return ErrClosed
	}
	if d.Fail != nil {
		return d.Fail
	}
	d.Count++
	d.Last = *g
	d.Brightness = brightness
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// Frames returns how many frames were written.
func (d *Driver) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Count
}

// Snapshot returns the last frame and the brightness it was written at.
func (d *Driver) Snapshot() (render.Grid, uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Last, d.Brightness
}
