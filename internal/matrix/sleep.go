package matrix

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// SleepReason records what put the module to sleep.
type SleepReason uint8

const (
	ReasonCommand SleepReason = iota
	ReasonSleepPin
	ReasonTimeout
	ReasonUSBSuspend
)

func (r SleepReason) String() string {
	switch r {
	case ReasonSleepPin:
		return "sleep-pin"
	case ReasonTimeout:
		return "timeout"
	case ReasonUSBSuspend:
		return "usb-suspend"
	}
	return "command"
}

// SleepState is either awake or asleep holding the frame and brightness to
// restore on wake.
type SleepState struct {
	asleep     bool
	grid       render.Grid
	brightness uint8
}

func Awake() SleepState { return SleepState{} }

func Sleeping(grid render.Grid, brightness uint8) SleepState {
	return SleepState{asleep: true, grid: grid, brightness: brightness}
}

func (s SleepState) IsSleeping() bool { return s.asleep }

// Saved returns the frame and brightness captured when going to sleep.
func (s SleepState) Saved() (render.Grid, uint8, bool) {
	return s.grid, s.brightness, s.asleep
}

// fader eases the brightness the LEDs actually run at towards a target.
type fader struct {
	level  float32
	target uint8
	tween  *gween.Tween
}

func (f *fader) snap(v uint8) {
	f.tween = nil
	f.level = float32(v)
	f.target = v
}

func (f *fader) to(v uint8, d time.Duration) {
	if d <= 0 {
		f.snap(v)
		return
	}
	f.target = v
	f.tween = gween.New(f.level, float32(v), float32(d.Seconds()), ease.InOutQuad)
}

func (f *fader) update(dt float32) {
	if f.tween == nil {
		return
	}
	v, done := f.tween.Update(dt)
	f.level = v
	if done {
		f.snap(f.target)
	}
}

func (f *fader) active() bool { return f.tween != nil }

func (f *fader) value() uint8 {
	switch {
	case f.level <= 0:
		return 0
	case f.level >= 255:
		return 255
	}
	return uint8(f.level + 0.5)
}
