package matrix

import (
	"time"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// Frame is what an LED driver needs for one refresh.
type Frame struct {
	Grid       render.Grid
	Brightness uint8
	ID         uint64
}

// Frame returns the displayed grid with the brightness the LEDs should run
// at right now (faded during sleep transitions).
func (s *State) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{Grid: s.grid, Brightness: s.output.value(), ID: s.frameID}
}

func (s *State) Grid() render.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// Brightness is the configured brightness, unaffected by fades.
func (s *State) Brightness() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brightness
}

func (s *State) OutputBrightness() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.value()
}

func (s *State) Sleeping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sleeping.asleep
}

func (s *State) SleepState() (SleepState, SleepReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sleeping, s.sleepReason
}

func (s *State) DebugMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debug
}

func (s *State) Animate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animate
}

func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *State) Timer() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer
}

func (s *State) Side() addon.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side
}

func (s *State) AnimationPeriod() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

func (s *State) PWMFreq() PWMFreq {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pwm
}

// Keypresses returns a copy of the live keypress list, oldest first.
func (s *State) Keypresses() []addon.VisualKeypress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]addon.VisualKeypress(nil), s.keypresses.All()...)
}

// Snapshot is a JSON-friendly view of the state for status replies.
type Snapshot struct {
	Mode             string `json:"mode"`
	Brightness       uint8  `json:"brightness"`
	OutputBrightness uint8  `json:"output_brightness"`
	Sleeping         bool   `json:"sleeping"`
	SleepReason      string `json:"sleep_reason,omitempty"`
	Debug            bool   `json:"debug"`
	Animate          bool   `json:"animate"`
	Side             string `json:"side"`
	FPS              int    `json:"fps"`
	PWMFreqHz        int    `json:"pwm_freq_hz"`
	Keypresses       int    `json:"keypresses"`
	Timer            uint32 `json:"timer"`
	FrameID          uint64 `json:"frame_id"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Mode:             ModeName(s.mode),
		Brightness:       s.brightness,
		OutputBrightness: s.output.value(),
		Sleeping:         s.sleeping.asleep,
		Debug:            s.debug,
		Animate:          s.animate,
		Side:             s.side.String(),
		FPS:              int(time.Second / s.period),
		PWMFreqHz:        int(s.pwm),
		Keypresses:       s.keypresses.Len(),
		Timer:            s.timer,
		FrameID:          s.frameID,
	}
	if snap.Sleeping {
		snap.SleepReason = s.sleepReason.String()
	}
	return snap
}
