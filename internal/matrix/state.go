// Package matrix is the LED matrix device state machine: it owns the shown
// frame and decides, each tick, which renderer produces the next one.
package matrix

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pattern"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

var (
	ErrInvalidFPS     = errors.New("invalid animation fps")
	ErrInvalidPWMFreq = errors.New("invalid pwm frequency")
)

const (
	DefaultBrightness      = 51
	DefaultAnimationPeriod = 31250 * time.Microsecond // 32 fps
	DefaultKeypressLife    = 50
	DefaultSleepFade       = time.Second
)

// PWMFreq is the LED controller PWM frequency in Hz.
type PWMFreq uint16

const (
	PWM29k PWMFreq = 29000
	PWM3k6 PWMFreq = 3600
	PWM25k PWMFreq = 25000
	PWM1k2 PWMFreq = 1200
)

func ParsePWMFreq(hz int) (PWMFreq, error) {
	switch f := PWMFreq(hz); f {
	case PWM29k, PWM3k6, PWM25k, PWM1k2:
		if int(f) == hz {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %d Hz (want 29000, 3600, 25000 or 1200)", ErrInvalidPWMFreq, hz)
}

// Options configure a new State. Zero fields take the defaults above; use
// SetBrightness or SetSleepFade afterwards to apply an explicit zero.
type Options struct {
	Side            addon.Side
	Brightness      uint8
	AnimationPeriod time.Duration
	PWMFreq         PWMFreq
	KeypressLife    uint8
	SleepFade       time.Duration
	Debug           bool
	Animate         bool
	Logger          *zerolog.Logger
}

// State is the device aggregate. All methods are safe for concurrent use;
// each one runs to completion before the next mutator starts, so a keypress
// can never land in the middle of a tick.
type State struct {
	mu  sync.Mutex
	log zerolog.Logger

	grid    render.Grid // currently displayed
	compose render.Grid // next frame under construction

	keypresses   addon.Keypresses
	keypressLife uint8
	timer        uint32
	carry        time.Duration
	side         addon.Side

	mode     Mode
	gameHook GameHook

	sleeping    SleepState
	sleepReason SleepReason
	brightness  uint8
	output      fader
	sleepFade   time.Duration

	animate bool
	debug   bool
	period  time.Duration
	pwm     PWMFreq
	frameID uint64
}

func New(opts Options) *State {
	s := &State{
		side:         opts.Side,
		brightness:   opts.Brightness,
		period:       opts.AnimationPeriod,
		pwm:          opts.PWMFreq,
		keypressLife: opts.KeypressLife,
		sleepFade:    opts.SleepFade,
		debug:        opts.Debug,
		animate:      opts.Animate,
		mode:         StaticMode{Pattern: pattern.Pattern{Kind: pattern.Custom}},
		log:          zerolog.Nop(),
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "matrix").Logger()
	}
	if s.brightness == 0 {
		s.brightness = DefaultBrightness
	}
	if s.period <= 0 {
		s.period = DefaultAnimationPeriod
	}
	if s.pwm == 0 {
		s.pwm = PWM29k
	}
	if s.keypressLife == 0 {
		s.keypressLife = DefaultKeypressLife
	}
	if s.sleepFade == 0 {
		s.sleepFade = DefaultSleepFade
	}
	s.output.snap(s.brightness)
	return s
}

// Tick advances one frame after dt of wall time and returns the frame now
// displayed. While asleep nothing is rendered; only the brightness fade
// moves.
func (s *State) Tick(dt time.Duration) render.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	s.output.update(float32(dt.Seconds()))
	if s.sleeping.IsSleeping() {
		return s.grid
	}

	s.keypresses.Decay(1)
	steps := s.advanceTimer(dt)

	s.compose = s.grid
	switch m := s.mode.(type) {
	case StaticMode:
		if s.animate && steps > 0 {
			s.compose.Rotate(int(steps))
		}
	case AddonMode:
		f := addon.Frame{
			Timer:      s.timer,
			Side:       s.side,
			Keypresses: s.keypresses.All(),
			MaxLife:    s.keypressLife,
		}
		addon.Draw(&f, m.Animation, &s.compose)
	case GameMode:
		if s.gameHook != nil && m.Game != nil {
			s.gameHook(m.Game, &s.compose)
		}
	}

	s.grid = s.compose
	s.frameID++
	return s.grid
}

// advanceTimer converts wall time into whole animation steps, carrying the
// remainder. The timer wraps on overflow.
func (s *State) advanceTimer(dt time.Duration) uint32 {
	s.carry += dt
	steps := s.carry / s.period
	s.carry -= steps * s.period
	s.timer += uint32(steps)
	return uint32(steps)
}

// EnqueueKeypress records a key-down for keypress-reactive animations. Key
// releases are ignored. When the list is full the oldest keypress is
// evicted.
func (s *State) EnqueueKeypress(keycode uint16, side addon.Side, pressed bool) {
	if !pressed {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keypresses.Push(addon.NewVisualKeypress(keycode, side, s.keypressLife)) {
		s.log.Debug().Uint16("keycode", keycode).Msg("keypress list full; evicted oldest")
	}
}

// SetMode switches the rendering mode. Switching to the mode already active
// is a no-op.
func (s *State) SetMode(m Mode) error {
	if a, ok := m.(AddonMode); ok && !a.Animation.Valid() {
		return fmt.Errorf("%w: %d", addon.ErrUnknownAnimation, uint8(a.Animation))
	}
	if g, ok := m.(GameMode); ok && g.Game == nil {
		return errors.New("game mode without game state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setModeLocked(m)
	return nil
}

func (s *State) setModeLocked(m Mode) {
	if m == nil || sameMode(s.mode, m) {
		return
	}
	s.log.Info().Str("from", ModeName(s.mode)).Str("to", ModeName(m)).Msg("mode change")
	s.mode = m
	if st, ok := m.(StaticMode); ok {
		st.Pattern.Draw(s.frontGrid())
	}
}

// frontGrid is the frame that will be visible once awake.
func (s *State) frontGrid() *render.Grid {
	if s.sleeping.asleep {
		return &s.sleeping.grid
	}
	return &s.grid
}

func (s *State) SetPattern(p pattern.Pattern) {
	_ = s.SetMode(StaticMode{Pattern: p})
}

// SetGrid shows g as a static frame.
func (s *State) SetGrid(g render.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.frontGrid() = g
	s.setModeLocked(StaticMode{Pattern: pattern.Pattern{Kind: pattern.Custom}})
}

func (s *State) SetAddonAnimation(a addon.Animation) error {
	return s.SetMode(AddonMode{Animation: a})
}

// StopAddonAnimation freezes the last rendered frame as a static one. It does
// nothing unless an addon animation is running.
func (s *State) StopAddonAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mode.(AddonMode); ok {
		s.setModeLocked(StaticMode{Pattern: pattern.Pattern{Kind: pattern.Custom}})
	}
}

// SetGame starts g, dropping whatever mode was active. Starting the game
// kind that is already running keeps its current state.
func (s *State) SetGame(g GameState) {
	_ = s.SetMode(GameMode{Game: &g})
}

func (s *State) StopGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mode.(GameMode); ok {
		s.setModeLocked(StaticMode{Pattern: pattern.Pattern{Kind: pattern.Custom}})
	}
}

func (s *State) SetGameHook(h GameHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameHook = h
}

// SetSleeping puts the module to sleep or wakes it, for ReasonCommand.
func (s *State) SetSleeping(sleep bool) {
	s.SetSleepingFor(sleep, ReasonCommand)
}

// SetSleepingFor is SetSleeping with an explicit reason. Going to sleep
// saves the frame and brightness; waking restores both. Outside debug mode
// the output brightness fades instead of switching instantly.
func (s *State) SetSleepingFor(sleep bool, reason SleepReason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sleep == s.sleeping.asleep {
		return
	}
	if sleep {
		s.sleeping = Sleeping(s.grid, s.brightness)
		s.sleepReason = reason
		s.fadeTo(0)
		s.log.Info().Str("reason", reason.String()).Bool("debug", s.debug).Msg("sleeping")
		return
	}

	grid, brightness, _ := s.sleeping.Saved()
	s.grid = grid
	s.brightness = brightness
	s.sleeping = Awake()
	s.fadeTo(brightness)
	s.log.Info().Bool("debug", s.debug).Uint8("brightness", brightness).Msg("waking")
}

func (s *State) fadeTo(v uint8) {
	if s.debug {
		s.output.snap(v)
		return
	}
	s.output.to(v, s.sleepFade)
}

// SetDebugMode only changes how transitions are performed: instant instead
// of faded. Turning it on finishes any fade in progress.
func (s *State) SetDebugMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debug == on {
		return
	}
	s.debug = on
	if on && s.output.active() {
		s.output.snap(s.output.target)
	}
	s.log.Info().Bool("debug", on).Msg("debug mode")
}

// SetBrightness sets the LED brightness out of 255. While asleep it changes
// the brightness restored on wake.
func (s *State) SetBrightness(b uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sleeping.asleep {
		s.sleeping.brightness = b
		return
	}
	s.brightness = b
	s.output.snap(b)
}

// SetSleepFade sets how long sleep and wake fades take. Zero turns fading
// off.
func (s *State) SetSleepFade(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleepFade = d
}

func (s *State) SetAnimate(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animate = on
}

func (s *State) SetAnimationPeriod(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: period %v", ErrInvalidFPS, d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = d
	s.carry = 0
	return nil
}

// SetAnimationFPS sets the animation cadence from frames per second.
func (s *State) SetAnimationFPS(fps int) error {
	if fps <= 0 || fps > 1_000_000 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, fps)
	}
	return s.SetAnimationPeriod(time.Duration(1_000_000/fps) * time.Microsecond)
}

func (s *State) SetPWMFreq(f PWMFreq) error {
	if _, err := ParsePWMFreq(int(f)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pwm = f
	return nil
}

func (s *State) SetSide(side addon.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.side = side
}
