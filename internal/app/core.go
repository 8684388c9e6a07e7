// Package app wires the matrix state to an LED driver: the frame loop, the
// idle-timeout sleep policy and the optional demo playlist.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/command"
	diag "github.com/coreman2200/funtimes-ledmatrix/internal/diagnostics"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/led"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
	"github.com/coreman2200/funtimes-ledmatrix/internal/sequence"
	"github.com/coreman2200/funtimes-ledmatrix/internal/tests"
)

type Options struct {
	// IdleTimeout puts the module to sleep after this long without a
	// command or keypress. Zero disables it; so does debug mode.
	IdleTimeout time.Duration
	Logger      *zerolog.Logger
	// Now is the clock, time.Now when nil.
	Now func() time.Time
	// Wiring is the LED chain layout, used by the bring-up tests.
	Wiring layout.Serpentine
	Diag   diag.Sink
}

// Core owns the device state and its driver.
type Core struct {
	State *matrix.State
	Drv   led.Driver

	log    zerolog.Logger
	now    func() time.Time
	idle   time.Duration
	wiring layout.Serpentine
	diag   diag.Sink

	mu           sync.Mutex
	lastActivity time.Time
	listeners    []func(matrix.Frame)
	player       *sequence.Player
	test         *tests.Runner
	writeErrs    int
}

func New(st *matrix.State, drv led.Driver, opts Options) *Core {
	c := &Core{
		State:  st,
		Drv:    drv,
		log:    zerolog.Nop(),
		now:    opts.Now,
		idle:   opts.IdleTimeout,
		wiring: opts.Wiring,
		diag:   opts.Diag,
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "app").Logger()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.lastActivity = c.now()
	return c
}

// SetDiag replaces the diagnostics sink.
func (c *Core) SetDiag(sink diag.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diag = sink
}

func (c *Core) push(d diag.Diagnostic) {
	c.mu.Lock()
	sink := c.diag
	c.mu.Unlock()
	sink.Push(d)
}

// OnFrame registers f to receive every frame after it is written.
func (c *Core) OnFrame(f func(matrix.Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, f)
}

// Run drives frames at the state's animation rate until ctx is done.
func (c *Core) Run(ctx context.Context) error {
	period := c.State.AnimationPeriod()
	tick := time.NewTicker(period)
	defer tick.Stop()
	last := c.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			now := c.now()
			c.Step(now.Sub(last))
			last = now
			if p := c.State.AnimationPeriod(); p != period {
				period = p
				tick.Reset(p)
			}
		}
	}
}

// Step advances one frame by dt and pushes it to the driver and listeners.
func (c *Core) Step(dt time.Duration) matrix.Frame {
	c.tickPlaylist(dt)
	c.stepTest()
	c.checkIdle()
	c.State.Tick(dt)
	f := c.State.Frame()

	if c.Drv != nil {
		if err := c.Drv.Write(&f.Grid, f.Brightness); err != nil {
			c.mu.Lock()
			c.writeErrs++
			n := c.writeErrs
			c.mu.Unlock()
			// First failure and then one in a hundred.
			if n%100 == 1 {
				c.log.Warn().Err(err).Int("failures", n).Msg("driver write failed")
				c.push(diag.Diagnostic{
					Severity: diag.Warn, Code: diag.CodeDriverWrite, Summary: "LED driver write failed",
					Detail:   err.Error(),
					Evidence: map[string]any{"failures": n},
				})
			}
		}
	}

	c.mu.Lock()
	ls := append([]func(matrix.Frame){}, c.listeners...)
	c.mu.Unlock()
	for _, l := range ls {
		l(f)
	}
	return f
}

func (c *Core) checkIdle() {
	if c.idle <= 0 || c.State.DebugMode() || c.State.Sleeping() {
		return
	}
	c.mu.Lock()
	idleFor := c.now().Sub(c.lastActivity)
	c.mu.Unlock()
	if idleFor >= c.idle {
		c.log.Info().Dur("idle", idleFor).Msg("idle timeout")
		c.State.SetSleepingFor(true, matrix.ReasonTimeout)
		c.push(diag.Diagnostic{
			Severity: diag.Info, Code: diag.CodeSleep, Summary: "Sleeping after idle timeout",
			Evidence: map[string]any{"idle_s": idleFor.Seconds()},
		})
	}
}

// touch records user activity and wakes a module that slept on timeout.
func (c *Core) touch() {
	c.mu.Lock()
	c.lastActivity = c.now()
	c.mu.Unlock()
	if ss, reason := c.State.SleepState(); ss.IsSleeping() && reason == matrix.ReasonTimeout {
		c.State.SetSleeping(false)
		c.log.Info().Msg("woken by activity")
		c.push(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeWake, Summary: "Woke on activity after idle timeout"})
	}
}

// Command runs one control line from a user. It counts as activity and
// stops a running playlist. Besides the command package's commands it
// understands "test <kind>|stop" for the LED bring-up patterns.
func (c *Core) Command(line string) (command.Reply, error) {
	c.touch()
	c.StopPlaylist()
	if words, err := shlex.Split(line); err == nil && len(words) > 0 && words[0] == "test" {
		return c.testCommand(words[1:])
	}
	r, err := command.Run(c.State, line)
	if err != nil {
		c.push(diag.Diagnostic{
			Severity: diag.Warn, Code: diag.CodeCommandError, Summary: "Command failed",
			Detail:   err.Error(),
			Evidence: map[string]any{"line": line},
		})
	}
	return r, err
}

func (c *Core) testCommand(args []string) (command.Reply, error) {
	if len(args) == 0 {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.test == nil {
			return command.Reply{Name: "test", Value: "none"}, nil
		}
		return command.Reply{Name: "test", Value: string(c.test.Kind())}, nil
	}
	if args[0] == "stop" {
		c.mu.Lock()
		c.test = nil
		c.mu.Unlock()
		return command.Reply{Name: "test", Value: "none"}, nil
	}
	kind, err := tests.ParseKind(args[0])
	if err != nil {
		c.push(diag.Diagnostic{
			Severity: diag.Warn, Code: diag.CodeTestUnknown, Summary: "Unknown test name",
			Evidence: map[string]any{"name": args[0]},
		})
		return command.Reply{}, fmt.Errorf("test: %w: %v", command.ErrUsage, err)
	}
	// Hold each step for a few frames so it is visible.
	r := tests.NewRunner(tests.Plan{Kind: kind, Wiring: c.wiring, Hold: 4})
	c.mu.Lock()
	c.test = r
	c.mu.Unlock()
	c.push(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeTestRunning, Summary: "Running test", Detail: string(kind)})
	return command.Reply{Name: "test", Value: string(kind)}, nil
}

func (c *Core) stepTest() {
	c.mu.Lock()
	r := c.test
	if r == nil {
		c.mu.Unlock()
		return
	}
	var g render.Grid
	more := r.Step(&g)
	if !more {
		c.test = nil
	}
	c.mu.Unlock()

	if more {
		c.State.SetGrid(g)
		return
	}
	c.push(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeTestDone, Summary: "Test complete", Detail: string(r.Kind())})
}

// Keypress forwards a key event. Key-downs count as activity.
func (c *Core) Keypress(code uint16, side addon.Side, pressed bool) {
	if pressed {
		c.touch()
	}
	c.State.EnqueueKeypress(code, side, pressed)
}

// PlayProgram starts a demo playlist that drives the module through the
// command surface.
func (c *Core) PlayProgram(prog sequence.Program) error {
	p := sequence.NewPlayer(sequence.Hooks{
		Run: func(line string) error {
			_, err := command.Run(c.State, line)
			return err
		},
		SetBrightness: c.State.SetBrightness,
	})
	if err := p.Load(prog); err != nil {
		return err
	}
	// Player hooks only reach into State, never back into Core, so the
	// playlist is driven under c.mu.
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = p
	if err := p.Start(); err != nil {
		c.log.Warn().Err(err).Msg("playlist")
	}
	c.log.Info().Int("clips", len(prog.Clips)).Bool("loop", prog.Loop).Msg("playlist started")
	return nil
}

func (c *Core) StopPlaylist() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		c.player.Stop()
		c.player = nil
		c.log.Info().Msg("playlist stopped")
	}
}

// Playing reports the playlist clip running, if any.
func (c *Core) Playing() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player == nil || c.player.State != sequence.Running {
		return "", false
	}
	name, _ := c.player.Clip()
	return name, true
}

func (c *Core) tickPlaylist(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player == nil {
		return
	}
	if err := c.player.Tick(dt.Seconds()); err != nil {
		c.log.Warn().Err(err).Msg("playlist")
	}
	if c.player.State == sequence.Idle {
		c.player = nil
	}
}

// Close blanks and releases the driver.
func (c *Core) Close() error {
	c.StopPlaylist()
	if c.Drv == nil {
		return nil
	}
	return c.Drv.Close()
}
