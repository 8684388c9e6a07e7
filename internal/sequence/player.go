package sequence

import (
	"errors"
	"fmt"
	"math"
)

var ErrEmptyProgram = errors.New("program has no clips")

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h, lastBrightness: -1}
}

// Validate checks a program without loading it.
func (prog Program) Validate() error {
	if len(prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	for i, c := range prog.Clips {
		if !(c.DurationS > 0) {
			return fmt.Errorf("clip %d (%s): duration must be positive", i, c.Name)
		}
		if c.Brightness == nil {
			continue
		}
		for j := 1; j < len(c.Brightness.Keys); j++ {
			if c.Brightness.Keys[j].T < c.Brightness.Keys[j-1].T {
				return fmt.Errorf("clip %d (%s): brightness keys out of order", i, c.Name)
			}
		}
	}
	return nil
}

// Load replaces the current program. Resets time and state to Idle.
func (p *Player) Load(prog Program) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	p.prog = prog
	p.reset()
	p.State = Idle
	return nil
}

func (p *Player) reset() {
	p.nowS = 0
	p.idx = 0
	p.lastBrightness = -1
}

// Start moves to Running and runs the first clip's commands.
func (p *Player) Start() error {
	if p.State == Running || len(p.prog.Clips) == 0 {
		return nil
	}
	wasPaused := p.State == Paused
	p.State = Running
	if wasPaused {
		return nil
	}
	return p.enter()
}

// Pause pauses playback.
func (p *Player) Pause() {
	if p.State == Running {
		p.State = Paused
	}
}

// Stop stops and resets to start.
func (p *Player) Stop() {
	p.State = Idle
	p.reset()
}

// Clip returns the name of the clip playing and the time into it.
func (p *Player) Clip() (string, float64) {
	if len(p.prog.Clips) == 0 {
		return "", 0
	}
	return p.prog.Clips[p.idx].Name, p.nowS
}

// Tick advances the sequencer by dt seconds. A long dt may cross several
// clips; each one's commands still run in order.
func (p *Player) Tick(dt float64) error {
	if p.State != Running || dt <= 0 || math.IsInf(dt, 0) {
		return nil
	}
	p.nowS += dt

	var errs []error
	for p.State == Running {
		clip := p.prog.Clips[p.idx]
		if p.nowS < clip.DurationS {
			break
		}
		p.nowS -= clip.DurationS
		if p.idx+1 >= len(p.prog.Clips) {
			if !p.prog.Loop {
				p.Stop()
				break
			}
			p.idx = 0
		} else {
			p.idx++
		}
		p.lastBrightness = -1
		if err := p.enter(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.State == Running {
		p.automate()
	}
	return errors.Join(errs...)
}

// enter runs the current clip's commands and its first automation value.
func (p *Player) enter() error {
	clip := p.prog.Clips[p.idx]
	var errs []error
	if p.hooks.Run != nil {
		for _, line := range clip.Commands {
			if err := p.hooks.Run(line); err != nil {
				errs = append(errs, fmt.Errorf("clip %s: %w", clip.Name, err))
			}
		}
	}
	p.automate()
	return errors.Join(errs...)
}

func (p *Player) automate() {
	clip := p.prog.Clips[p.idx]
	if clip.Brightness == nil || p.hooks.SetBrightness == nil {
		return
	}
	v := int(math.Round(clip.Brightness.Eval(p.nowS)))
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	if v != p.lastBrightness {
		p.hooks.SetBrightness(uint8(v))
		p.lastBrightness = v
	}
}
