package command

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pattern"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// Reply is the result of a command: the setting it touched and its value
// after the command ran.
type Reply struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

func (r Reply) String() string {
	return fmt.Sprintf("%s: %v", r.Name, r.Value)
}

type handler func(s *matrix.State, args []string) (any, error)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"brightness": brightness,
		"sleep":      sleep,
		"wake":       wake,
		"animate":    animate,
		"pattern":    setPattern,
		"grid":       grid,
		"addon":      setAddon,
		"game":       setGame,
		"key":        key,
		"fps":        fps,
		"pwm":        pwm,
		"debug":      debug,
		"side":       side,
		"status":     status,
	}
}

// Execute applies c to s.
func Execute(s *matrix.State, c Command) (Reply, error) {
	h, ok := handlers[c.Name]
	if !ok {
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownCommand, c.Name)
	}
	v, err := h(s, c.Args)
	if err != nil {
		return Reply{}, fmt.Errorf("%s: %w", c.Name, err)
	}
	return Reply{Name: c.Name, Value: v}, nil
}

// Run parses and executes one line.
func Run(s *matrix.State, line string) (Reply, error) {
	c, err := Parse(line)
	if err != nil {
		return Reply{}, err
	}
	return Execute(s, c)
}

func brightness(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		n, err := parseUint(args[0], 8)
		if err != nil {
			return nil, err
		}
		s.SetBrightness(uint8(n))
	}
	return s.Brightness(), nil
}

func sleep(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		s.SetSleeping(on)
	}
	return onOff(s.Sleeping()), nil
}

func wake(s *matrix.State, _ []string) (any, error) {
	s.SetSleeping(false)
	return onOff(s.Sleeping()), nil
}

func animate(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		s.SetAnimate(on)
	}
	return onOff(s.Animate()), nil
}

// pattern <name> [percent]
func setPattern(s *matrix.State, args []string) (any, error) {
	if len(args) == 0 {
		return matrix.ModeName(s.Mode()), nil
	}
	kind, err := pattern.Parse(args[0])
	if err != nil {
		return nil, err
	}
	p := pattern.Pattern{Kind: kind}
	if kind == pattern.Percentage {
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: pattern percentage <0-100>", ErrUsage)
		}
		n, err := parseUint(args[1], 8)
		if err != nil {
			return nil, err
		}
		if n > 100 {
			return nil, fmt.Errorf("%w: percentage %d out of range", ErrUsage, n)
		}
		p.Percent = uint8(n)
	}
	s.SetPattern(p)
	return matrix.ModeName(s.Mode()), nil
}

// grid <hex> uploads a raw column-major frame of layout.Count bytes.
func grid(s *matrix.State, args []string) (any, error) {
	if len(args) == 0 {
		g := s.Grid()
		return hex.EncodeToString(g.Bytes()), nil
	}
	b, err := hex.DecodeString(strings.Join(args, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: grid wants hex: %v", ErrUsage, err)
	}
	if len(b) != layout.Count {
		return nil, fmt.Errorf("%w: grid wants %d bytes, got %d", ErrUsage, layout.Count, len(b))
	}
	s.SetGrid(render.GridFromBytes(b))
	return matrix.ModeName(s.Mode()), nil
}

// addon <name>|stop
func setAddon(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		if strings.EqualFold(args[0], "stop") {
			s.StopAddonAnimation()
		} else {
			a, err := addon.Parse(args[0])
			if err != nil {
				return nil, err
			}
			if err := s.SetAddonAnimation(a); err != nil {
				return nil, err
			}
		}
	}
	return matrix.ModeName(s.Mode()), nil
}

// game <name>|stop
func setGame(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		if strings.EqualFold(args[0], "stop") {
			s.StopGame()
		} else {
			k, err := matrix.ParseGameKind(args[0])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUsage, err)
			}
			s.SetGame(matrix.GameState{Kind: k})
		}
	}
	return matrix.ModeName(s.Mode()), nil
}

// key <keycode> [left|right] [down|up]
func key(s *matrix.State, args []string) (any, error) {
	if len(args) == 0 {
		return len(s.Keypresses()), nil
	}
	code, err := parseUint(args[0], 16)
	if err != nil {
		return nil, err
	}
	sd := s.Side()
	if len(args) > 1 {
		if sd, err = addon.ParseSide(args[1]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
	}
	pressed := true
	if len(args) > 2 {
		switch strings.ToLower(args[2]) {
		case "down", "press":
		case "up", "release":
			pressed = false
		default:
			return nil, fmt.Errorf("%w: key state %q", ErrUsage, args[2])
		}
	}
	s.EnqueueKeypress(uint16(code), sd, pressed)
	return len(s.Keypresses()), nil
}

func fps(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: fps %q", ErrUsage, args[0])
		}
		if err := s.SetAnimationFPS(n); err != nil {
			return nil, err
		}
	}
	return s.Snapshot().FPS, nil
}

func pwm(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		hz, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(args[0]), "hz"))
		if err != nil {
			return nil, fmt.Errorf("%w: pwm %q", ErrUsage, args[0])
		}
		f, err := matrix.ParsePWMFreq(hz)
		if err != nil {
			return nil, err
		}
		if err := s.SetPWMFreq(f); err != nil {
			return nil, err
		}
	}
	return int(s.PWMFreq()), nil
}

func debug(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		on, err := parseBool(args[0])
		if err != nil {
			return nil, err
		}
		s.SetDebugMode(on)
	}
	return onOff(s.DebugMode()), nil
}

func side(s *matrix.State, args []string) (any, error) {
	if len(args) > 0 {
		sd, err := addon.ParseSide(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		s.SetSide(sd)
	}
	return s.Side().String(), nil
}

func status(s *matrix.State, _ []string) (any, error) {
	return s.Snapshot(), nil
}
