// Command ledmatrix-sim runs a left and a right matrix module side by side
// in the terminal. Typing drives the keypress animations; function keys
// switch modes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/app"
	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	"github.com/coreman2200/funtimes-ledmatrix/internal/driver/term"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
)

const help = "F1 spiral  F2 splashes  F3 helix  F4 pattern  F5 sleep  F6 debug  F7 animate  Esc quit"

var patterns = []string{"gradient", "double-gradient", "zigzag", "all-on", "percentage 50"}

type sim struct {
	screen  tcell.Screen
	modules []*app.Core
	pattern int
	sleep   bool
}

func main() {
	var (
		configPath = flag.String("config", "", "optional config.yaml for brightness, fps and timings")
		logPath    = flag.String("log", "", "write debug logs to this file")
		startAddon = flag.String("addon", "splashes", "addon animation to start with")
	)
	flag.Parse()

	logger := zerolog.Nop()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logger = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.Clear()

	s := &sim{screen: screen}
	for i, sd := range []addon.Side{addon.Left, addon.Right} {
		mc := *cfg
		mc.Side = sd.String()
		st, err := app.NewState(&mc, &logger)
		if err != nil {
			screen.Fini()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		// Leave a gap between the modules like on the keyboard deck.
		drv := term.New(screen, term.Options{X0: 2 + i*(layout.Width*term.CellWidth+6), Y0: 1})
		core := app.New(st, drv, app.Options{
			IdleTimeout: time.Duration(cfg.IdleTimeoutS) * time.Second,
			Logger:      &logger,
		})
		if _, err := core.Command("addon " + *startAddon); err != nil {
			screen.Fini()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		s.modules = append(s.modules, core)
	}
	s.run()
	for _, m := range s.modules {
		_ = m.Close()
	}
}

func (s *sim) run() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	period := s.modules[0].State.AnimationPeriod()
	tick := time.NewTicker(period)
	defer tick.Stop()
	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !s.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		case now := <-tick.C:
			dt := now.Sub(last)
			last = now
			for _, m := range s.modules {
				m.Step(dt)
			}
			s.drawStatus()
			s.screen.Show()
		}
	}
}

// handleKey returns false when the simulator should quit.
func (s *sim) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF1:
		s.all("addon spiral")
	case tcell.KeyF2:
		s.all("addon splashes")
	case tcell.KeyF3:
		s.all("addon helix")
	case tcell.KeyF4:
		s.all("pattern " + patterns[s.pattern])
		s.pattern = (s.pattern + 1) % len(patterns)
	case tcell.KeyF5:
		s.sleep = !s.sleep
		if s.sleep {
			s.all("sleep on")
		} else {
			s.all("sleep off")
		}
	case tcell.KeyF6:
		s.toggle("debug", s.modules[0].State.DebugMode())
	case tcell.KeyF7:
		s.toggle("animate", s.modules[0].State.Animate())
	default:
		if code, side, ok := term.Keypress(ev); ok {
			for _, m := range s.modules {
				m.Keypress(code, side, true)
			}
		}
	}
	return true
}

func (s *sim) toggle(name string, on bool) {
	if on {
		s.all(name + " off")
	} else {
		s.all(name + " on")
	}
}

func (s *sim) all(line string) {
	for _, m := range s.modules {
		_, _ = m.Command(line)
	}
}

func (s *sim) drawStatus() {
	snap := s.modules[0].State.Snapshot()
	status := fmt.Sprintf("%-24s bright %3d/%3d  fps %2d  debug %-5v animate %-5v sleeping %-5v",
		snap.Mode, snap.OutputBrightness, snap.Brightness, snap.FPS, snap.Debug, snap.Animate, snap.Sleeping)
	y := layout.Height + 2
	drawText(s.screen, 2, y, status)
	drawText(s.screen, 2, y+1, help)
}

func drawText(screen tcell.Screen, x, y int, text string) {
	w, _ := screen.Size()
	st := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	i := 0
	for _, r := range text {
		screen.SetContent(x+i, y, r, nil, st)
		i++
	}
	for ; x+i < w; i++ {
		screen.SetContent(x+i, y, ' ', nil, st)
	}
}
