package led

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// Sim logs a compact summary of each frame instead of driving LEDs.
type Sim struct {
	log   zerolog.Logger
	Every int // log one frame in Every; 0 logs all
	Count int
}

func NewSim(log zerolog.Logger) *Sim {
	return &Sim{log: log.With().Str("driver", "sim").Logger(), Every: 32}
}

func (d *Sim) Write(g *render.Grid, brightness uint8) error {
	d.Count++
	if d.Every > 1 && d.Count%d.Every != 1 {
		return nil
	}
	var sum int
	for x := range g {
		for y := range g[x] {
			sum += int(g[x][y])
		}
	}
	d.log.Debug().
		Int("frame", d.Count).
		Int("lit", g.Lit()).
		Float64("avg", float64(sum)/layout.Count).
		Uint8("brightness", brightness).
		Msg("frame")
	return nil
}

func (d *Sim) Close() error {
	d.log.Debug().Int("frames", d.Count).Msg("closed")
	return nil
}
