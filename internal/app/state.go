package app

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/command"
	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

// NewState builds the matrix state a config describes and applies its
// startup mode. Brightness and sleep fade are set explicitly so a stored 0
// survives a restart.
func NewState(cfg *config.Config, logger *zerolog.Logger) (*matrix.State, error) {
	sd, err := addon.ParseSide(cfg.Side)
	if err != nil {
		return nil, err
	}
	pwm, err := matrix.ParsePWMFreq(cfg.PWMFreqHz)
	if err != nil {
		return nil, err
	}
	st := matrix.New(matrix.Options{
		Side:         sd,
		PWMFreq:      pwm,
		KeypressLife: uint8(cfg.KeypressLife),
		Debug:        cfg.Debug,
		Animate:      cfg.Animate,
		Logger:       logger,
	})
	st.SetBrightness(uint8(cfg.Brightness))
	st.SetSleepFade(time.Duration(cfg.SleepFadeMs) * time.Millisecond)
	if err := st.SetAnimationFPS(cfg.FPS); err != nil {
		return nil, err
	}

	switch {
	case cfg.Startup.Addon != "":
		_, err = command.Run(st, "addon "+cfg.Startup.Addon)
	case cfg.Startup.Pattern == "percentage":
		_, err = command.Run(st, "pattern percentage "+strconv.Itoa(cfg.Startup.Percent))
	case cfg.Startup.Pattern != "":
		_, err = command.Run(st, "pattern "+cfg.Startup.Pattern)
	}
	return st, err
}
