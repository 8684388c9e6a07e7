package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-ledmatrix/internal/app"
	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	diag "github.com/coreman2200/funtimes-ledmatrix/internal/diagnostics"
	"github.com/coreman2200/funtimes-ledmatrix/internal/driver/fake"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/led"
	"github.com/coreman2200/funtimes-ledmatrix/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides where set) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "driver: spi | sim | fake (default from config)")
		addr       = flag.String("addr", "", "HTTP listen address (default from config)")
		side       = flag.String("side", "", "keyboard side this module sits on: left | right")
		debug      = flag.Bool("debug", false, "debug mode: instant transitions, no idle sleep")
		verbose    = flag.Bool("v", false, "debug logging")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *side != "" {
		cfg.Side = *side
	}
	if *debug {
		cfg.Debug = true
	}
	if cfg.Driver == "term" {
		log.Warn().Msg("driver=term is only available in ledmatrix-sim; using sim")
		cfg.Driver = "sim"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// ---- State ----
	st, err := app.NewState(cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("state")
	}

	// ---- Driver selection ----
	wiring := layout.Serpentine{FlipEveryColumn: cfg.Serpentine}
	var fallback *diag.Diagnostic
	var drv led.Driver
	switch cfg.Driver {
	case "spi":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed")
		}
		d, err := led.OpenNRZ(cfg.SPI.Dev, wiring)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Msg("SPI init failed; falling back to SIM")
			fallback = &diag.Diagnostic{
				Severity: diag.Warn, Code: diag.CodeDriverFallback, Summary: "SPI init failed; running simulated",
				Detail:         err.Error(),
				LikelyCauses:   []string{"SPI not enabled", "wrong port name", "missing permissions on /dev/spidev*"},
				SuggestedFixes: []string{"enable SPI in the boot config", "set spi.dev in config.yaml"},
			}
			drv = led.NewSim(log.Logger)
			cfg.Driver = "sim"
		} else {
			log.Info().Str("dev", d.String()).Msg("SPI LED chain ready")
			drv = d
		}
	case "fake":
		drv = &fake.Driver{}
	default:
		drv = led.NewSim(log.Logger)
	}

	core := app.New(st, drv, app.Options{
		IdleTimeout: time.Duration(cfg.IdleTimeoutS) * time.Second,
		Logger:      &log.Logger,
		Wiring:      wiring,
	})

	srv := ws.NewServer(core, log.Logger)
	srv.CurrentDriver = cfg.Driver
	srv.ConfigPath = *configPath
	srv.Config = cfg
	if fallback != nil {
		srv.PushDiag(*fallback)
	}

	if cfg.Playlist != nil {
		if err := core.PlayProgram(*cfg.Playlist); err != nil {
			log.Warn().Err(err).Msg("playlist")
		}
	}

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	srv.Routes(mux)
	hs := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run frame loop & server ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := core.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("frame loop")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("driver", cfg.Driver).Str("side", cfg.Side).Msg("HTTP server starting")
		if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = hs.Shutdown(shutdownCtx)
	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
