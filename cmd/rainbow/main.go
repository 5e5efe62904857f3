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

	"github.com/coreman2200/funtimes-rainbow/internal/animation"
	"github.com/coreman2200/funtimes-rainbow/internal/config"
	diag "github.com/coreman2200/funtimes-rainbow/internal/diagnostics"
	"github.com/coreman2200/funtimes-rainbow/internal/led"
	"github.com/coreman2200/funtimes-rainbow/internal/mqtt"
	"github.com/coreman2200/funtimes-rainbow/internal/telemetry"
	"github.com/coreman2200/funtimes-rainbow/internal/ws"
)

func main() {
	var (
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly     = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		writeConfig = flag.String("write-config", "", "write the effective config to this path and exit")
	)
	flag.Parse()

	// ---- Config: defaults < config.yaml < RAINBOW_* env < flags ----
	cfg, loadErr := config.Load(*configPath)
	if loadErr != nil {
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("bad environment")
	}
	if *simOnly {
		cfg.Driver = led.KindSim
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.LogJSON {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(lvl)
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("path", *configPath).Msg("config load failed; using defaults")
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *writeConfig).Msg("write config")
		}
		log.Info().Str("path", *writeConfig).Msg("config written")
		return
	}

	log.Info().
		Str("driver", cfg.Driver).
		Int("tick_interval_ms", cfg.TickIntervalMs).
		Int("hue_step_degrees", cfg.HueStepDegrees).
		Msg("Starting Rainbow Demo")

	// ---- LED driver ----
	drv, selected, err := led.Open(led.Options{
		Kind:    cfg.Driver,
		Port:    cfg.SPI.Port,
		SpeedHz: cfg.SPI.SpeedHz,
		ResetUs: cfg.SPI.ResetUs,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("LED init failed")
	}

	// ---- Observability sinks ----
	sinks := telemetry.Fanout{telemetry.NewLogSink(log.Logger)}

	hub := ws.NewHub(selected, log.Logger)
	hub.Push(diag.DriverSelected(cfg.Driver, selected))
	var srv *http.Server
	if cfg.HTTP.Addr != "" {
		sinks = append(sinks, hub)
		srv = &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      hub.Routes(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server stopped")
			}
		}()
	}

	var pub *mqtt.Publisher
	if cfg.MQTT.Broker != "" {
		pub, err = mqtt.New(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT unavailable; records will not be published")
		} else {
			sinks = append(sinks, pub)
		}
	}

	shutdown := func() {
		if srv != nil {
			_ = srv.Close()
		}
		hub.Close()
		if pub != nil {
			pub.Close()
		}
		if err := drv.Close(); err != nil {
			log.Warn().Err(err).Msg("LED close")
		}
	}

	// ---- Animation ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := animation.New(drv,
		animation.WithStep(cfg.HueStepDegrees),
		animation.WithInterval(cfg.TickInterval()),
		animation.WithSink(sinks),
		animation.WithLogger(log.Logger),
	)
	hub.SetTickSource(d.Ticks)
	if err := d.Run(ctx); err != nil {
		var htf *animation.HardwareTransmitFailure
		if errors.As(err, &htf) {
			hub.Push(diag.TransmitFailed(htf.Hue, [3]uint8(htf.Color), htf.Err))
		}
		shutdown()
		log.Fatal().Err(err).Msg("animation halted")
	}

	log.Info().Msg("shutting down")
	shutdown()
}
