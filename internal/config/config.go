package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-rainbow/internal/led"
)

type SPI struct {
	Port    string `yaml:"port"     env:"RAINBOW_SPI_PORT,overwrite"`     // spireg name, e.g. SPI0.0
	SpeedHz int    `yaml:"speed_hz" env:"RAINBOW_SPI_SPEED_HZ,overwrite"` // e.g. 2400000
	ResetUs int    `yaml:"reset_us" env:"RAINBOW_SPI_RESET_US,overwrite"` // e.g. 300
}

type HTTP struct {
	Addr string `yaml:"addr" env:"RAINBOW_HTTP_ADDR,overwrite"` // empty disables the preview server
}

type MQTT struct {
	Broker   string `yaml:"broker"    env:"RAINBOW_MQTT_BROKER,overwrite"` // tcp://host:1883; empty disables
	Topic    string `yaml:"topic"     env:"RAINBOW_MQTT_TOPIC,overwrite"`
	ClientID string `yaml:"client_id" env:"RAINBOW_MQTT_CLIENT_ID,overwrite"`
}

type Config struct {
	TickIntervalMs int    `yaml:"tick_interval_ms" env:"RAINBOW_TICK_INTERVAL_MS,overwrite"`
	HueStepDegrees int    `yaml:"hue_step_degrees" env:"RAINBOW_HUE_STEP_DEGREES,overwrite"`
	Driver         string `yaml:"driver"           env:"RAINBOW_DRIVER,overwrite"` // "spi" | "nrz" | "console" | "sim"

	LogLevel string `yaml:"log_level" env:"RAINBOW_LOG_LEVEL,overwrite"`
	LogJSON  bool   `yaml:"log_json"  env:"RAINBOW_LOG_JSON,overwrite"`

	SPI  SPI  `yaml:"spi"`
	HTTP HTTP `yaml:"http,omitempty"`
	MQTT MQTT `yaml:"mqtt,omitempty"`
}

// Default mirrors the original firmware: 20ms per step, 2 degrees per step.
func Default() *Config {
	return &Config{
		TickIntervalMs: 20,
		HueStepDegrees: 2,
		Driver:         led.KindSPI,
		LogLevel:       "info",
		SPI: SPI{
			SpeedHz: led.DefaultSpeedHz,
			ResetUs: led.DefaultResetUs,
		},
		MQTT: MQTT{
			Topic:    "rainbow/hue",
			ClientID: "rainbow",
		},
	}
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Load reads path over the defaults. Fields absent from the file keep their default.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays RAINBOW_* variables from the process environment.
func (c *Config) ApplyEnv(ctx context.Context) error {
	return c.applyEnv(ctx, envconfig.OsLookuper())
}

func (c *Config) applyEnv(ctx context.Context, l envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, c, l); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval_ms must be > 0, got %d", c.TickIntervalMs))
	}
	if c.HueStepDegrees < 1 || c.HueStepDegrees > 359 {
		errs = append(errs, fmt.Errorf("hue_step_degrees must be in [1, 359], got %d", c.HueStepDegrees))
	}
	if !slices.Contains(led.Kinds, c.Driver) {
		errs = append(errs, fmt.Errorf("driver must be one of %v, got %q", led.Kinds, c.Driver))
	}
	if c.SPI.SpeedHz <= 0 {
		errs = append(errs, fmt.Errorf("spi.speed_hz must be > 0, got %d", c.SPI.SpeedHz))
	}
	if c.SPI.ResetUs < 0 {
		errs = append(errs, fmt.Errorf("spi.reset_us must be >= 0, got %d", c.SPI.ResetUs))
	}
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err != nil || lvl == zerolog.NoLevel {
		errs = append(errs, fmt.Errorf("log_level %q is not a level", c.LogLevel))
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		errs = append(errs, errors.New("mqtt.topic is required when mqtt.broker is set"))
	}
	return errors.Join(errs...)
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
