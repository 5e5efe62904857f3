package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestDefaultsMatchFirmware(t *testing.T) {
	c := Default()
	assert.Equal(t, 20*time.Millisecond, c.TickInterval())
	assert.Equal(t, 2, c.HueStepDegrees)
	assert.Equal(t, "spi", c.Driver)
	assert.NoError(t, c.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeFile(t, `
tick_interval_ms: 50
driver: sim
spi:
  port: SPI1.0
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 50, c.TickIntervalMs)
	assert.Equal(t, "sim", c.Driver)
	assert.Equal(t, "SPI1.0", c.SPI.Port)
	// untouched keys keep defaults
	assert.Equal(t, 2, c.HueStepDegrees)
	assert.Equal(t, 2400000, c.SPI.SpeedHz)
	assert.Equal(t, "rainbow/hue", c.MQTT.Topic)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Load(writeFile(t, "tick_interval_ms: [oops"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	c, err := Load(writeFile(t, "hue_step_degrees: 5\ndriver: console\n"))
	require.NoError(t, err)

	err = c.applyEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"RAINBOW_HUE_STEP_DEGREES": "3",
		"RAINBOW_MQTT_BROKER":      "tcp://broker:1883",
		"RAINBOW_LOG_JSON":         "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, c.HueStepDegrees)
	assert.Equal(t, "console", c.Driver)
	assert.Equal(t, "tcp://broker:1883", c.MQTT.Broker)
	assert.True(t, c.LogJSON)
	assert.Equal(t, 20, c.TickIntervalMs)
}

func TestValidateCollectsAll(t *testing.T) {
	c := Default()
	c.TickIntervalMs = 0
	c.HueStepDegrees = 360
	c.Driver = "pwm"
	c.MQTT.Broker = "tcp://x:1883"
	c.MQTT.Topic = ""
	c.LogLevel = "loud"

	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"tick_interval_ms", "hue_step_degrees", "driver", "mqtt.topic", "log_level"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSaveThenLoad(t *testing.T) {
	c := Default()
	c.Driver = "nrz"
	c.HTTP.Addr = ":8080"
	p := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(p, c))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
