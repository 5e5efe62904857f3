package diagnostics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverSelected(t *testing.T) {
	d := DriverSelected("spi", "spi")
	assert.Equal(t, Info, d.Severity)
	assert.Equal(t, "LED.DRIVER", d.Code)
	assert.Empty(t, d.SuggestedFixes)

	d = DriverSelected("spi", "console")
	assert.Equal(t, Warn, d.Severity)
	assert.Equal(t, "LED.DRIVER_FALLBACK", d.Code)
	assert.Contains(t, d.Summary, "console")
	assert.NotEmpty(t, d.SuggestedFixes)
}

func TestTransmitFailedJSON(t *testing.T) {
	d := TransmitFailed(120, [3]uint8{255, 0, 0}, errors.New("bus gone"))

	b, err := json.Marshal(d)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "error", got["severity"])
	assert.Equal(t, "bus gone", got["detail"])
	ev := got["evidence"].(map[string]any)
	assert.Equal(t, float64(120), ev["hue"])
	assert.Equal(t, []any{float64(255), float64(0), float64(0)}, ev["grb"])
	assert.NotContains(t, got, "suggested_fixes")
}
