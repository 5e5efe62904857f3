package led

import (
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	KindSPI     = "spi"
	KindNRZ     = "nrz"
	KindConsole = "console"
	KindSim     = "sim"
)

// Kinds lists the accepted driver names.
var Kinds = []string{KindSPI, KindNRZ, KindConsole, KindSim}

type Options struct {
	Kind    string
	Port    string // spireg name; empty picks the first registered port
	SpeedHz int // spi only; nrz runs at NRZFreq
	ResetUs int
}

// Open builds the driver named by o.Kind. When the SPI port cannot be found the
// bus-backed kinds fall back to the console, as bench setups rarely have one.
// The returned string names the driver actually selected.
func Open(o Options, logger zerolog.Logger) (Driver, string, error) {
	switch o.Kind {
	case KindSim:
		return NewSim(), KindSim, nil
	case KindConsole:
		return NewConsole(), KindConsole, nil
	case KindSPI, KindNRZ:
	default:
		return nil, "", fmt.Errorf("unknown driver %q", o.Kind)
	}

	if _, err := host.Init(); err != nil {
		return nil, "", fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(o.Port)
	if err != nil {
		logger.Warn().Err(err).
			Str("driver", o.Kind).
			Str("port", o.Port).
			Msg("SPI port unavailable; falling back to console")
		return NewConsole(), KindConsole, nil
	}

	var d Driver
	if o.Kind == KindNRZ {
		d, err = NewNRZ(port)
	} else {
		d, err = NewSPI(port, o.SpeedHz, o.ResetUs)
	}
	if err != nil {
		_ = port.Close()
		return nil, "", err
	}
	return d, o.Kind, nil
}
