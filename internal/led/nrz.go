package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"
)

// NRZ transmits through periph's nrzled driver.
type NRZ struct {
	port   spi.PortCloser
	dev    *nrzled.Dev
	rgb    [FrameSize]byte
	closed bool
}

// NRZFreq is the only SPI clock nrzled accepts: 4-bit symbols at 2.5 MHz give 800 kbit/s on the wire.
const NRZFreq = 2500 * physic.KiloHertz

// NewNRZ ignores the configured SPI speed; nrzled fixes its own clock.
func NewNRZ(port spi.PortCloser) (*NRZ, error) {
	d, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: 1,
		Channels:  FrameSize,
		Freq:      NRZFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{port: port, dev: d}, nil
}

func (n *NRZ) String() string { return n.dev.String() }

// Write hands nrzled natural RGB; nrzled emits GRB on the wire itself.
func (n *NRZ) Write(grb []byte) error {
	if n.closed {
		return ErrClosed
	}
	if err := checkFrame(grb); err != nil {
		return err
	}
	n.rgb[0], n.rgb[1], n.rgb[2] = grb[1], grb[0], grb[2]
	if _, err := n.dev.Write(n.rgb[:]); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

func (n *NRZ) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	herr := n.dev.Halt()
	if err := n.port.Close(); err != nil {
		return fmt.Errorf("nrzled close: %w", err)
	}
	return herr
}
