package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	DefaultSpeedHz = 2_400_000
	DefaultResetUs = 300
)

// SPI drives a WS2812-style pixel by bit-expanding frames onto MOSI.
type SPI struct {
	port spi.PortCloser
	conn spi.Conn
	// encoded frame followed by the latch tail; the tail is never written to
	buf    []byte
	closed bool
}

// NewSPI connects port in mode 0. speedHz in the 2_400_000–3_200_000 range suits the 3x expansion;
// resetUs is the latch (WS2812 needs >= 280µs on newer parts).
func NewSPI(port spi.PortCloser, speedHz, resetUs int) (*SPI, error) {
	if speedHz <= 0 {
		speedHz = DefaultSpeedHz
	}
	if resetUs <= 0 {
		resetUs = DefaultResetUs
	}
	c, err := port.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spi connect: %w", err)
	}
	return &SPI{
		port: port,
		conn: c,
		buf:  make([]byte, EncodedLen(FrameSize)+resetBytes(speedHz, resetUs)),
	}, nil
}

func (s *SPI) String() string { return "spi{" + s.conn.String() + "}" }

// Write encodes grb and transmits it with the latch tail in a single transaction.
func (s *SPI) Write(grb []byte) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkFrame(grb); err != nil {
		return err
	}
	Encode(s.buf, grb)
	if err := s.conn.Tx(s.buf, nil); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

// Close blanks the pixel, then releases the port.
func (s *SPI) Close() error {
	if s.closed {
		return nil
	}
	werr := s.Write(make([]byte, FrameSize))
	s.closed = true
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("spi close: %w", err)
	}
	return werr
}
