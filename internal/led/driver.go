package led

import "errors"

// FrameSize is the number of bytes in one pixel frame (G, R, B).
const FrameSize = 3

var (
	ErrClosed = errors.New("led: driver closed")
	ErrLength = errors.New("led: frame must be exactly 3 bytes")
)

// Driver abstracts the LED transmit peripheral.
type Driver interface {
	// Write sends one pixel, already in wire order, without repeat.
	Write(grb []byte) error
	// Close blanks the pixel where possible and releases the peripheral.
	Close() error
}

func checkFrame(grb []byte) error {
	if len(grb) != FrameSize {
		return ErrLength
	}
	return nil
}
