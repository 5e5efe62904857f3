package animation

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-rainbow/internal/color"
)

// ErrHardwareTransmit matches any HardwareTransmitFailure with errors.Is.
var ErrHardwareTransmit = errors.New("hardware transmit failure")

// HardwareTransmitFailure is returned when the LED driver rejects a frame.
// There is no retry; the loop stops and the process is expected to exit.
type HardwareTransmitFailure struct {
	Hue   int
	Color color.DeviceColor
	Err   error
}

func (e *HardwareTransmitFailure) Error() string {
	return fmt.Sprintf("%s at hue %d (grb %v): %v", ErrHardwareTransmit, e.Hue, e.Color, e.Err)
}

func (e *HardwareTransmitFailure) Is(target error) bool { return target == ErrHardwareTransmit }

func (e *HardwareTransmitFailure) Unwrap() error { return e.Err }
