package color

import "math"

const (
	// FullCircle is the number of hue degrees in one revolution.
	FullCircle = 360
	// MaxPercent is the upper bound for saturation and value.
	MaxPercent = 100
)

// Byte offsets inside a DeviceColor. WS2812-family LEDs latch green first.
const (
	GreenIndex = 0
	RedIndex   = 1
	BlueIndex  = 2
)

// DeviceColor is one pixel in wire order: green, red, blue.
type DeviceColor [3]byte

// FromRGB builds a DeviceColor from natural-order channels.
func FromRGB(r, g, b uint8) DeviceColor {
	var c DeviceColor
	c[GreenIndex] = g
	c[RedIndex] = r
	c[BlueIndex] = b
	return c
}

func (c DeviceColor) G() uint8 { return c[GreenIndex] }
func (c DeviceColor) R() uint8 { return c[RedIndex] }
func (c DeviceColor) B() uint8 { return c[BlueIndex] }

// RGB returns the channels in natural order.
func (c DeviceColor) RGB() (r, g, b uint8) {
	return c.R(), c.G(), c.B()
}

// Bytes returns a fresh slice in wire order.
func (c DeviceColor) Bytes() []byte {
	return []byte{c[0], c[1], c[2]}
}

// NormalizeHue maps any integer onto [0, 360).
func NormalizeHue(h int) int {
	h %= FullCircle
	if h < 0 {
		h += FullCircle
	}
	return h
}

// Convert maps hue (degrees, any integer), saturation and value (percent, 0..100)
// to a DeviceColor. Channels are rounded to nearest.
func Convert(hue, saturation, value int) DeviceColor {
	h := NormalizeHue(hue)
	s := float64(saturation) / MaxPercent
	v := float64(value) / MaxPercent

	c := v * s
	// (h/60 mod 2) - 1 taken in whole degrees keeps exact half values at .5
	x := c * float64(60-abs(h%120-60)) / 60
	m := v - c

	var r, g, b float64
	switch h / 60 {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	case 5:
		r, g, b = c, 0, x
	}

	return FromRGB(toByte(r+m), toByte(g+m), toByte(b+m))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func toByte(f float64) uint8 {
	v := math.Round(f * 255)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
