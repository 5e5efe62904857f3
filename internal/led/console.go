package led

import (
	"image"
	stdcolor "image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Console paints the pixel as an ANSI block on stdout. Used when no SPI port is present.
type Console struct {
	drawer display.Drawer
	img    *image.NRGBA
	closed bool
}

func NewConsole() *Console {
	return &Console{
		drawer: screen.New(1),
		img:    image.NewNRGBA(image.Rect(0, 0, 1, 1)),
	}
}

func (c *Console) Write(grb []byte) error {
	if c.closed {
		return ErrClosed
	}
	if err := checkFrame(grb); err != nil {
		return err
	}
	c.img.SetNRGBA(0, 0, stdcolor.NRGBA{R: grb[1], G: grb[0], B: grb[2], A: 255})
	return c.drawer.Draw(c.drawer.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.drawer.Halt()
}
