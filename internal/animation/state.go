package animation

import "github.com/coreman2200/funtimes-rainbow/internal/color"

// State is the only thing the animation remembers between ticks.
type State struct {
	Hue int
}

// Advance moves the hue by step degrees, wrapping into [0, 360).
func (s *State) Advance(step int) {
	s.Hue = color.NormalizeHue(s.Hue + step)
}
