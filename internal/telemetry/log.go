package telemetry

import "github.com/rs/zerolog"

// LogSink writes each record as an info event.
type LogSink struct {
	Logger zerolog.Logger
}

func NewLogSink(l zerolog.Logger) *LogSink {
	return &LogSink{Logger: l.With().Str("component", "neopixel").Logger()}
}

func (s *LogSink) Publish(r Record) {
	s.Logger.Info().
		Uint64("tick", r.Tick).
		Int("hue", r.Hue).
		Uint8("g", r.Color.G()).
		Uint8("r", r.Color.R()).
		Uint8("b", r.Color.B()).
		Str("hex", r.Hex()).
		Msgf("Hue: %d° | GRB: [%3d, %3d, %3d]", r.Hue, r.Color.G(), r.Color.R(), r.Color.B())
}
