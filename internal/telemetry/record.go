package telemetry

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-rainbow/internal/color"
)

// SampleEvery is the hue spacing, in degrees, between emitted records.
const SampleEvery = 10

// Sampled reports whether a record is due at hue.
func Sampled(hue int) bool {
	return hue%SampleEvery == 0
}

// Record is one observed tick.
type Record struct {
	Tick  uint64
	Hue   int
	Color color.DeviceColor
	At    time.Time
}

// Hex renders the color as #rrggbb.
func (r Record) Hex() string {
	rr, gg, bb := r.Color.RGB()
	return colorful.Color{R: float64(rr) / 255, G: float64(gg) / 255, B: float64(bb) / 255}.Hex()
}

// Payload is the wire form shared by the websocket and MQTT sinks.
type Payload struct {
	Tick uint64   `json:"tick"`
	Hue  int      `json:"hue"`
	GRB  [3]uint8 `json:"grb"`
	Hex  string   `json:"hex"`
	T    int64    `json:"t"`
}

func (r Record) Payload() Payload {
	return Payload{
		Tick: r.Tick,
		Hue:  r.Hue,
		GRB:  [3]uint8(r.Color),
		Hex:  r.Hex(),
		T:    r.At.UnixNano(),
	}
}

// Sink receives sampled records. Publish must not block the animation loop for long.
type Sink interface {
	Publish(Record)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Record)

func (f SinkFunc) Publish(r Record) { f(r) }

// Fanout publishes to every sink in order.
type Fanout []Sink

func (f Fanout) Publish(r Record) {
	for _, s := range f {
		s.Publish(r)
	}
}
