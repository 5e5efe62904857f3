package animation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-rainbow/internal/color"
	"github.com/coreman2200/funtimes-rainbow/internal/led"
	"github.com/coreman2200/funtimes-rainbow/internal/telemetry"
)

const (
	DefaultStep     = 2
	DefaultInterval = 20 * time.Millisecond

	// The rainbow always runs at full saturation and brightness.
	Saturation = color.MaxPercent
	Value      = color.MaxPercent
)

// Sleeper suspends the loop between ticks. It returns non-nil when ctx ends first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Driver owns the animation state and the LED for the life of the process.
// It is not safe for concurrent use; Run is the single thread of control.
type Driver struct {
	state    State
	led      led.Driver
	sink     telemetry.Sink
	step     int
	interval time.Duration
	sleep    Sleeper
	now      func() time.Time
	logger   zerolog.Logger

	frame color.DeviceColor
	ticks atomic.Uint64
}

// Opt configures a Driver.
type Opt func(*Driver)

func WithStep(degrees int) Opt {
	return func(d *Driver) { d.step = color.NormalizeHue(degrees) }
}

func WithInterval(i time.Duration) Opt {
	return func(d *Driver) { d.interval = i }
}

// WithSink sets where sampled records go.
func WithSink(s telemetry.Sink) Opt {
	return func(d *Driver) { d.sink = s }
}

func WithSleeper(s Sleeper) Opt {
	return func(d *Driver) { d.sleep = s }
}

func WithClock(now func() time.Time) Opt {
	return func(d *Driver) { d.now = now }
}

func WithLogger(l zerolog.Logger) Opt {
	return func(d *Driver) { d.logger = l }
}

// New returns a Driver starting at hue 0.
func New(drv led.Driver, opts ...Opt) *Driver {
	d := &Driver{
		led:      drv,
		step:     DefaultStep,
		interval: DefaultInterval,
		sleep:    Sleep,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Hue() int      { return d.state.Hue }
// Ticks is safe to call from other goroutines while Run is active.
func (d *Driver) Ticks() uint64 { return d.ticks.Load() }

// Tick runs one transition: convert, transmit, observe, advance.
// On a transmit failure the state is left untouched.
func (d *Driver) Tick() error {
	hue := d.state.Hue
	d.frame = color.Convert(hue, Saturation, Value)
	if err := d.led.Write(d.frame[:]); err != nil {
		return &HardwareTransmitFailure{Hue: hue, Color: d.frame, Err: err}
	}
	ticks := d.ticks.Add(1)

	if d.sink != nil && telemetry.Sampled(hue) {
		d.sink.Publish(telemetry.Record{Tick: ticks, Hue: hue, Color: d.frame, At: d.now()})
	}

	d.state.Advance(d.step)
	return nil
}

// Run ticks until ctx is cancelled or the LED fails. Cancellation returns nil.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info().
		Dur("interval", d.interval).
		Int("step", d.step).
		Msg("animation running")

	for ctx.Err() == nil {
		if err := d.Tick(); err != nil {
			d.logger.Error().Err(err).Uint64("ticks", d.Ticks()).Msg("LED write failed")
			return err
		}
		if err := d.sleep(ctx, d.interval); err != nil {
			break
		}
	}

	d.logger.Info().Uint64("ticks", d.Ticks()).Int("hue", d.state.Hue).Msg("animation stopped")
	return nil
}
