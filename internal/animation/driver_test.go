package animation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/coreman2200/funtimes-rainbow/internal/color"
	"github.com/coreman2200/funtimes-rainbow/internal/led"
	"github.com/coreman2200/funtimes-rainbow/internal/telemetry"
)

// trace logs every side effect so ordering within a tick can be checked.
type trace struct {
	events []string
}

func (tr *trace) Write(grb []byte) error {
	tr.events = append(tr.events, fmt.Sprintf("write %v", grb))
	return nil
}

func (tr *trace) Close() error { return nil }

func (tr *trace) Publish(r telemetry.Record) {
	tr.events = append(tr.events, fmt.Sprintf("publish %d", r.Hue))
}

func (tr *trace) sleep(ctx context.Context, d time.Duration) error {
	tr.events = append(tr.events, "sleep "+d.String())
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestStateAdvanceWraps(t *testing.T) {
	s := State{Hue: 358}
	s.Advance(2)
	assert.Equal(t, 0, s.Hue)
	s.Advance(-1)
	assert.Equal(t, 359, s.Hue)
	s.Advance(725)
	assert.Equal(t, 4, s.Hue)
}

func TestFullCycleClosesAfter180Ticks(t *testing.T) {
	sim := &led.Sim{}
	d := New(sim)
	for i := 0; i < 180; i++ {
		require.NoError(t, d.Tick())
		if i < 179 {
			assert.NotZero(t, d.Hue(), "tick %d", i)
		}
	}
	assert.Equal(t, 0, d.Hue())
	assert.EqualValues(t, 180, d.Ticks())

	frames := sim.Frames()
	require.Len(t, frames, 180)
	for i, f := range frames {
		assert.Equal(t, [3]byte(color.Convert(i*2, 100, 100)), f, "frame %d", i)
	}
}

func TestSamplingEmits36RecordsPerSweep(t *testing.T) {
	var hues []int
	sink := telemetry.SinkFunc(func(r telemetry.Record) { hues = append(hues, r.Hue) })
	d := New(&led.Sim{Keep: 1}, WithStep(1), WithSink(sink))
	for i := 0; i < 360; i++ {
		require.NoError(t, d.Tick())
	}
	require.Len(t, hues, 36)
	for i, h := range hues {
		assert.Equal(t, i*10, h)
	}
}

func TestTickOrdering(t *testing.T) {
	tr := &trace{}
	d := New(tr, WithSink(tr), WithSleeper(tr.sleep), WithStep(5), WithInterval(7*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	d.sleep = func(ctx context.Context, dur time.Duration) error {
		_ = tr.sleep(ctx, dur)
		if calls++; calls == 3 {
			cancel()
		}
		return nil
	}
	require.NoError(t, d.Run(ctx))

	write := func(h int) string { return fmt.Sprintf("write %v", color.Convert(h, 100, 100).Bytes()) }
	assert.Equal(t, []string{
		write(0),
		"publish 0",
		"sleep 7ms",
		write(5),
		"sleep 7ms",
		write(10),
		"publish 10",
		"sleep 7ms",
	}, tr.events)
	assert.Equal(t, 15, d.Hue())
}

func TestTransmitFailureIsFatal(t *testing.T) {
	boom := errors.New("rmt: channel not enabled")
	sim := &led.Sim{Err: boom, FailAfter: 3}
	var published int
	d := New(sim, WithSink(telemetry.SinkFunc(func(telemetry.Record) { published++ })), WithSleeper(noSleep))

	err := d.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHardwareTransmit)
	assert.ErrorIs(t, err, boom)

	var htf *HardwareTransmitFailure
	require.ErrorAs(t, err, &htf)
	assert.Equal(t, 6, htf.Hue)
	assert.Equal(t, color.Convert(6, 100, 100), htf.Color)
	assert.Contains(t, err.Error(), "hue 6")

	// the failed tick neither advanced nor published
	assert.Equal(t, 6, d.Hue())
	assert.EqualValues(t, 3, d.Ticks())
	assert.Equal(t, 1, published)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	sim := led.NewSim()
	d := New(sim, WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return d.Ticks() >= 5 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithCancelledContextDoesNothing(t *testing.T) {
	sim := led.NewSim()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, New(sim).Run(ctx))
	assert.Zero(t, sim.Writes())
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), time.Microsecond))
}
