package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-rainbow/internal/animation"
	"github.com/coreman2200/funtimes-rainbow/internal/led"
	"github.com/coreman2200/funtimes-rainbow/internal/telemetry"
)

// revolution is the number of ticks before the hue returns to its start.
func revolution(step int) int {
	a, b := step, 360
	for b != 0 {
		a, b = b, a%b
	}
	return 360 / a
}

// sweep runs one revolution against a simulated LED. Sampled hues reach emit through the
// driver's sink; with all set the remaining ticks are emitted too.
func sweep(step int, all bool, now func() time.Time, emit func(telemetry.Record)) (int, error) {
	sim := led.NewSim()
	d := animation.New(sim,
		animation.WithStep(step),
		animation.WithSink(telemetry.SinkFunc(emit)),
		animation.WithClock(now),
		animation.WithLogger(zerolog.Nop()),
	)

	n := revolution(step)
	for i := 0; i < n; i++ {
		hue := d.Hue()
		if err := d.Tick(); err != nil {
			return i, err
		}
		if all && !telemetry.Sampled(hue) {
			f := sim.Frames()
			emit(telemetry.Record{Tick: d.Ticks(), Hue: hue, Color: f[len(f)-1], At: now()})
		}
	}
	return n, nil
}

func main() {
	var (
		step   int
		all    bool
		asJSON bool
	)
	flag.IntVar(&step, "step", animation.DefaultStep, "hue step in degrees per tick")
	flag.BoolVar(&all, "all", false, "print every tick, not only the sampled ones")
	flag.BoolVar(&asJSON, "json", false, "emit one JSON payload per line")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if step < 1 || step > 359 {
		log.Fatal().Int("step", step).Msg("step must be in [1, 359]")
	}

	enc := json.NewEncoder(os.Stdout)
	emit := func(r telemetry.Record) {
		if asJSON {
			_ = enc.Encode(r.Payload())
			return
		}
		fmt.Printf("%5d  Hue: %3d° | GRB: [%3d, %3d, %3d]  %s\n",
			r.Tick, r.Hue, r.Color.G(), r.Color.R(), r.Color.B(), r.Hex())
	}

	n, err := sweep(step, all, time.Now, emit)
	if err != nil {
		log.Fatal().Err(err).Int("tick", n).Msg("tick")
	}
	log.Info().Int("step", step).Int("ticks", n).Msg("revolution complete")
}
