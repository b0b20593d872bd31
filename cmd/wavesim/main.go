package main

import (
	"flag"
	"log"
	"time"

	"github.com/milk9111/wavesim/prefabs"
	"github.com/milk9111/wavesim/sim"
)

func main() {
	config := flag.String("config", prefabs.SimSpecFile, "config file path or prefab name")
	ticks := flag.Int("ticks", 3000, "number of ticks to run headless")
	dt := flag.Float64("dt", 1.0/60, "seconds per tick")
	seed := flag.Uint64("seed", 0, "override the config seed (0 keeps it)")
	dps := flag.Float64("dps", 0, "damage per second dealt to every enemy")
	tui := flag.Bool("tui", false, "run the terminal dashboard instead of a headless run")
	watch := flag.Bool("watch", false, "reload the config when it changes on disk")
	flag.Parse()

	spec, err := sim.LoadSpec(*config)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		spec.Seed = *seed
	}
	s, err := sim.New(spec)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(250*time.Millisecond, sim.WatchDir(*config))
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	r := &runner{sim: s, config: *config, watcher: watcher, dt: *dt, dps: *dps}
	if *tui {
		if err := r.dashboard(); err != nil {
			log.Fatal(err)
		}
		return
	}
	r.headless(*ticks)
}

type runner struct {
	sim     *sim.Simulation
	config  string
	watcher *prefabs.Watcher
	dt      float64
	dps     float64

	notices []string
	spawned int
	died    int
}

// maxNotices is how many lifecycle lines the runner keeps.
const maxNotices = 5

// step applies pending reloads, damage and one tick, then drains events
// into the runner's notices and counters.
func (r *runner) step() sim.Digest {
	if r.watcher != nil && len(r.watcher.Pending()) > 0 {
		if err := r.sim.Reload(r.config); err != nil {
			log.Printf("reload %s: %v", r.config, err)
		}
	}
	if r.dps > 0 {
		r.sim.DamageAll(r.dps * r.dt)
	}
	r.sim.Tick(r.dt)

	d := r.sim.DrainEvents()
	r.spawned += d.Spawned
	r.died += d.Died
	r.notices = append(r.notices, d.Notices...)
	if len(r.notices) > maxNotices {
		r.notices = r.notices[len(r.notices)-maxNotices:]
	}
	return d
}

func (r *runner) headless(ticks int) {
	r.sim.Start()
	every := max(1, int(1/r.dt))
	for i := 1; i <= ticks; i++ {
		for _, n := range r.step().Notices {
			log.Printf("wavesim: %s", n)
		}
		if i%every == 0 {
			log.Printf("wavesim: %s", r.sim.Status())
		}
	}
	log.Printf("wavesim: done, %s, %d spawned, %d died", r.sim.Status(), r.spawned, r.died)
}
