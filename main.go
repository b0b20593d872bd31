package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/wavesim/prefabs"
	"github.com/milk9111/wavesim/sim"
)

func main() {
	config := flag.String("config", prefabs.SimSpecFile, "config file path or prefab name")
	autostart := flag.Bool("start", false, "start wave 1 immediately")
	watch := flag.Bool("watch", true, "reload the config when it changes on disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	s, err := sim.Open(*config)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(250*time.Millisecond, sim.WatchDir(*config))
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("wavesim")

	game := NewGame(s, *config, watcher)
	if *autostart {
		s.Start()
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
