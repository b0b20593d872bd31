package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ai"
)

const dashboardHelp = "s start/pause  n next wave  d destroy  k damage 25  q quit"

// dashboard runs the simulation in real time and draws the field as
// characters. It returns when the user quits.
func (r *runner) dashboard() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ticker := time.NewTicker(time.Duration(r.dt * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !r.handleKey(screen, ev) {
				return nil
			}
		case <-ticker.C:
			r.step()
			r.draw(screen)
		}
	}
}

func (r *runner) handleKey(screen tcell.Screen, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 's':
			if r.sim.Scheduler().Started() {
				r.sim.ToggleSpawning()
			} else {
				r.sim.Start()
			}
		case 'n':
			r.sim.ForceNextWave()
		case 'd':
			r.sim.DestroyCurrentEnemies()
		case 'k':
			r.sim.DamageAll(25)
		}
	case *tcell.EventResize:
		screen.Sync()
	}
	return true
}

func (r *runner) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	header := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	drawText(screen, 0, 0, header, fmt.Sprintf("%s spawned=%d died=%d", r.sim.Status(), r.spawned, r.died))
	drawText(screen, 0, 1, tcell.StyleDefault.Foreground(tcell.ColorGray), dashboardHelp)

	notice := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for i, n := range r.notices {
		drawText(screen, 0, 2+i, notice, n)
	}

	top := 3 + maxNotices
	if width < 2 || height-top < 2 {
		screen.Show()
		return
	}
	mesh := r.sim.Mesh()
	bounds := mesh.Bounds()
	cols, rows := width, height-top
	toCell := func(p cp.Vector) (int, int) {
		x := int((p.X - bounds.L) / (bounds.R - bounds.L) * float64(cols-1))
		y := int((bounds.T - p.Y) / (bounds.T - bounds.B) * float64(rows-1))
		return x, top + y
	}

	floor := tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := cp.Vector{
				X: bounds.L + (float64(col)+0.5)/float64(cols)*(bounds.R-bounds.L),
				Y: bounds.T - (float64(row)+0.5)/float64(rows)*(bounds.T-bounds.B),
			}
			if mesh.Contains(p) {
				screen.SetContent(col, top+row, '·', nil, floor)
			}
		}
	}

	roaming := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	idle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, en := range r.sim.Enemies() {
		x, y := toCell(en.Position())
		style, ch := roaming, 'o'
		if en.StateName() == ai.StateIdle {
			style, ch = idle, 'z'
		}
		screen.SetContent(x, y, ch, nil, style)
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

