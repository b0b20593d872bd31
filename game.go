package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ai"
	"github.com/milk9111/wavesim/enemy"
	"github.com/milk9111/wavesim/prefabs"
	"github.com/milk9111/wavesim/sim"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// Damage dealt to every enemy by the Space key.
	spaceDamage = 25
)

type Game struct {
	frames int

	sim     *sim.Simulation
	config  string
	watcher *prefabs.Watcher

	ui  *ebitenui.UI
	hud *HUD

	colors map[string]color.Color
}

func NewGame(s *sim.Simulation, config string, watcher *prefabs.Watcher) *Game {
	g := &Game{
		sim:     s,
		config:  config,
		watcher: watcher,
	}
	g.refreshColors()
	g.ui, g.hud = NewHUD(g)
	return g
}

func (g *Game) refreshColors() {
	g.colors = make(map[string]color.Color)
	for _, es := range g.sim.Spec().Enemies {
		if es.Color.Color != nil {
			g.colors[es.Name] = es.Color.Color
		}
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil && len(g.watcher.Pending()) > 0 {
		if err := g.sim.Reload(g.config); err != nil {
			log.Printf("reload %s: %v", g.config, err)
		} else {
			g.refreshColors()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.DamageAll(spaceDamage)
	}

	g.sim.Tick(1 / float64(ebiten.TPS()))

	g.hud.Notify(g.sim.DrainEvents())
	g.hud.Refresh(g.sim.Status())
	g.ui.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	v := newView(g.sim.Mesh().Bounds())
	for _, region := range g.sim.Mesh().Regions() {
		x0, y0 := v.project(cp.Vector{X: region.L, Y: region.T})
		x1, y1 := v.project(cp.Vector{X: region.R, Y: region.B})
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, colornames.Darkslategray, false)
	}
	for _, sp := range g.sim.Spec().SpawnPoints {
		x, y := v.project(cp.Vector{X: sp.X, Y: sp.Y})
		vector.StrokeRect(screen, x-6, y-6, 12, 12, 2, colornames.Lightgrey, false)
	}
	for _, en := range g.sim.Enemies() {
		g.drawEnemy(screen, v, en)
	}

	g.ui.Draw(screen)
}

func (g *Game) drawEnemy(screen *ebiten.Image, v view, en *enemy.Enemy) {
	x, y := v.project(en.Position())
	r := float32(v.scale * 0.5)

	body := g.colors[en.Prototype().Name()]
	if body == nil {
		body = colornames.Crimson
	}
	vector.FillCircle(screen, x, y, r, body, true)

	heading := cp.ForAngle(en.Agent().Heading()).Mult(0.8)
	hx, hy := v.project(en.Position().Add(heading))
	vector.StrokeLine(screen, x, y, hx, hy, 1, colornames.White, true)

	ring := colornames.Limegreen
	if en.StateName() == ai.StateIdle {
		ring = colornames.Gold
	}
	vector.StrokeCircle(screen, x, y, r+1, 1, ring, true)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// view maps simulation coordinates onto the screen with Y pointing up.
type view struct {
	bounds cp.BB
	scale  float64
	offX   float64
	offY   float64
}

func newView(bounds cp.BB) view {
	w, h := bounds.R-bounds.L, bounds.T-bounds.B
	scale := min((baseWidth-40)/w, (baseHeight-120)/h)
	return view{
		bounds: bounds,
		scale:  scale,
		offX:   (baseWidth - w*scale) / 2,
		offY:   80 + (baseHeight-80-h*scale)/2,
	}
}

func (v view) project(p cp.Vector) (float32, float32) {
	x := v.offX + (p.X-v.bounds.L)*v.scale
	y := v.offY + (v.bounds.T-p.Y)*v.scale
	return float32(x), float32(y)
}

func (g *Game) statsText() string {
	return fmt.Sprintf("%s fps=%.0f", g.sim.Status(), ebiten.ActualFPS())
}
