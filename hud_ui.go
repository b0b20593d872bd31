package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/milk9111/wavesim/sim"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// HUD holds the widgets that change with the simulation status.
type HUD struct {
	wave    *widget.Text
	enemies *widget.Text
	fps     *widget.Text
	notice  *widget.Text
	start   *widget.Button

	clipboardOK bool
}

// NewHUD builds the top bar: wave and enemy counters, the control buttons
// and an FPS readout.
func NewHUD(g *Game) (*ebitenui.UI, *HUD) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnPressedImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	rowCenter := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	hud := &HUD{clipboardOK: clipboard.Init() == nil}
	if !hud.clipboardOK {
		log.Printf("HUD: clipboard unavailable")
	}

	label := func(s string) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text(s, &face, white),
			widget.TextOpts.WidgetOpts(rowCenter),
		)
	}
	button := func(s string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressedImg}),
			widget.ButtonOpts.Text(s, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(rowCenter),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	hud.wave = label("Wave 0")
	hud.enemies = label("Enemies: 0")
	hud.fps = label("FPS: 0")
	hud.notice = label("")
	hud.start = button("Start", func() {
		if !g.sim.Scheduler().Started() {
			g.sim.Start()
			return
		}
		g.sim.ToggleSpawning()
	})
	next := button("Next Wave", g.sim.ForceNextWave)
	destroy := button("Destroy Current", g.sim.DestroyCurrentEnemies)
	copyStats := button("Copy Stats", func() {
		if hud.clipboardOK {
			clipboard.Write(clipboard.FmtText, []byte(g.statsText()))
		}
	})

	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(16),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 20, Right: 20}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
	)
	bar.AddChild(hud.wave)
	bar.AddChild(hud.enemies)
	bar.AddChild(hud.start)
	bar.AddChild(next)
	bar.AddChild(destroy)
	bar.AddChild(copyStats)
	bar.AddChild(hud.fps)
	bar.AddChild(hud.notice)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(bar)

	return &ebitenui.UI{Container: root}, hud
}

// Notify reacts to the lifecycle events of the last tick: the wave label
// follows wave started/completed and the latest notice is shown.
func (h *HUD) Notify(d sim.Digest) {
	if h == nil {
		return
	}
	if d.Wave >= 0 {
		h.wave.Label = fmt.Sprintf("Wave %d", d.Wave)
	}
	for _, n := range d.Notices {
		log.Printf("HUD: %s", n)
		h.notice.Label = n
	}
}

// Refresh updates the per-frame labels from a status snapshot.
func (h *HUD) Refresh(st sim.Status) {
	if h == nil {
		return
	}
	h.enemies.Label = fmt.Sprintf("Enemies: %d", st.Alive)
	h.fps.Label = fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS())

	label := "Start"
	switch {
	case st.Started && st.Spawning:
		label = "Pause"
	case st.Started:
		label = "Resume"
	}
	if text := h.start.Text(); text != nil {
		text.Label = label
	}
}
