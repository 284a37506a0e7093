package device

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/dannybellieveit/skyhat/internal/srv/config"
)

type Display struct {
	serverConfig   *config.ServerConfig
	simulationMode bool

	mainPanel  *Panel
	leftPanel  *Panel
	rightPanel *Panel

	lock      sync.RWMutex
	lastMain  image.Image
	lastLeft  image.Image
	lastRight image.Image

	simulationWindow *app.Window
}

func (d *Display) startSimulation() {
	d.simulationWindow = app.NewWindow(app.Size(unit.Px(832), unit.Px(480)), app.MinSize(unit.Px(416), unit.Px(240)))
	go func() {
		if err := d.gioloop(); err != nil {
			log.Fatal(err)
		}
	}()
	go app.Main()
}

func (d *Display) invalidateSimulationWindow() {
	d.simulationWindow.Invalidate()
}

func (d *Display) closeSimulationWindow() {
	d.simulationWindow.Close()
}

func (d *Display) gioloop() error {
	var ops op.Ops
	for {
		e := <-d.simulationWindow.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			img := widget.Image{Src: paint.NewImageOp(d.composeSimulationFrame()), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// composeSimulationFrame lays the three panel frames out on one canvas:
// main panel on the left, the two side panels stacked on the right.
func (d *Display) composeSimulationFrame() image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, 416, 240))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{color.RGBA{30, 30, 34, 255}}, image.Point{}, draw.Src)

	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.lastMain != nil {
		draw.Draw(canvas, image.Rect(0, 0, 240, 240), d.lastMain, d.lastMain.Bounds().Min, draw.Src)
	}
	if d.lastLeft != nil {
		draw.Draw(canvas, image.Rect(248, 35, 408, 115), d.lastLeft, d.lastLeft.Bounds().Min, draw.Src)
	}
	if d.lastRight != nil {
		draw.Draw(canvas, image.Rect(248, 145, 408, 225), d.lastRight, d.lastRight.Bounds().Min, draw.Src)
	}

	return canvas
}
