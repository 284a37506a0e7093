package device

import (
	"image"

	"github.com/dannybellieveit/skyhat/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/host/v3"
)

func NewDisplay(serverConfig *config.ServerConfig) *Display {
	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize periph host: %v", err)
	}

	device := Display{
		serverConfig:   serverConfig,
		simulationMode: serverConfig.SimulationMode,
	}

	return &device
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	if d.simulationMode {
		d.startSimulation()
		return
	}

	panels := d.serverConfig.Panels
	var err error
	if d.mainPanel, err = newPanel("main", mainPanelKind, panels.Main); err != nil {
		logrus.Fatalf("Unable to open main panel: %v", err)
	}
	if d.leftPanel, err = newPanel("left", sidePanelKind, panels.Left); err != nil {
		logrus.Fatalf("Unable to open left panel: %v", err)
	}
	if d.rightPanel, err = newPanel("right", sidePanelKind, panels.Right); err != nil {
		logrus.Fatalf("Unable to open right panel: %v", err)
	}

	for _, p := range d.panels() {
		if err = p.init(); err != nil {
			logrus.Fatalf("Unable to initialize panel: %v", err)
		}
		if err = p.Clear(); err != nil {
			logrus.Fatalf("Unable to clear panel: %v", err)
		}
	}
}

// Show writes one frame to each panel. A failing panel costs only that
// panel's write; the others are still attempted.
func (d *Display) Show(main, left, right image.Image) error {
	d.lock.Lock()
	d.lastMain, d.lastLeft, d.lastRight = main, left, right
	d.lock.Unlock()

	if d.simulationMode {
		d.invalidateSimulationWindow()
		return nil
	}

	var firstErr error
	targets := []struct {
		panel *Panel
		img   image.Image
	}{
		{d.mainPanel, main},
		{d.leftPanel, left},
		{d.rightPanel, right},
	}
	for _, t := range targets {
		if t.img == nil {
			continue
		}
		if err := t.panel.Show(t.img); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *Display) SetBrightness(mainDuty, sideDuty int64) {
	if d.simulationMode {
		logrus.Debugf("Simulated brightness: main %d%%, sides %d%%", mainDuty, sideDuty)
		return
	}
	d.mainPanel.SetBacklight(mainDuty)
	d.leftPanel.SetBacklight(sideDuty)
	d.rightPanel.SetBacklight(sideDuty)
}

func (d *Display) Clear() {
	if d.simulationMode {
		return
	}
	for _, p := range d.panels() {
		if err := p.Clear(); err != nil {
			logrus.Warnf("Unable to clear panel: %v", err)
		}
	}
}

// Stop clears and shuts down every panel. Runs on all exit paths.
func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	if d.simulationMode {
		d.closeSimulationWindow()
		return
	}

	for _, p := range d.panels() {
		if err := p.Clear(); err != nil {
			logrus.Warnf("Unable to clear panel: %v", err)
		}
		p.Halt()
		p.Close()
	}
}

func (d *Display) panels() []*Panel {
	return []*Panel{d.mainPanel, d.leftPanel, d.rightPanel}
}
