package device

import (
	"image"
	"sync"

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
}

func (d *Display) startSimulation() {
}

func (d *Display) invalidateSimulationWindow() {
}

func (d *Display) closeSimulationWindow() {
}
