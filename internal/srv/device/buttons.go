package device

import (
	"sync"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/config"
	"github.com/dannybellieveit/skyhat/internal/srv/event"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type Button struct {
	buttonId       event.ButtonId
	pin            gpio.PinIO
	isPressed      bool
	pressStepCount int64
	lastChange     time.Time
}

func NewButton(buttonId event.ButtonId, name string) *Button {
	button := Button{buttonId: buttonId, pin: gpioreg.ByName(name)}

	if button.pin == nil {
		logrus.Fatalf("Failed to find %s button", name)
	}

	// Set it as input, with an internal pull up resistor:
	if err := button.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		logrus.Fatalf("Failed to setup %s button: %v", name, err)
	}
	return &button
}

func (b *Button) Refresh(buttonEventChannel chan event.ButtonEvent) {
	wasPressed := b.isPressed
	b.isPressed = bool(!b.pin.Read())

	now := time.Now()
	if !b.isPressed && wasPressed {
		b.lastChange = now
		buttonEventChannel <- event.ButtonEvent{ButtonId: b.buttonId, ButtonEventType: event.RELEASE_EVENT_TYPE, PressStepCount: b.pressStepCount}
		b.pressStepCount = 0
	} else if b.isPressed && b.lastChange.Add(160*time.Millisecond).Before(now) {
		b.lastChange = now
		b.pressStepCount++
		buttonEventChannel <- event.ButtonEvent{ButtonId: b.buttonId, ButtonEventType: event.PRESS_EVENT_TYPE, PressStepCount: b.pressStepCount}
	}
}

type Buttons struct {
	lock         sync.RWMutex
	eventChannel chan event.ButtonEvent

	serverConfig *config.ServerConfig

	buttons []*Button

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewButtons(serverConfig *config.ServerConfig) *Buttons {
	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize periph host: %v", err)
	}

	device := Buttons{
		// Buffered: a press fired between loop iterations must survive until
		// the loop drains it.
		eventChannel: make(chan event.ButtonEvent, 8),
		serverConfig: serverConfig,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}

	return &device
}

func (d *Buttons) Start() {
	logrus.Infof("Start buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.serverConfig.SimulationMode {
		d.buttons = append(d.buttons, NewButton(event.WAKE_BUTTON, d.serverConfig.Buttons.WakePin))
		d.buttons = append(d.buttons, NewButton(event.PAGE_TOGGLE_BUTTON, d.serverConfig.Buttons.PageTogglePin))
	}

	// Start periodic check
	d.checkTicker = time.NewTicker(5 * time.Millisecond)
	go func() {
		for loop := true; loop; {
			select {
			case <-d.checkTicker.C:
				for _, button := range d.buttons {
					button.Refresh(d.eventChannel)
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Buttons) StopSendingEvent() {
	logrus.Infof("Stop buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.checkTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Buttons) EventChannel() chan event.ButtonEvent {
	return d.eventChannel
}
