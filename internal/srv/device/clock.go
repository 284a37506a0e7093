package device

import (
	"sync"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// Clock emits the orchestration tick.
type Clock struct {
	lock         sync.RWMutex
	eventChannel chan event.TickerEvent

	tickPeriod time.Duration
	tickTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewClock(tickPeriod time.Duration) *Clock {
	ticker := Clock{
		eventChannel: make(chan event.TickerEvent),
		tickPeriod:   tickPeriod,
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
	return &ticker
}

func (d *Clock) Start() {
	logrus.Infof("Start ticker device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.tickTicker = time.NewTicker(d.tickPeriod)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.tickTicker.C:
				d.eventChannel <- event.TickerEvent{Data: event.TickerEventTickData{}}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Clock) StopSendingEvent() {
	logrus.Infof("Stop ticker device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.tickTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Clock) EventChannel() chan event.TickerEvent {
	return d.eventChannel
}
