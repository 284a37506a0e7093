package srv

import (
	"time"

	"github.com/dannybellieveit/skyhat/apimodel"
	"github.com/dannybellieveit/skyhat/internal/srv/event"
	"github.com/dannybellieveit/skyhat/internal/srv/source"
	"github.com/dannybellieveit/skyhat/internal/version"
	"github.com/sirupsen/logrus"
)

// eventLoop is the only goroutine that touches the scheduler, the frame
// cache, the page selector and the power state.
func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case buttonEvent := <-s.buttonsDevice.EventChannel():
			s.handleButton(buttonEvent)
		case fetchEvent := <-s.fetchScheduler.EventChannel():
			s.handleFetchCompletion(fetchEvent)
		case tickerEvent := <-s.clockDevice.EventChannel():
			switch tickerEvent.Data.(type) {
			case event.TickerEventTickData:
				s.handleTick(time.Now())
			}
		case apiEvent := <-s.apiDevice.EventChannel():
			s.handleApiEvent(apiEvent)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}

// handleTick drives the 5s heartbeat: launch due fetches, swap the layout
// when its hour is up, observe the idle dim transition, then repaint.
func (s *ServerApp) handleTick(now time.Time) {
	s.fetchScheduler.Tick(now)

	if s.pageSelector.MaybeSwapLayout(now) {
		logrus.Infof("Layout swapped to %s", s.pageSelector.LayoutVariant())
		s.snapshotDirty = true
	}

	if s.powerState.Observe(now) {
		logrus.Infof("Panels dimmed after inactivity")
	}

	if s.snapshotDirty {
		s.frameCache.Refresh(s.fetchScheduler.Weather(), s.fetchScheduler.EarthPhoto(), s.pageSelector.LayoutVariant())
		s.snapshotDirty = false
	}

	s.refreshDisplay()
}

func (s *ServerApp) handleButton(buttonEvent event.ButtonEvent) {
	if buttonEvent.ButtonEventType != event.PRESS_EVENT_TYPE {
		return
	}

	s.powerState.RecordActivity(time.Now())

	switch buttonEvent.ButtonId {
	case event.WAKE_BUTTON:
		logrus.Debugf("Wake button pressed")
	case event.PAGE_TOGGLE_BUTTON:
		logrus.Infof("Page toggled to %s", s.pageSelector.Toggle())
	}

	s.refreshDisplay()
}

func (s *ServerApp) handleFetchCompletion(fetchEvent event.FetchEvent) {
	if s.fetchScheduler.Complete(fetchEvent, time.Now()) {
		logrus.Infof("New %s snapshot", fetchEvent.SourceId)
		s.snapshotDirty = true
	}
}

func (s *ServerApp) handleApiEvent(apiEvent event.ApiEvent) {
	now := time.Now()

	switch data := apiEvent.Data.(type) {
	case event.ApiEventPageToggleData:
		s.powerState.RecordActivity(now)
		logrus.Infof("Page toggled to %s", s.pageSelector.Toggle())
		s.refreshDisplay()
		apiEvent.Result <- nil
	case event.ApiEventRefreshData:
		s.fetchScheduler.ForceRefresh(data.SourceId)
		apiEvent.Result <- nil
	case event.ApiEventActivityData:
		s.powerState.RecordActivity(now)
		s.refreshDisplay()
		apiEvent.Result <- nil
	case event.ApiEventStatusData:
		data.Reply <- s.status(now)
		apiEvent.Result <- nil
	default:
		apiEvent.Result <- nil
	}
}

func (s *ServerApp) status(now time.Time) apimodel.Status {
	weather := s.fetchScheduler.Weather()
	earth := s.fetchScheduler.EarthPhoto()

	return apimodel.Status{
		Version:              version.AppVersion.String(),
		Page:                 s.pageSelector.CurrentPage().String(),
		PowerMode:            s.powerState.Mode().String(),
		LayoutVariant:        s.pageSelector.LayoutVariant().String(),
		WeatherOk:            weather != nil && weather.Ok,
		WeatherAgeSeconds:    snapshotAge(s.fetchScheduler.LastSuccessAt(source.WEATHER_SOURCE), now),
		EarthPhotoOk:         earth != nil && earth.Ok,
		EarthPhotoAgeSeconds: snapshotAge(s.fetchScheduler.LastSuccessAt(source.EARTH_PHOTO_SOURCE), now),
	}
}

// snapshotAge reports -1 when the source has never succeeded.
func snapshotAge(lastSuccessAt time.Time, now time.Time) int64 {
	if lastSuccessAt.IsZero() {
		return -1
	}
	return int64(now.Sub(lastSuccessAt).Seconds())
}
