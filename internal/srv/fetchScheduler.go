package srv

import (
	"context"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/event"
	"github.com/dannybellieveit/skyhat/internal/srv/source"
	"github.com/sirupsen/logrus"
)

type WeatherFetchFunc func(ctx context.Context) (*source.WeatherSnapshot, error)
type EarthPhotoFetchFunc func(ctx context.Context) (*source.EarthPhotoSnapshot, error)

// ScheduleEntry carries the refresh bookkeeping for one data source.
// Invariant: inFlight is true from the moment a fetch task is launched until
// Complete observes its result.
type ScheduleEntry struct {
	sourceId        source.SourceId
	refreshInterval time.Duration
	// retryDelay shortens the wait after a failed attempt; zero means retry
	// on the normal interval.
	retryDelay time.Duration

	lastSuccessAt     time.Time
	lastAttemptAt     time.Time
	lastAttemptFailed bool
	inFlight          bool
}

func (e *ScheduleEntry) due(now time.Time) bool {
	if e.inFlight {
		return false
	}
	if e.lastAttemptAt.IsZero() {
		return true
	}
	wait := e.refreshInterval
	if e.lastAttemptFailed && e.retryDelay > 0 {
		wait = e.retryDelay
	}
	return now.Sub(e.lastAttemptAt) >= wait
}

// FetchScheduler owns the snapshots and decides on each tick whether a
// background fetch is due. Tick, Complete and the accessors must only be
// called from the event loop; fetch tasks communicate exclusively through
// the event channel.
type FetchScheduler struct {
	weatherFetch WeatherFetchFunc
	earthFetch   EarthPhotoFetchFunc

	weatherEntry ScheduleEntry
	earthEntry   ScheduleEntry

	weatherSnapshot *source.WeatherSnapshot
	earthSnapshot   *source.EarthPhotoSnapshot

	eventChannel chan event.FetchEvent
}

func NewFetchScheduler(weatherFetch WeatherFetchFunc, earthFetch EarthPhotoFetchFunc, weatherInterval, earthInterval, earthRetryDelay time.Duration) *FetchScheduler {
	return &FetchScheduler{
		weatherFetch: weatherFetch,
		earthFetch:   earthFetch,
		weatherEntry: ScheduleEntry{sourceId: source.WEATHER_SOURCE, refreshInterval: weatherInterval},
		earthEntry:   ScheduleEntry{sourceId: source.EARTH_PHOTO_SOURCE, refreshInterval: earthInterval, retryDelay: earthRetryDelay},
		// One slot per source, so a completing fetch never blocks even while
		// the loop is shutting down.
		eventChannel: make(chan event.FetchEvent, 2),
	}
}

func (fs *FetchScheduler) EventChannel() chan event.FetchEvent {
	return fs.eventChannel
}

// Tick launches a background fetch for every source that is due. At most one
// fetch per source is in flight at any time.
func (fs *FetchScheduler) Tick(now time.Time) {
	if fs.weatherEntry.due(now) {
		fs.launchWeatherFetch()
	}
	if fs.earthEntry.due(now) {
		fs.launchEarthPhotoFetch()
	}
}

// ForceRefresh launches an immediate fetch unless one is already in flight.
func (fs *FetchScheduler) ForceRefresh(sourceId source.SourceId) {
	switch sourceId {
	case source.WEATHER_SOURCE:
		if !fs.weatherEntry.inFlight {
			fs.launchWeatherFetch()
		}
	case source.EARTH_PHOTO_SOURCE:
		if !fs.earthEntry.inFlight {
			fs.launchEarthPhotoFetch()
		}
	}
}

func (fs *FetchScheduler) launchWeatherFetch() {
	logrus.Debugf("Launch weather fetch")
	fs.weatherEntry.inFlight = true
	go func() {
		snapshot, err := fs.weatherFetch(context.Background())
		fs.eventChannel <- event.FetchEvent{
			SourceId: source.WEATHER_SOURCE,
			Data:     event.FetchEventWeatherData{Snapshot: snapshot},
			Err:      err,
		}
	}()
}

func (fs *FetchScheduler) launchEarthPhotoFetch() {
	logrus.Debugf("Launch earth photo fetch")
	fs.earthEntry.inFlight = true
	go func() {
		snapshot, err := fs.earthFetch(context.Background())
		fs.eventChannel <- event.FetchEvent{
			SourceId: source.EARTH_PHOTO_SOURCE,
			Data:     event.FetchEventEarthPhotoData{Snapshot: snapshot},
			Err:      err,
		}
	}()
}

// Complete applies a fetch result. On failure the previous snapshot is kept
// and the source retries per its policy. The snapshot and timestamps are
// updated before inFlight is cleared, so a tick never observes a
// half-applied result. Reports whether a snapshot was replaced.
func (fs *FetchScheduler) Complete(e event.FetchEvent, now time.Time) bool {
	entry := fs.entry(e.SourceId)
	if entry == nil {
		logrus.Warnf("Fetch completion for unknown source %d", e.SourceId)
		return false
	}

	changed := false
	if e.Err != nil {
		logrus.Warnf("Fetch failed: %v", e.Err)
		entry.lastAttemptFailed = true
	} else {
		switch data := e.Data.(type) {
		case event.FetchEventWeatherData:
			fs.weatherSnapshot = data.Snapshot
		case event.FetchEventEarthPhotoData:
			fs.earthSnapshot = data.Snapshot
		}
		entry.lastSuccessAt = now
		entry.lastAttemptFailed = false
		changed = true
	}
	entry.lastAttemptAt = now
	entry.inFlight = false
	return changed
}

func (fs *FetchScheduler) entry(sourceId source.SourceId) *ScheduleEntry {
	switch sourceId {
	case source.WEATHER_SOURCE:
		return &fs.weatherEntry
	case source.EARTH_PHOTO_SOURCE:
		return &fs.earthEntry
	default:
		return nil
	}
}

func (fs *FetchScheduler) Weather() *source.WeatherSnapshot {
	return fs.weatherSnapshot
}

func (fs *FetchScheduler) EarthPhoto() *source.EarthPhotoSnapshot {
	return fs.earthSnapshot
}

func (fs *FetchScheduler) LastSuccessAt(sourceId source.SourceId) time.Time {
	if entry := fs.entry(sourceId); entry != nil {
		return entry.lastSuccessAt
	}
	return time.Time{}
}
