package srv

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/event"
	"github.com/dannybellieveit/skyhat/internal/srv/source"
)

type displayStub struct {
	ops      []string
	lastMain image.Image
	shows    int
}

func (d *displayStub) Start() {}
func (d *displayStub) Stop()  {}

func (d *displayStub) SetBrightness(mainDuty, sideDuty int64) {
	d.ops = append(d.ops, fmt.Sprintf("brightness %d/%d", mainDuty, sideDuty))
}

func (d *displayStub) Show(main, left, right image.Image) error {
	d.ops = append(d.ops, "show")
	d.lastMain = main
	d.shows++
	return nil
}

func newLoopTestApp(now time.Time, display *displayStub, weatherFetch WeatherFetchFunc) *ServerApp {
	if weatherFetch == nil {
		weatherFetch = func(ctx context.Context) (*source.WeatherSnapshot, error) {
			return nil, errors.New("unused")
		}
	}
	earthFetch := func(ctx context.Context) (*source.EarthPhotoSnapshot, error) {
		return nil, errors.New("unused")
	}
	return &ServerApp{
		fetchScheduler: NewFetchScheduler(weatherFetch, earthFetch,
			300*time.Second, 43200*time.Second, 60*time.Second),
		frameCache:    NewFrameCache("Test"),
		pageSelector:  NewPageSelector(3600*time.Second, now),
		powerState:    NewPowerState(90, 45, 20, 600*time.Second, now),
		displayDevice: display,
		currentMode:   RUN_MODE,
	}
}

func (d *displayStub) lastOps(n int) []string {
	if len(d.ops) < n {
		return d.ops
	}
	return d.ops[len(d.ops)-n:]
}

func TestHandleTickRefreshesCacheBeforeWriteOnLayoutSwap(t *testing.T) {
	now := time.Now()
	display := &displayStub{}
	app := newLoopTestApp(now, display, nil)
	app.fetchScheduler.weatherEntry.inFlight = true
	app.fetchScheduler.earthEntry.inFlight = true
	app.fetchScheduler.weatherSnapshot = &source.WeatherSnapshot{Ok: true}

	variantFrames := map[LayoutVariant]FrameSet{
		NORMAL_LAYOUT:  stubFrameSet(),
		SWAPPED_LAYOUT: stubFrameSet(),
	}
	renders := 0
	app.frameCache.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		renders++
		return variantFrames[variant]
	}

	app.snapshotDirty = true
	app.handleTick(now)
	if renders != 1 {
		t.Fatalf("expected one render on the initial tick, got %d", renders)
	}
	if display.lastMain != variantFrames[NORMAL_LAYOUT].Main {
		t.Fatalf("expected the normal layout frames on the initial tick")
	}

	// A plain tick writes the cached frames without re-rendering.
	app.handleTick(now.Add(5 * time.Second))
	if renders != 1 {
		t.Fatalf("expected no render on a plain tick, got %d", renders)
	}
	if display.lastMain != variantFrames[NORMAL_LAYOUT].Main {
		t.Fatalf("expected cached frames on a plain tick")
	}

	// The tick that flips the variant must refresh the cache before the
	// display write: the written frames already match the new variant.
	app.handleTick(now.Add(3600 * time.Second))
	if app.pageSelector.LayoutVariant() != SWAPPED_LAYOUT {
		t.Fatalf("expected the layout variant to flip")
	}
	if renders != 2 {
		t.Fatalf("expected one render on the flip tick, got %d total", renders)
	}
	if display.lastMain != variantFrames[SWAPPED_LAYOUT].Main {
		t.Fatalf("expected the swapped layout frames written on the flip tick")
	}
}

func TestHandleTickDimsAndWakeButtonRestores(t *testing.T) {
	now := time.Now()
	display := &displayStub{}
	app := newLoopTestApp(now, display, nil)
	app.fetchScheduler.weatherEntry.inFlight = true
	app.fetchScheduler.earthEntry.inFlight = true

	app.handleTick(now)
	if got := display.lastOps(2); got[0] != "brightness 90/45" || got[1] != "show" {
		t.Fatalf("expected a bright write, got %v", got)
	}

	app.handleTick(now.Add(601 * time.Second))
	if got := display.lastOps(2); got[0] != "brightness 18/9" || got[1] != "show" {
		t.Fatalf("expected dimmed duties written before the frames, got %v", got)
	}

	app.handleButton(event.ButtonEvent{ButtonId: event.WAKE_BUTTON, ButtonEventType: event.PRESS_EVENT_TYPE, PressStepCount: 1})
	if got := display.lastOps(2); got[0] != "brightness 90/45" || got[1] != "show" {
		t.Fatalf("expected the wake press to restore exact brightness, got %v", got)
	}
	if app.pageSelector.CurrentPage() != WEATHER_PAGE {
		t.Fatalf("expected the wake button to leave the page alone")
	}
}

func TestHandleButtonToggleWritesCachedFramesImmediately(t *testing.T) {
	now := time.Now()
	display := &displayStub{}
	app := newLoopTestApp(now, display, nil)
	app.fetchScheduler.weatherEntry.inFlight = true
	app.fetchScheduler.earthEntry.inFlight = true
	app.fetchScheduler.weatherSnapshot = &source.WeatherSnapshot{Ok: true}
	app.fetchScheduler.earthSnapshot = &source.EarthPhotoSnapshot{Ok: true}

	weatherFrames := stubFrameSet()
	earthFrames := stubFrameSet()
	renders := 0
	app.frameCache.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		renders++
		return weatherFrames
	}
	app.frameCache.renderEarth = func(s *source.EarthPhotoSnapshot, variant LayoutVariant) FrameSet {
		renders++
		return earthFrames
	}

	app.snapshotDirty = true
	app.handleTick(now)
	if renders != 2 || display.lastMain != weatherFrames.Main {
		t.Fatalf("expected both pages rendered and the weather page shown")
	}

	shows := display.shows
	app.handleButton(event.ButtonEvent{ButtonId: event.PAGE_TOGGLE_BUTTON, ButtonEventType: event.PRESS_EVENT_TYPE, PressStepCount: 1})
	if app.pageSelector.CurrentPage() != EARTH_PHOTO_PAGE {
		t.Fatalf("expected the toggle press to flip the page")
	}
	if display.shows != shows+1 {
		t.Fatalf("expected an immediate display write on toggle")
	}
	if display.lastMain != earthFrames.Main {
		t.Fatalf("expected the cached earth photo frames written")
	}
	if renders != 2 {
		t.Fatalf("expected no render call on toggle, got %d", renders)
	}

	// Releases carry no action.
	app.handleButton(event.ButtonEvent{ButtonId: event.PAGE_TOGGLE_BUTTON, ButtonEventType: event.RELEASE_EVENT_TYPE, PressStepCount: 1})
	if display.shows != shows+1 || app.pageSelector.CurrentPage() != EARTH_PHOTO_PAGE {
		t.Fatalf("expected the release event to be ignored")
	}
}

func TestHandleTickLaunchesFetchAndRendersCompletion(t *testing.T) {
	now := time.Now()
	display := &displayStub{}
	app := newLoopTestApp(now, display, func(ctx context.Context) (*source.WeatherSnapshot, error) {
		return &source.WeatherSnapshot{Temp: 5, Ok: true}, nil
	})
	app.fetchScheduler.earthEntry.inFlight = true

	var rendered *source.WeatherSnapshot
	frames := stubFrameSet()
	app.frameCache.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		rendered = s
		return frames
	}

	// The first tick launches the due fetch; its completion arrives as an
	// event and marks the cache dirty.
	app.handleTick(now)
	app.handleFetchCompletion(<-app.fetchScheduler.EventChannel())
	if !app.snapshotDirty {
		t.Fatalf("expected a new snapshot to mark the cache dirty")
	}

	app.handleTick(now.Add(5 * time.Second))
	if rendered == nil || rendered.Temp != 5 {
		t.Fatalf("expected the fetched snapshot rendered on the next tick, got %+v", rendered)
	}
	if display.lastMain != frames.Main {
		t.Fatalf("expected the freshly rendered frames written")
	}
	if app.snapshotDirty {
		t.Fatalf("expected the dirty flag cleared after the refresh")
	}
}
