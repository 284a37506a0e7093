package srv

import (
	"image"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/source"
	"github.com/sirupsen/logrus"
)

type PanelId int

const (
	MAIN_PANEL PanelId = iota
	LEFT_PANEL
	RIGHT_PANEL
)

// FrameSet is the three rendered bitmaps for one page under one layout
// variant. It is always fully populated or replaced as a whole.
type FrameSet struct {
	Main  *image.RGBA
	Left  *image.RGBA
	Right *image.RGBA
}

func (fs FrameSet) complete() bool {
	return fs.Main != nil && fs.Left != nil && fs.Right != nil
}

// FrameCache holds the rendered FrameSets for both pages. Refresh recomputes
// them; Frames only returns cached bitmaps, so a page toggle costs nothing.
type FrameCache struct {
	renderWeather func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet
	renderEarth   func(s *source.EarthPhotoSnapshot, variant LayoutVariant) FrameSet

	weatherFrames FrameSet
	earthFrames   FrameSet
}

func NewFrameCache(city string) *FrameCache {
	fc := &FrameCache{
		renderWeather: func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
			return RenderWeatherFrames(s, city, variant, time.Now())
		},
		renderEarth: RenderEarthFrames,
	}
	fc.weatherFrames = RenderPlaceholderFrames()
	fc.earthFrames = RenderPlaceholderFrames()
	return fc
}

// Refresh recomputes both pages' FrameSets. Called when a snapshot or the
// layout variant changed, never on a plain tick. A missing or failed
// snapshot yields the placeholder FrameSet.
func (fc *FrameCache) Refresh(weather *source.WeatherSnapshot, earth *source.EarthPhotoSnapshot, variant LayoutVariant) {
	if weather == nil || !weather.Ok {
		fc.weatherFrames = RenderPlaceholderFrames()
	} else {
		fc.weatherFrames = renderSafely(WEATHER_PAGE, func() FrameSet {
			return fc.renderWeather(weather, variant)
		})
	}

	if earth == nil || !earth.Ok {
		fc.earthFrames = RenderPlaceholderFrames()
	} else {
		fc.earthFrames = renderSafely(EARTH_PHOTO_PAGE, func() FrameSet {
			return fc.renderEarth(earth, variant)
		})
	}
}

// renderSafely turns a render panic into the placeholder FrameSet; one bad
// field must never take the loop down.
func renderSafely(page PageId, render func() FrameSet) (fs FrameSet) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Warnf("Recovered from %s render panic: %v", page, rec)
			fs = RenderPlaceholderFrames()
		}
	}()
	fs = render()
	if !fs.complete() {
		fs = RenderPlaceholderFrames()
	}
	return fs
}

func (fc *FrameCache) Frames(page PageId) FrameSet {
	if page == EARTH_PHOTO_PAGE {
		return fc.earthFrames
	}
	return fc.weatherFrames
}
