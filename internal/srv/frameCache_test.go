package srv

import (
	"testing"

	"github.com/dannybellieveit/skyhat/internal/srv/source"
)

func stubFrameSet() FrameSet {
	return FrameSet{
		Main:  newFrame(mainPanelWidth, mainPanelHeight, backgroundColor),
		Left:  newFrame(sidePanelWidth, sidePanelHeight, backgroundColor),
		Right: newFrame(sidePanelWidth, sidePanelHeight, backgroundColor),
	}
}

func TestFrameCachePlaceholderWithoutSnapshot(t *testing.T) {
	fc := NewFrameCache("Streatham")
	weatherRenders := 0
	fc.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		weatherRenders++
		return stubFrameSet()
	}
	earthRenders := 0
	fc.renderEarth = func(s *source.EarthPhotoSnapshot, variant LayoutVariant) FrameSet {
		earthRenders++
		return stubFrameSet()
	}

	fc.Refresh(nil, nil, NORMAL_LAYOUT)
	fc.Refresh(&source.WeatherSnapshot{Ok: false}, &source.EarthPhotoSnapshot{Ok: false}, NORMAL_LAYOUT)

	if weatherRenders != 0 || earthRenders != 0 {
		t.Fatalf("expected no render calls for missing or failed snapshots, got %d/%d", weatherRenders, earthRenders)
	}

	for _, page := range []PageId{WEATHER_PAGE, EARTH_PHOTO_PAGE} {
		if !fc.Frames(page).complete() {
			t.Fatalf("expected a complete placeholder frame set for %s page", page)
		}
	}
}

func TestFrameCacheToggleIsCacheHit(t *testing.T) {
	fc := NewFrameCache("Streatham")
	weatherFrames := stubFrameSet()
	weatherRenders := 0
	fc.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		weatherRenders++
		return weatherFrames
	}
	earthFrames := stubFrameSet()
	earthRenders := 0
	fc.renderEarth = func(s *source.EarthPhotoSnapshot, variant LayoutVariant) FrameSet {
		earthRenders++
		return earthFrames
	}

	fc.Refresh(&source.WeatherSnapshot{Ok: true}, &source.EarthPhotoSnapshot{Ok: true}, NORMAL_LAYOUT)
	if weatherRenders != 1 || earthRenders != 1 {
		t.Fatalf("expected one render call per page, got %d/%d", weatherRenders, earthRenders)
	}

	// Page toggles read the cache; no render function runs.
	for i := 0; i < 5; i++ {
		if fc.Frames(WEATHER_PAGE).Main != weatherFrames.Main {
			t.Fatalf("expected cached weather frames")
		}
		if fc.Frames(EARTH_PHOTO_PAGE).Main != earthFrames.Main {
			t.Fatalf("expected cached earth photo frames")
		}
	}
	if weatherRenders != 1 || earthRenders != 1 {
		t.Fatalf("expected no render calls on cache reads, got %d/%d", weatherRenders, earthRenders)
	}
}

func TestFrameCacheRenderPanicYieldsPlaceholder(t *testing.T) {
	fc := NewFrameCache("Streatham")
	fc.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		panic("bad glyph")
	}
	earthFrames := stubFrameSet()
	fc.renderEarth = func(s *source.EarthPhotoSnapshot, variant LayoutVariant) FrameSet {
		return earthFrames
	}

	fc.Refresh(&source.WeatherSnapshot{Ok: true}, &source.EarthPhotoSnapshot{Ok: true}, NORMAL_LAYOUT)

	if !fc.Frames(WEATHER_PAGE).complete() {
		t.Fatalf("expected a complete placeholder frame set after render panic")
	}
	if fc.Frames(EARTH_PHOTO_PAGE).Main != earthFrames.Main {
		t.Fatalf("expected the other page to render normally after a panic")
	}
}

func TestFrameCacheIncompleteRenderYieldsPlaceholder(t *testing.T) {
	fc := NewFrameCache("Streatham")
	partial := stubFrameSet()
	partial.Right = nil
	fc.renderWeather = func(s *source.WeatherSnapshot, variant LayoutVariant) FrameSet {
		return partial
	}

	fc.Refresh(&source.WeatherSnapshot{Ok: true}, nil, NORMAL_LAYOUT)

	frames := fc.Frames(WEATHER_PAGE)
	if !frames.complete() {
		t.Fatalf("expected a complete frame set")
	}
	if frames.Main == partial.Main {
		t.Fatalf("expected the partial render to be replaced by the placeholder")
	}
}
