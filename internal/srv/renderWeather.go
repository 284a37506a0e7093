package srv

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/source"
)

const (
	mainPanelWidth  = 240
	mainPanelHeight = 240
	sidePanelWidth  = 160
	sidePanelHeight = 80
)

var (
	backgroundColor = color.RGBA{10, 10, 14, 255}
	separatorColor  = color.RGBA{25, 25, 35, 255}
	headerColor     = color.RGBA{80, 95, 95, 255}
	faintColor      = color.RGBA{55, 55, 70, 255}
	captionColor    = color.RGBA{50, 50, 65, 255}
	subtleColor     = color.RGBA{80, 80, 95, 255}
	textColor       = color.RGBA{200, 200, 210, 255}
	clockColor      = color.RGBA{224, 224, 224, 255}

	lowTempColor  = color.RGBA{120, 180, 255, 255}
	highTempColor = color.RGBA{255, 160, 80, 255}
	humidityColor = color.RGBA{60, 180, 180, 255}
	windColor     = color.RGBA{160, 110, 220, 255}
	sunriseColor  = color.RGBA{255, 190, 60, 255}
	sunsetColor   = color.RGBA{255, 120, 50, 255}
	horizonColor  = color.RGBA{60, 60, 75, 255}

	onlineColor  = color.RGBA{80, 220, 120, 255}
	offlineColor = color.RGBA{180, 60, 60, 255}
)

// WMO weather interpretation codes.
var wmoConditionLabels = map[int]string{
	0: "Clear", 1: "Mostly Clear", 2: "Partly Cloudy", 3: "Overcast",
	45: "Foggy", 48: "Icy Fog",
	51: "Light Drizzle", 53: "Drizzle", 55: "Heavy Drizzle",
	61: "Light Rain", 63: "Rain", 65: "Heavy Rain",
	71: "Light Snow", 73: "Snow", 75: "Heavy Snow", 77: "Snow Grains",
	80: "Showers", 81: "Rain Showers", 82: "Heavy Showers",
	85: "Snow Showers", 86: "Heavy Snow Showers",
	95: "Thunderstorm", 96: "Storm+Hail", 99: "Severe Storm",
}

func ConditionLabel(code int) string {
	if label, ok := wmoConditionLabels[code]; ok {
		return label
	}
	return "Unknown"
}

var windDirectionLabels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func WindDirectionLabel(deg int) string {
	deg = ((deg % 360) + 360) % 360
	return windDirectionLabels[int(math.Round(float64(deg)/45))%8]
}

func TempColor(t int) color.RGBA {
	switch {
	case t < 5:
		return color.RGBA{100, 180, 255, 255}
	case t < 12:
		return color.RGBA{60, 200, 200, 255}
	case t < 18:
		return color.RGBA{80, 220, 140, 255}
	case t < 24:
		return color.RGBA{200, 200, 100, 255}
	case t < 28:
		return color.RGBA{255, 160, 60, 255}
	default:
		return color.RGBA{255, 80, 60, 255}
	}
}

func UvColor(uv int) color.RGBA {
	switch {
	case uv <= 2:
		return color.RGBA{100, 200, 100, 255}
	case uv <= 5:
		return color.RGBA{240, 200, 60, 255}
	case uv <= 7:
		return color.RGBA{255, 160, 60, 255}
	case uv <= 10:
		return color.RGBA{255, 100, 60, 255}
	default:
		return color.RGBA{200, 60, 100, 255}
	}
}

// RenderWeatherFrames renders the weather page for one layout variant.
// The snapshot must be valid (Ok).
func RenderWeatherFrames(s *source.WeatherSnapshot, city string, variant LayoutVariant, now time.Time) FrameSet {
	humidityWind := renderHumidityWindPanel(s)
	sunTimes := renderSunTimesPanel(s)

	frameSet := FrameSet{
		Main:  renderWeatherMainPanel(s, city, now),
		Left:  humidityWind,
		Right: sunTimes,
	}
	if variant == SWAPPED_LAYOUT {
		frameSet.Left, frameSet.Right = sunTimes, humidityWind
	}
	return frameSet
}

func renderWeatherMainPanel(s *source.WeatherSnapshot, city string, now time.Time) *image.RGBA {
	img := newFrame(mainPanelWidth, mainPanelHeight, backgroundColor)

	// City & date
	AddLabel(img, 12, 30, strings.ToUpper(city), headerColor)
	AddLabel(img, 12, 46, now.Format("Mon 02 Jan"), faintColor)

	// Daily low & high
	AddLabelCenteredAt(img, 169, 34, fmt.Sprintf("%d°", s.Low), lowTempColor)
	AddLabelCenteredAt(img, 199, 34, fmt.Sprintf("%d°", s.High), highTempColor)

	// Connectivity dot, green while the snapshot is reasonably fresh
	dotColor := offlineColor
	if now.Sub(s.FetchedAt) < 15*time.Minute {
		dotColor = onlineColor
	}
	FillCircle(img, 222, 16, 4, dotColor)

	// Current temperature, large
	AddCenteredScaledLabel(img, 68, 5, fmt.Sprintf("%d°", s.Temp), TempColor(s.Temp))

	AddCenteredLabel(img, 152, fmt.Sprintf("Feels %d°", s.Feels), color.RGBA{70, 70, 85, 255})
	AddCenteredLabel(img, 172, ConditionLabel(s.Code), textColor)

	// UV index & clock
	AddLabel(img, 12, 230, fmt.Sprintf("UV %d", s.Uv), UvColor(s.Uv))
	AddCenteredLabel(img, 230, now.Format("15:04"), clockColor)

	return img
}

func renderHumidityWindPanel(s *source.WeatherSnapshot) *image.RGBA {
	img := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)

	AddLabel(img, 8, 16, "HUM", captionColor)
	AddScaledLabel(img, 12, 24, 2, fmt.Sprintf("%d%%", s.Humidity), humidityColor)

	FillRect(img, image.Rect(80, 10, 81, 70), separatorColor)

	AddLabel(img, 88, 16, "WIND", captionColor)
	AddScaledLabel(img, 96, 24, 2, fmt.Sprintf("%d", s.Wind), windColor)
	AddLabelCenteredAt(img, 120, 68, WindDirectionLabel(s.Wdir)+" km/h", subtleColor)

	return img
}

func renderSunTimesPanel(s *source.WeatherSnapshot) *image.RGBA {
	img := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)

	drawSunIcon(img, 40, 28, 14, sunriseColor)
	AddLabelCenteredAt(img, 40, 62, s.Sunrise, color.RGBA{255, 190, 80, 255})

	FillRect(img, image.Rect(80, 10, 81, 70), separatorColor)

	drawSunIcon(img, 120, 32, 14, sunsetColor)
	AddLabelCenteredAt(img, 120, 62, s.Sunset, color.RGBA{255, 110, 60, 255})

	return img
}

// drawSunIcon draws a half sun sitting on a horizon line.
func drawSunIcon(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	FillCircle(img, cx, cy, r, col)
	FillRect(img, image.Rect(cx-r-1, cy+1, cx+r+2, cy+r+2), backgroundColor)
	FillRect(img, image.Rect(cx-r-6, cy, cx+r+6, cy+1), horizonColor)
}
