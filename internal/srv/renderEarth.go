package srv

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/dannybellieveit/skyhat/internal/srv/source"
	"golang.org/x/image/draw"
)

var (
	epicTitleColor = color.RGBA{100, 150, 255, 255}
	latLonColor    = color.RGBA{100, 200, 150, 255}
	photoTimeColor = color.RGBA{150, 150, 160, 255}
)

// RenderEarthFrames renders the Earth photo page for one layout variant.
// The snapshot must be valid (Ok).
func RenderEarthFrames(s *source.EarthPhotoSnapshot, variant LayoutVariant) FrameSet {
	info := renderPhotoInfoPanel(s)
	location := renderPhotoLocationPanel(s)

	frameSet := FrameSet{
		Main:  renderEarthMainPanel(s),
		Left:  info,
		Right: location,
	}
	if variant == SWAPPED_LAYOUT {
		frameSet.Left, frameSet.Right = location, info
	}
	return frameSet
}

func renderEarthMainPanel(s *source.EarthPhotoSnapshot) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, mainPanelWidth, mainPanelHeight))
	bounds := s.Image.Bounds()
	if bounds.Dx() == mainPanelWidth && bounds.Dy() == mainPanelHeight {
		draw.Draw(img, img.Bounds(), s.Image, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(img, img.Bounds(), s.Image, bounds, draw.Src, nil)
	}
	return img
}

func renderPhotoInfoPanel(s *source.EarthPhotoSnapshot) *image.RGBA {
	img := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)

	AddLabel(img, 8, 16, fmt.Sprintf("NASA EPIC %d/%d", s.Index, s.Total), epicTitleColor)

	datePart, timePart := splitPhotoDate(s.Date)
	AddLabel(img, 8, 42, datePart, textColor)
	AddLabel(img, 8, 62, timePart+" UTC", photoTimeColor)

	return img
}

func renderPhotoLocationPanel(s *source.EarthPhotoSnapshot) *image.RGBA {
	img := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)

	AddLabel(img, 8, 16, "CENTER", subtleColor)

	latDir := "N"
	if s.Lat < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if s.Lon < 0 {
		lonDir = "W"
	}
	AddLabel(img, 8, 40, fmt.Sprintf("LAT %.1f° %s", math.Abs(s.Lat), latDir), latLonColor)
	AddLabel(img, 8, 60, fmt.Sprintf("LON %.1f° %s", math.Abs(s.Lon), lonDir), latLonColor)

	return img
}

// splitPhotoDate splits an EPIC capture date like "2021-06-20 00:03:42" into
// its date and "HH:MM" parts.
func splitPhotoDate(date string) (string, string) {
	fields := strings.SplitN(date, " ", 2)
	if len(fields) != 2 {
		return date, ""
	}
	timePart := fields[1]
	if len(timePart) > 5 {
		timePart = timePart[:5]
	}
	return fields[0], timePart
}
