package srv

import (
	"image"

	"github.com/dannybellieveit/skyhat/internal/images"
	"github.com/dannybellieveit/skyhat/internal/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// refreshDisplay pushes the current frames and brightness to the panels.
// A display error is logged and skipped; the next tick repaints anyway.
func (s *ServerApp) refreshDisplay() {
	s.displayDevice.SetBrightness(s.powerState.Duties())

	var frameSet FrameSet
	switch s.currentMode {
	case STARTUP_MODE:
		frameSet = s.splashFrames()
	case RUN_MODE:
		frameSet = s.frameCache.Frames(s.pageSelector.CurrentPage())
	case END_MODE:
		frameSet = s.farewellFrames()
	default:
		return
	}

	if err := s.displayDevice.Show(frameSet.Main, frameSet.Left, frameSet.Right); err != nil {
		logrus.Warnf("Unable to refresh display: %v", err)
	}
}

func (s *ServerApp) splashFrames() FrameSet {
	main := newFrame(mainPanelWidth, mainPanelHeight, backgroundColor)
	draw.Draw(main, main.Bounds(), images.SplashImage, image.Point{}, draw.Over)

	left := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)
	AddCenteredLabel(left, 35, "skyhat", textColor)
	AddCenteredLabel(left, 52, version.AppVersion.String(), subtleColor)

	right := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)
	AddCenteredLabel(right, 44, "starting...", subtleColor)

	return FrameSet{Main: main, Left: left, Right: right}
}

func (s *ServerApp) farewellFrames() FrameSet {
	main := newFrame(mainPanelWidth, mainPanelHeight, backgroundColor)
	AddCenteredScaledLabel(main, 104, 2, "See you!", textColor)

	left := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)
	right := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)

	return FrameSet{Main: main, Left: left, Right: right}
}
