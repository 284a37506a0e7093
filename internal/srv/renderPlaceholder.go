package srv

import (
	"image/color"
)

// RenderPlaceholderFrames is the FrameSet shown while no valid data has ever
// been fetched for a page.
func RenderPlaceholderFrames() FrameSet {
	main := newFrame(mainPanelWidth, mainPanelHeight, backgroundColor)
	AddCenteredLabel(main, 118, "No data", color.RGBA{80, 80, 90, 255})
	AddCenteredLabel(main, 136, "waiting for fetch", color.RGBA{60, 60, 70, 255})

	left := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)
	AddCenteredLabel(left, 44, "--", color.RGBA{60, 60, 70, 255})

	right := newFrame(sidePanelWidth, sidePanelHeight, backgroundColor)
	AddCenteredLabel(right, 44, "--", color.RGBA{60, 60, 70, 255})

	return FrameSet{Main: main, Left: left, Right: right}
}
