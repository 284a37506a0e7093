package srv

import "time"

type PageId int

const (
	WEATHER_PAGE PageId = iota
	EARTH_PHOTO_PAGE
)

func (p PageId) String() string {
	if p == EARTH_PHOTO_PAGE {
		return "earth_photo"
	}
	return "weather"
}

type LayoutVariant int

const (
	NORMAL_LAYOUT LayoutVariant = iota
	SWAPPED_LAYOUT
)

func (v LayoutVariant) String() string {
	if v == SWAPPED_LAYOUT {
		return "swapped"
	}
	return "normal"
}

// PageSelector tracks the visible page and the side-panel layout variant.
// The variant flips on a fixed interval so static side content does not sit
// on the same pixels all day.
type PageSelector struct {
	currentPage   PageId
	layoutVariant LayoutVariant
	lastSwapAt    time.Time
	swapInterval  time.Duration
}

func NewPageSelector(swapInterval time.Duration, now time.Time) *PageSelector {
	return &PageSelector{
		currentPage:   WEATHER_PAGE,
		layoutVariant: NORMAL_LAYOUT,
		lastSwapAt:    now,
		swapInterval:  swapInterval,
	}
}

func (p *PageSelector) CurrentPage() PageId {
	return p.currentPage
}

func (p *PageSelector) LayoutVariant() LayoutVariant {
	return p.layoutVariant
}

func (p *PageSelector) Toggle() PageId {
	if p.currentPage == WEATHER_PAGE {
		p.currentPage = EARTH_PHOTO_PAGE
	} else {
		p.currentPage = WEATHER_PAGE
	}
	return p.currentPage
}

// MaybeSwapLayout flips the variant when the swap interval has elapsed.
// The caller must refresh the frame cache before the next display write
// whenever this returns true.
func (p *PageSelector) MaybeSwapLayout(now time.Time) bool {
	if now.Sub(p.lastSwapAt) < p.swapInterval {
		return false
	}
	p.lastSwapAt = now
	if p.layoutVariant == NORMAL_LAYOUT {
		p.layoutVariant = SWAPPED_LAYOUT
	} else {
		p.layoutVariant = NORMAL_LAYOUT
	}
	return true
}
