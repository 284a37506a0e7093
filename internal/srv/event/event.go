package event

import (
	"github.com/dannybellieveit/skyhat/apimodel"
	"github.com/dannybellieveit/skyhat/internal/srv/source"
)

// Ticker
type TickerEvent struct {
	Data interface{}
}

type TickerEventTickData struct{}

// Fetch completion, sent by a background fetch task when its result is ready.
// Exactly one of the snapshot fields is set on success.
type FetchEvent struct {
	SourceId source.SourceId
	Data     interface{}
	Err      error
}

type FetchEventWeatherData struct {
	Snapshot *source.WeatherSnapshot
}

type FetchEventEarthPhotoData struct {
	Snapshot *source.EarthPhotoSnapshot
}

// Buttons
type ButtonId int

const (
	WAKE_BUTTON ButtonId = iota
	PAGE_TOGGLE_BUTTON
)

type ButtonEventType int

const (
	PRESS_EVENT_TYPE ButtonEventType = iota
	RELEASE_EVENT_TYPE
)

type ButtonEvent struct {
	ButtonId        ButtonId
	ButtonEventType ButtonEventType
	PressStepCount  int64
}

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

type ApiEventPageToggleData struct{}

type ApiEventRefreshData struct {
	SourceId source.SourceId
}

type ApiEventActivityData struct{}

type ApiEventStatusData struct {
	Reply chan apimodel.Status
}
