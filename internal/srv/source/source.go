package source

import "strconv"

type SourceId int

const (
	WEATHER_SOURCE SourceId = iota
	EARTH_PHOTO_SOURCE
)

func (s SourceId) String() string {
	switch s {
	case WEATHER_SOURCE:
		return "weather"
	case EARTH_PHOTO_SOURCE:
		return "earth_photo"
	default:
		return "source_" + strconv.Itoa(int(s))
	}
}

// FetchError wraps a failed fetch attempt with the source and the step
// (request, decode, ...) that failed.
type FetchError struct {
	SourceId SourceId
	Op       string
	Err      error
}

func (e *FetchError) Error() string {
	return e.SourceId.String() + " " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
