package apimodel

type Status struct {
	Version       string `json:"version"`
	Page          string `json:"page"`
	PowerMode     string `json:"power_mode"`
	LayoutVariant string `json:"layout_variant"`

	WeatherOk         bool  `json:"weather_ok"`
	WeatherAgeSeconds int64 `json:"weather_age_seconds"`

	EarthPhotoOk         bool  `json:"earth_photo_ok"`
	EarthPhotoAgeSeconds int64 `json:"earth_photo_age_seconds"`
}
