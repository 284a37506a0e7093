package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Location   LocationParam   `yaml:"location"`
	Panels     PanelsParam     `yaml:"panels"`
	Buttons    ButtonsParam    `yaml:"buttons"`
	Weather    WeatherParam    `yaml:"weather"`
	EarthPhoto EarthPhotoParam `yaml:"earth_photo"`
	Loop       LoopParam       `yaml:"loop"`
	ApiParam   ApiParam        `yaml:"api"`
}

type LocationParam struct {
	City      string  `yaml:"city"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

type PanelsParam struct {
	Main  PanelPinParam `yaml:"main"`
	Left  PanelPinParam `yaml:"left"`
	Right PanelPinParam `yaml:"right"`

	MainDuty int64 `yaml:"main_duty"`
	SideDuty int64 `yaml:"side_duty"`

	DimPercent        int64 `yaml:"dim_percent"`
	DimTimeoutSeconds int64 `yaml:"dim_timeout_seconds"`
}

type PanelPinParam struct {
	SpiPort      string `yaml:"spi_port"`
	DcPin        string `yaml:"dc_pin"`
	ResetPin     string `yaml:"reset_pin"`
	BacklightPin string `yaml:"backlight_pin"`
}

type ButtonsParam struct {
	WakePin       string `yaml:"wake_pin"`
	PageTogglePin string `yaml:"page_toggle_pin"`
}

type WeatherParam struct {
	Url                    string `yaml:"url"`
	RefreshIntervalSeconds int64  `yaml:"refresh_interval_seconds"`
	FetchTimeoutSeconds    int64  `yaml:"fetch_timeout_seconds"`
}

type EarthPhotoParam struct {
	ListUrl    string `yaml:"list_url"`
	ArchiveUrl string `yaml:"archive_url"`

	MaxPhotos                  int   `yaml:"max_photos"`
	RefreshIntervalSeconds     int64 `yaml:"refresh_interval_seconds"`
	ListRefreshIntervalSeconds int64 `yaml:"list_refresh_interval_seconds"`
	RetryDelaySeconds          int64 `yaml:"retry_delay_seconds"`
	ListTimeoutSeconds         int64 `yaml:"list_timeout_seconds"`
	PhotoTimeoutSeconds        int64 `yaml:"photo_timeout_seconds"`
}

type LoopParam struct {
	TickPeriodSeconds         int64 `yaml:"tick_period_seconds"`
	LayoutSwapIntervalSeconds int64 `yaml:"layout_swap_interval_seconds"`
}

type ApiParam struct {
	Enabled          bool  `yaml:"enabled"`
	SslPort          int64 `yaml:"ssl_port"`
	CertValidityDays int64 `yaml:"cert_validity_days"`
}
