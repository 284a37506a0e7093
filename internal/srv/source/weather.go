package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// WeatherSnapshot is an immutable view of the current conditions, replaced
// wholesale on each successful fetch.
type WeatherSnapshot struct {
	Temp     int
	Feels    int
	Humidity int
	Wind     int
	Wdir     int
	Code     int
	Uv       int
	High     int
	Low      int
	Sunrise  string
	Sunset   string

	Ok        bool
	FetchedAt time.Time
}

type WeatherSource struct {
	client    *http.Client
	baseUrl   string
	latitude  float64
	longitude float64
	timezone  string
}

func NewWeatherSource(baseUrl string, latitude, longitude float64, timezone string, timeout time.Duration) *WeatherSource {
	return &WeatherSource{
		client:    &http.Client{Timeout: timeout},
		baseUrl:   baseUrl,
		latitude:  latitude,
		longitude: longitude,
		timezone:  timezone,
	}
}

type openMeteoResponse struct {
	Current struct {
		Temperature2m       float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
		WindSpeed10m        float64 `json:"wind_speed_10m"`
		WindDirection10m    float64 `json:"wind_direction_10m"`
		WeatherCode         int     `json:"weather_code"`
		UvIndex             float64 `json:"uv_index"`
	} `json:"current"`
	Daily struct {
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		Temperature2mMin []float64 `json:"temperature_2m_min"`
		Sunrise          []string  `json:"sunrise"`
		Sunset           []string  `json:"sunset"`
	} `json:"daily"`
}

func (s *WeatherSource) Fetch(ctx context.Context) (*WeatherSnapshot, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", s.latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", s.longitude))
	query.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,wind_direction_10m,weather_code,uv_index")
	query.Set("daily", "temperature_2m_max,temperature_2m_min,sunrise,sunset")
	query.Set("timezone", s.timezone)
	query.Set("forecast_days", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseUrl+"?"+query.Encode(), nil)
	if err != nil {
		return nil, &FetchError{SourceId: WEATHER_SOURCE, Op: "request", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{SourceId: WEATHER_SOURCE, Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{SourceId: WEATHER_SOURCE, Op: "request", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	rawBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{SourceId: WEATHER_SOURCE, Op: "read", Err: err}
	}

	var body openMeteoResponse
	if err = json.Unmarshal(rawBody, &body); err != nil {
		return nil, &FetchError{SourceId: WEATHER_SOURCE, Op: "decode", Err: err}
	}

	if len(body.Daily.Temperature2mMax) == 0 ||
		len(body.Daily.Temperature2mMin) == 0 ||
		len(body.Daily.Sunrise) == 0 ||
		len(body.Daily.Sunset) == 0 {
		return nil, &FetchError{SourceId: WEATHER_SOURCE, Op: "decode", Err: fmt.Errorf("missing daily forecast")}
	}

	snapshot := &WeatherSnapshot{
		Temp:      roundToInt(body.Current.Temperature2m),
		Feels:     roundToInt(body.Current.ApparentTemperature),
		Humidity:  roundToInt(body.Current.RelativeHumidity2m),
		Wind:      roundToInt(body.Current.WindSpeed10m),
		Wdir:      roundToInt(body.Current.WindDirection10m),
		Code:      body.Current.WeatherCode,
		Uv:        roundToInt(body.Current.UvIndex),
		High:      roundToInt(body.Daily.Temperature2mMax[0]),
		Low:       roundToInt(body.Daily.Temperature2mMin[0]),
		Sunrise:   clockPart(body.Daily.Sunrise[0]),
		Sunset:    clockPart(body.Daily.Sunset[0]),
		Ok:        true,
		FetchedAt: time.Now(),
	}

	logrus.Debugf("Weather fetched: %d°C code %d", snapshot.Temp, snapshot.Code)

	return snapshot, nil
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

// clockPart extracts "HH:MM" from an ISO8601 local timestamp such as
// "2021-06-02T06:02".
func clockPart(isoTime string) string {
	if len(isoTime) < 16 {
		return isoTime
	}
	return isoTime[11:16]
}
