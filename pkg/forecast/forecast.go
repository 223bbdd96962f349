// Package forecast fetches an hourly forecast and cuts it down to the window
// that starts at the current hour.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/geocode"
)

var (
	ErrCoordinatesOutOfRange = errors.New("coordinates out of range")
	ErrMissingAPIKey         = errors.New("forecast API key is not configured")
)

// UpstreamFailure wraps anything that went wrong talking to the provider.
type UpstreamFailure struct {
	Reason string
	Err    error
}

func (e *UpstreamFailure) Error() string {
	return e.Reason
}

func (e *UpstreamFailure) Unwrap() error {
	return e.Err
}

// Fetcher is the slice of the upstream client the forecaster needs.
type Fetcher interface {
	FetchInto(ctx context.Context, rawURL string, dst any) error
}

// Options configure the forecast request.
type Options struct {
	BaseURL         string
	APIKey          string
	RequireKey      bool
	TemperatureUnit string
	Timezone        string
	WindowHours     int
}

// DefaultOptions matches the public Open-Meteo endpoint in Fahrenheit.
func DefaultOptions() Options {
	return Options{
		BaseURL:         "https://api.open-meteo.com/v1/forecast",
		TemperatureUnit: "fahrenheit",
		Timezone:        "GMT",
		WindowHours:     MaxWindowHours,
	}
}

// Forecaster fetches hourly series and aligns them to the current hour.
type Forecaster struct {
	client  Fetcher
	options Options
	now     func() time.Time
}

// Option customizes a Forecaster.
type Option func(*Forecaster)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Forecaster) {
		f.now = now
	}
}

// New returns a Forecaster.
func New(client Fetcher, options Options, opts ...Option) *Forecaster {
	f := &Forecaster{
		client:  client,
		options: options,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Forecast returns at most WindowHours hourly records starting at the current
// hour for the given point.
func (f *Forecaster) Forecast(ctx context.Context, lat, lon float64) (Window, error) {
	coords := geocode.Coordinates{Latitude: lat, Longitude: lon}

	if err := coords.Validate(); err != nil {
		return Window{}, fmt.Errorf("%w: (%v, %v)", ErrCoordinatesOutOfRange, lat, lon)
	}

	if f.options.RequireKey && f.options.APIKey == "" {
		return Window{}, &UpstreamFailure{Reason: ErrMissingAPIKey.Error(), Err: ErrMissingAPIKey}
	}

	target, err := f.url(coords)
	if err != nil {
		return Window{}, &UpstreamFailure{Reason: err.Error(), Err: err}
	}

	var payload response

	if err := f.client.FetchInto(ctx, target, &payload); err != nil {
		return Window{}, &UpstreamFailure{Reason: err.Error(), Err: err}
	}

	series := payload.series()
	records := Align(series, f.now(), f.options.WindowHours)

	log.Debug("forecast aligned",
		"lat", lat, "lon", lon,
		"series", len(series.Times), "window", len(records),
	)

	return Window{
		Latitude:  lat,
		Longitude: lon,
		Unit:      series.Unit,
		Records:   records,
	}, nil
}

func (f *Forecaster) url(coords geocode.Coordinates) (string, error) {
	u, err := url.Parse(f.options.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid forecast base url: %w", err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("hourly", "temperature_2m,weather_code")

	if f.options.TemperatureUnit != "" {
		q.Set("temperature_unit", f.options.TemperatureUnit)
	}

	if f.options.Timezone != "" {
		q.Set("timezone", f.options.Timezone)
	}

	if f.options.APIKey != "" {
		q.Set("apikey", f.options.APIKey)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
