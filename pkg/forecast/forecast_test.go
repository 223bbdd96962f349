package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/upstream"
)

func forecastPayload(series Series) string {
	var payload response

	payload.UTCOffsetSeconds = series.UTCOffsetSeconds
	payload.HourlyUnits.Temperature = series.Unit
	payload.Hourly.Time = series.Times
	payload.Hourly.Temperature = series.Temperatures
	payload.Hourly.WeatherCode = series.WeatherCodes

	raw, _ := json.Marshal(payload)
	return string(raw)
}

type forecastStub struct {
	server *httptest.Server
	query  url.Values
	calls  int
}

func newForecastStub(status int, body string) *forecastStub {
	stub := &forecastStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls++
		stub.query = r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	return stub
}

func forecasterFor(stub *forecastStub, now time.Time) *Forecaster {
	options := DefaultOptions()
	options.BaseURL = stub.server.URL + "/v1/forecast"

	return New(upstream.New(nil, ""), options, WithClock(func() time.Time { return now }))
}

func TestForecast(t *testing.T) {
	Convey("Given a forecaster against a stubbed 48-entry series", t, func() {
		series := hourlySeries(48)
		stub := newForecastStub(http.StatusOK, forecastPayload(series))
		defer stub.server.Close()

		forecaster := forecasterFor(stub, at(10, 20))

		Convey("When forecasting for valid coordinates", func() {
			window, err := forecaster.Forecast(context.Background(), 37.4224, -122.0842)

			Convey("It should return entries 10 through 33", func() {
				So(err, ShouldBeNil)
				So(window.Records, ShouldHaveLength, 24)
				So(window.Records[0].Time, ShouldEqual, series.Times[10])
				So(window.Records[23].Time, ShouldEqual, series.Times[33])
				So(*window.Records[23].Temperature, ShouldEqual, *series.Temperatures[33])
			})

			Convey("It should carry the unit and coordinates", func() {
				So(window.Unit, ShouldEqual, "°F")
				So(window.Latitude, ShouldEqual, 37.4224)
				So(window.Longitude, ShouldEqual, -122.0842)
			})

			Convey("It should request hourly temperature and weather codes in Fahrenheit", func() {
				So(stub.query.Get("latitude"), ShouldEqual, "37.4224")
				So(stub.query.Get("longitude"), ShouldEqual, "-122.0842")
				So(stub.query.Get("hourly"), ShouldEqual, "temperature_2m,weather_code")
				So(stub.query.Get("temperature_unit"), ShouldEqual, "fahrenheit")
				So(stub.query.Get("timezone"), ShouldEqual, "GMT")
			})
		})

		Convey("When forecasting twice within the same hour", func() {
			first, err1 := forecaster.Forecast(context.Background(), 1, 2)
			second, err2 := forecaster.Forecast(context.Background(), 1, 2)

			Convey("It should return identical windows", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the coordinates are out of range", func() {
			_, err := forecaster.Forecast(context.Background(), 91, 0)
			_, err2 := forecaster.Forecast(context.Background(), 0, -180.5)

			Convey("It should reject them before calling the provider", func() {
				So(errors.Is(err, ErrCoordinatesOutOfRange), ShouldBeTrue)
				So(errors.Is(err2, ErrCoordinatesOutOfRange), ShouldBeTrue)
				So(stub.calls, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a provider returning an empty series", t, func() {
		stub := newForecastStub(http.StatusOK, `{"hourly_units":{"temperature_2m":"°F"},"hourly":{"time":[],"temperature_2m":[],"weather_code":[]}}`)
		defer stub.server.Close()

		window, err := forecasterFor(stub, at(0, 0)).Forecast(context.Background(), 1, 2)

		Convey("It should return an empty window, not an error", func() {
			So(err, ShouldBeNil)
			So(window.Records, ShouldBeEmpty)
		})
	})

	Convey("Given a provider answering 502", t, func() {
		stub := newForecastStub(http.StatusBadGateway, `{"error":true}`)
		defer stub.server.Close()

		_, err := forecasterFor(stub, at(0, 0)).Forecast(context.Background(), 1, 2)

		Convey("It should return an UpstreamFailure with the status", func() {
			var failure *UpstreamFailure
			So(errors.As(err, &failure), ShouldBeTrue)
			So(failure.Error(), ShouldContainSubstring, "502")
		})
	})

	Convey("Given a provider answering with the wrong JSON shape", t, func() {
		stub := newForecastStub(http.StatusOK, `{"hourly":{"time":"not-a-list"}}`)
		defer stub.server.Close()

		_, err := forecasterFor(stub, at(0, 0)).Forecast(context.Background(), 1, 2)

		Convey("It should return an UpstreamFailure wrapping a ParseError", func() {
			var parseErr *upstream.ParseError
			So(errors.As(err, &parseErr), ShouldBeTrue)
		})
	})

	Convey("Given a forecaster that requires a key it does not have", t, func() {
		stub := newForecastStub(http.StatusOK, `{}`)
		defer stub.server.Close()

		options := DefaultOptions()
		options.BaseURL = stub.server.URL
		options.RequireKey = true

		_, err := New(upstream.New(nil, ""), options).Forecast(context.Background(), 1, 2)

		Convey("It should fail at first use", func() {
			So(errors.Is(err, ErrMissingAPIKey), ShouldBeTrue)
			So(stub.calls, ShouldEqual, 0)
		})
	})
}
