package forecast

// Series is the hourly data as the provider returned it: ascending, gapless,
// index-aligned arrays. It is consumed as given.
type Series struct {
	Unit             string
	Times            []string
	Temperatures     []*float64
	WeatherCodes     []*int
	UTCOffsetSeconds int
}

// Record is one selected hour. Values the provider left null stay null.
type Record struct {
	Time        string   `json:"time"`
	Temperature *float64 `json:"temperature"`
	WeatherCode *int     `json:"weather_code"`
	Condition   string   `json:"condition,omitempty"`
}

// Window is the forward-looking slice returned to the caller.
type Window struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Unit      string   `json:"unit"`
	Records   []Record `json:"hourly"`
}

// record pairs the timestamp at i with the values at the same offset.
func (s Series) record(i int) Record {
	rec := Record{Time: s.Times[i]}

	if i < len(s.Temperatures) {
		rec.Temperature = s.Temperatures[i]
	}

	if i < len(s.WeatherCodes) && s.WeatherCodes[i] != nil {
		rec.WeatherCode = s.WeatherCodes[i]
		rec.Condition = Describe(*s.WeatherCodes[i])
	}

	return rec
}

// response is the subset of the Open-Meteo forecast payload we read.
type response struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	HourlyUnits      struct {
		Temperature string `json:"temperature_2m"`
	} `json:"hourly_units"`
	Hourly struct {
		Time        []string   `json:"time"`
		Temperature []*float64 `json:"temperature_2m"`
		WeatherCode []*int     `json:"weather_code"`
	} `json:"hourly"`
}

func (r response) series() Series {
	return Series{
		Unit:             r.HourlyUnits.Temperature,
		Times:            r.Hourly.Time,
		Temperatures:     r.Hourly.Temperature,
		WeatherCodes:     r.Hourly.WeatherCode,
		UTCOffsetSeconds: r.UTCOffsetSeconds,
	}
}
