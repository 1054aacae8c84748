package weather

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preetham2004H/plant-ml/internal/conf"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	settings := &conf.Settings{}
	settings.Weather.ForecastDays = 7

	s := NewService(settings)
	httpmock.ActivateNonDefault(s.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return s
}

func geocodeSuccessResponse() string {
	return `{
		"results": [
			{"name": "Bangalore", "latitude": 12.97194, "longitude": 77.59369, "country": "India"}
		]
	}`
}

func forecastSuccessResponse() string {
	return `{
		"timezone": "Asia/Kolkata",
		"current": {
			"time": "2026-08-25T12:00",
			"temperature_2m": 27.4,
			"relative_humidity_2m": 64,
			"precipitation": 0.2,
			"weather_code": 3,
			"wind_speed_10m": 11.5
		},
		"daily": {
			"time": ["2026-08-25", "2026-08-26"],
			"temperature_2m_max": [29.1, 28.3],
			"temperature_2m_min": [19.8, 19.2],
			"precipitation_sum": [0.4, 2.1]
		}
	}`
}

func registerSuccessResponders(t *testing.T) {
	t.Helper()
	httpmock.RegisterResponder("GET", `=~^https://geocoding-api\.open-meteo\.com/v1/search`,
		httpmock.NewStringResponder(http.StatusOK, geocodeSuccessResponse()))
	httpmock.RegisterResponder("GET", `=~^https://api\.open-meteo\.com/v1/forecast`,
		httpmock.NewStringResponder(http.StatusOK, forecastSuccessResponse()))
}

func TestFetchSuccess(t *testing.T) {
	s := newTestService(t)
	registerSuccessResponders(t)

	report, err := s.Fetch(context.Background(), "Bangalore")

	require.NoError(t, err)
	assert.Equal(t, "Bangalore", report.City)
	assert.Equal(t, "India", report.Country)
	assert.InDelta(t, 12.97194, report.Latitude, 0.001)
	assert.InDelta(t, 77.59369, report.Longitude, 0.001)
	assert.Equal(t, "Asia/Kolkata", report.Timezone)

	assert.InDelta(t, 27.4, report.Current.Temperature, 0.01)
	assert.Equal(t, 64, report.Current.RelativeHumidity)
	assert.InDelta(t, 0.2, report.Current.Precipitation, 0.001)
	assert.Equal(t, 3, report.Current.WeatherCode)
	assert.InDelta(t, 11.5, report.Current.WindSpeed, 0.01)

	require.Len(t, report.Daily, 2)
	assert.Equal(t, "2026-08-25", report.Daily[0].Date)
	assert.InDelta(t, 29.1, report.Daily[0].TemperatureMax, 0.01)
	assert.InDelta(t, 19.2, report.Daily[1].TemperatureMin, 0.01)
	assert.InDelta(t, 2.1, report.Daily[1].PrecipitationSum, 0.01)
}

func TestFetchCityNotFound(t *testing.T) {
	s := newTestService(t)
	httpmock.RegisterResponder("GET", `=~^https://geocoding-api\.open-meteo\.com/v1/search`,
		httpmock.NewStringResponder(http.StatusOK, `{"generationtime_ms": 0.5}`))

	_, err := s.Fetch(context.Background(), "Atlantis")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCityNotFound)

	// The forecast API must not be called for an unresolved city
	info := httpmock.GetCallCountInfo()
	for key, count := range info {
		if count > 0 {
			assert.Contains(t, key, "geocoding-api")
		}
	}
}

func TestFetchGeocodeHTTPError(t *testing.T) {
	s := newTestService(t)
	httpmock.RegisterResponder("GET", `=~^https://geocoding-api\.open-meteo\.com/v1/search`,
		httpmock.NewStringResponder(http.StatusInternalServerError, "upstream error"))

	_, err := s.Fetch(context.Background(), "Bangalore")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCityNotFound)
}

func TestFetchForecastHTTPError(t *testing.T) {
	s := newTestService(t)
	httpmock.RegisterResponder("GET", `=~^https://geocoding-api\.open-meteo\.com/v1/search`,
		httpmock.NewStringResponder(http.StatusOK, geocodeSuccessResponse()))
	httpmock.RegisterResponder("GET", `=~^https://api\.open-meteo\.com/v1/forecast`,
		httpmock.NewStringResponder(http.StatusTooManyRequests, "rate limited"))

	_, err := s.Fetch(context.Background(), "Bangalore")

	require.Error(t, err)
}

func TestFetchMalformedJSON(t *testing.T) {
	s := newTestService(t)
	httpmock.RegisterResponder("GET", `=~^https://geocoding-api\.open-meteo\.com/v1/search`,
		httpmock.NewStringResponder(http.StatusOK, `{"results": [`))

	_, err := s.Fetch(context.Background(), "Bangalore")

	require.Error(t, err)
}

func TestFetchRequestsForecastDaysFromSettings(t *testing.T) {
	s := newTestService(t)
	httpmock.RegisterResponder("GET", `=~^https://geocoding-api\.open-meteo\.com/v1/search`,
		httpmock.NewStringResponder(http.StatusOK, geocodeSuccessResponse()))

	var forecastDays string
	httpmock.RegisterResponder("GET", `=~^https://api\.open-meteo\.com/v1/forecast`,
		func(req *http.Request) (*http.Response, error) {
			forecastDays = req.URL.Query().Get("forecast_days")
			return httpmock.NewStringResponse(http.StatusOK, forecastSuccessResponse()), nil
		})

	_, err := s.Fetch(context.Background(), "Bangalore")

	require.NoError(t, err)
	assert.Equal(t, "7", forecastDays)
}
