// Package weather fetches city weather via the Open-Meteo geocoding and
// forecast APIs. Open-Meteo needs no API key.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Preetham2004H/plant-ml/internal/conf"
	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/logging"
)

const (
	GeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
	ForecastBaseURL  = "https://api.open-meteo.com/v1/forecast"

	// RequestTimeout bounds each outbound call. The upstream behavior had
	// no timeout; adding one is an allowed strengthening.
	RequestTimeout = 30 * time.Second

	providerName = "open-meteo"
)

// ErrCityNotFound marks a geocoding lookup with no results.
var ErrCityNotFound = errors.Newf("city not found").Component("weather").Category(errors.CategoryNotFound).Build()

// geocodeResponse is the subset of the geocoding API response we read.
type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// forecastResponse is the subset of the forecast API response we read.
type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time             string  `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity int     `json:"relative_humidity_2m"`
		Precipitation    float64 `json:"precipitation"`
		WeatherCode      int     `json:"weather_code"`
		WindSpeed        float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// CurrentWeather is the current conditions block of a report.
type CurrentWeather struct {
	Time             string  `json:"time"`
	Temperature      float64 `json:"temperature"`
	RelativeHumidity int     `json:"relative_humidity"`
	Precipitation    float64 `json:"precipitation"`
	WeatherCode      int     `json:"weather_code"`
	WindSpeed        float64 `json:"wind_speed"`
}

// DailyForecast is one day of the forecast block.
type DailyForecast struct {
	Date             string  `json:"date"`
	TemperatureMax   float64 `json:"temperature_max"`
	TemperatureMin   float64 `json:"temperature_min"`
	PrecipitationSum float64 `json:"precipitation_sum"`
}

// Report is a resolved city's current weather and daily forecast.
type Report struct {
	City      string          `json:"city"`
	Country   string          `json:"country"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Timezone  string          `json:"timezone"`
	Current   CurrentWeather  `json:"current"`
	Daily     []DailyForecast `json:"daily"`
}

// Service resolves city names and fetches their forecasts.
type Service struct {
	settings *conf.Settings
	client   *http.Client
	log      *slog.Logger
}

// NewService creates a weather service.
func NewService(settings *conf.Settings) *Service {
	return &Service{
		settings: settings,
		client:   &http.Client{Timeout: RequestTimeout},
		log:      logging.ForService("weather"),
	}
}

// Fetch geocodes the city and returns its weather report. An unknown city
// yields ErrCityNotFound. Each call performs exactly one geocoding and one
// forecast request; nothing is retried.
func (s *Service) Fetch(ctx context.Context, city string) (*Report, error) {
	lat, lon, resolved, country, err := s.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	forecast, err := s.forecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	report := &Report{
		City:      resolved,
		Country:   country,
		Latitude:  lat,
		Longitude: lon,
		Timezone:  forecast.Timezone,
		Current: CurrentWeather{
			Time:             forecast.Current.Time,
			Temperature:      forecast.Current.Temperature,
			RelativeHumidity: forecast.Current.RelativeHumidity,
			Precipitation:    forecast.Current.Precipitation,
			WeatherCode:      forecast.Current.WeatherCode,
			WindSpeed:        forecast.Current.WindSpeed,
		},
	}

	for i, date := range forecast.Daily.Time {
		day := DailyForecast{Date: date}
		if i < len(forecast.Daily.TemperatureMax) {
			day.TemperatureMax = forecast.Daily.TemperatureMax[i]
		}
		if i < len(forecast.Daily.TemperatureMin) {
			day.TemperatureMin = forecast.Daily.TemperatureMin[i]
		}
		if i < len(forecast.Daily.PrecipitationSum) {
			day.PrecipitationSum = forecast.Daily.PrecipitationSum[i]
		}
		report.Daily = append(report.Daily, day)
	}

	return report, nil
}

func (s *Service) geocode(ctx context.Context, city string) (lat, lon float64, name, country string, err error) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	var decoded geocodeResponse
	if err := s.getJSON(ctx, GeocodingBaseURL+"?"+params.Encode(), "geocode", &decoded); err != nil {
		return 0, 0, "", "", err
	}

	if len(decoded.Results) == 0 {
		return 0, 0, "", "", ErrCityNotFound
	}

	result := decoded.Results[0]
	return result.Latitude, result.Longitude, result.Name, result.Country, nil
}

func (s *Service) forecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(s.settings.Weather.ForecastDays))

	var decoded forecastResponse
	if err := s.getJSON(ctx, ForecastBaseURL+"?"+params.Encode(), "forecast", &decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

// getJSON performs one GET request and decodes the JSON body into out.
func (s *Service) getJSON(ctx context.Context, requestURL, operation string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return errors.New(err).
			Component("weather").
			Category(errors.CategoryNetwork).
			Context("operation", operation).
			Context("provider", providerName).
			Build()
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.New(err).
			Component("weather").
			Category(errors.CategoryNetwork).
			Context("operation", operation).
			Context("provider", providerName).
			Build()
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.log.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		s.log.Warn("Received non-OK status code",
			"operation", operation, "status_code", resp.StatusCode, "response_body", string(body))
		return errors.New(fmt.Errorf("received non-OK response (%d)", resp.StatusCode)).
			Component("weather").
			Category(errors.CategoryNetwork).
			Context("operation", operation).
			Context("provider", providerName).
			Context("status_code", strconv.Itoa(resp.StatusCode)).
			Build()
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New(err).
			Component("weather").
			Category(errors.CategoryNetwork).
			Context("operation", operation+"_decode").
			Context("provider", providerName).
			Build()
	}
	return nil
}
