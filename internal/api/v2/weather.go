// internal/api/v2/weather.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/weather"
)

// GetWeather handles GET /api/v2/weather?city=. Without a city parameter
// the configured default city is used.
func (c *Controller) GetWeather(ctx echo.Context) error {
	city := strings.TrimSpace(ctx.QueryParam("city"))
	if city == "" {
		city = c.Settings.Weather.DefaultCity
	}
	if city == "" {
		return c.fail(ctx, http.StatusBadRequest, "City is required")
	}

	report, err := c.Weather.Fetch(ctx.Request().Context(), city)
	if err != nil {
		if errors.Is(err, weather.ErrCityNotFound) {
			return c.fail(ctx, http.StatusNotFound, fmt.Sprintf("City not found: %s", city))
		}
		return c.serverError(ctx, "weather", err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"weather": report,
	})
}

// GetWeatherSummary handles GET /api/v2/weather/summary?city= and returns
// an agricultural reading of the current conditions.
func (c *Controller) GetWeatherSummary(ctx echo.Context) error {
	city := strings.TrimSpace(ctx.QueryParam("city"))
	if city == "" {
		city = c.Settings.Weather.DefaultCity
	}
	if city == "" {
		return c.fail(ctx, http.StatusBadRequest, "City is required")
	}

	summary := c.Guidance.WeatherSummary(ctx.Request().Context(), city)
	return ctx.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"city":         city,
		"weather_info": summary,
	})
}
