// internal/api/v2/crops.go
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// cropRequest is the body for POST /crops/recommend.
type cropRequest struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	SoilType    string  `json:"soil_type"`
}

// RecommendCrops handles POST /api/v2/crops/recommend and returns crop
// suggestions for the given growing conditions.
func (c *Controller) RecommendCrops(ctx echo.Context) error {
	var req cropRequest
	if err := ctx.Bind(&req); err != nil {
		return c.fail(ctx, http.StatusBadRequest, "Invalid request body")
	}

	req.SoilType = strings.TrimSpace(req.SoilType)
	if req.SoilType == "" {
		return c.fail(ctx, http.StatusBadRequest, "Soil type is required")
	}
	if req.Humidity < 0 || req.Humidity > 100 {
		return c.fail(ctx, http.StatusBadRequest, "Humidity must be between 0 and 100")
	}

	recommendations := c.Guidance.CropRecommendation(ctx.Request().Context(),
		req.Temperature, req.Humidity, req.Rainfall, req.SoilType)

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"recommendations": recommendations,
	})
}
