// internal/api/v2/detect.go
package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Preetham2004H/plant-ml/internal/datastore"
	"github.com/Preetham2004H/plant-ml/internal/detection"
	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/gemini"
)

// maxImageBytes caps the accepted upload size.
const maxImageBytes = 10 << 20 // 10 MB

// detectResponse is the body for a completed detection.
type detectResponse struct {
	Success     bool     `json:"success"`
	Method      string   `json:"method"` // model or gemini
	PlantName   string   `json:"plant_name"`
	DiseaseName string   `json:"disease_name,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	DiseaseInfo string   `json:"disease_info"`
}

// DetectDisease handles POST /api/v2/detect. It accepts a multipart form
// with an image file, a plant_name field and an optional language field.
func (c *Controller) DetectDisease(ctx echo.Context) error {
	userID := c.currentUserID(ctx)
	if userID == nil && !c.Settings.Security.AllowAnonymous {
		return c.fail(ctx, http.StatusUnauthorized, "Not authenticated")
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		return c.fail(ctx, http.StatusBadRequest, "No image uploaded")
	}
	if file.Size > maxImageBytes {
		return c.fail(ctx, http.StatusBadRequest, "Image too large")
	}

	plant := strings.TrimSpace(ctx.FormValue("plant_name"))
	if plant == "" {
		return c.fail(ctx, http.StatusBadRequest, "Please select a plant type first")
	}

	language := strings.TrimSpace(ctx.FormValue("language"))
	if language == "" {
		language = gemini.DefaultLanguage
	} else if !gemini.IsLanguageSupported(language) {
		return c.fail(ctx, http.StatusBadRequest, fmt.Sprintf("Unsupported language: %s", language))
	}

	src, err := file.Open()
	if err != nil {
		return c.serverError(ctx, "detect", err)
	}
	defer src.Close()
	image, err := io.ReadAll(io.LimitReader(src, maxImageBytes))
	if err != nil {
		return c.serverError(ctx, "detect", err)
	}

	result, err := c.Detector.Detect(ctx.Request().Context(), image, plant, language, userID)
	if err != nil {
		return c.detectError(ctx, plant, err)
	}

	return ctx.JSON(http.StatusOK, detectResponse{
		Success:     true,
		Method:      wireMethod(result.Method),
		PlantName:   result.PlantName,
		DiseaseName: result.DiseaseName,
		Confidence:  result.Confidence,
		DiseaseInfo: result.Info,
	})
}

// detectError maps pipeline errors onto HTTP responses. Rejections are the
// user's problem; everything else is ours.
func (c *Controller) detectError(ctx echo.Context, plant string, err error) error {
	var unknownPlant *detection.UnknownPlantError
	if errors.As(err, &unknownPlant) {
		return c.fail(ctx, http.StatusBadRequest,
			fmt.Sprintf("No disease data available for %s", unknownPlant.Plant))
	}
	if errors.Is(err, detection.ErrNotPlantImage) {
		return c.fail(ctx, http.StatusBadRequest,
			"The uploaded image does not appear to be a plant leaf. Please upload a clear photo of a plant leaf.")
	}
	var wrongPlant *detection.WrongPlantError
	if errors.As(err, &wrongPlant) {
		return c.fail(ctx, http.StatusBadRequest,
			fmt.Sprintf("The uploaded image does not appear to be a %s plant. Please upload the correct plant image.", wrongPlant.Plant))
	}
	return c.serverError(ctx, "detect", err)
}

// wireMethod translates the stored method value to its public name.
func wireMethod(method string) string {
	if method == datastore.MethodFallbackAI {
		return "gemini"
	}
	return method
}
