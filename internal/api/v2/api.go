// internal/api/v2/api.go
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Preetham2004H/plant-ml/internal/catalog"
	"github.com/Preetham2004H/plant-ml/internal/conf"
	"github.com/Preetham2004H/plant-ml/internal/datastore"
	"github.com/Preetham2004H/plant-ml/internal/detection"
	"github.com/Preetham2004H/plant-ml/internal/logging"
	"github.com/Preetham2004H/plant-ml/internal/security"
	"github.com/Preetham2004H/plant-ml/internal/weather"
)

// DetectionService is the pipeline surface the detect handler consumes.
type DetectionService interface {
	Detect(ctx context.Context, image []byte, plant, language string, userID *uint) (*detection.Result, error)
}

// GuidanceService covers the free-form Gemini helpers outside the
// detection pipeline.
type GuidanceService interface {
	CropRecommendation(ctx context.Context, temperature, humidity, rainfall float64, soilType string) string
	WeatherSummary(ctx context.Context, city string) string
}

// WeatherService resolves a city to a weather report.
type WeatherService interface {
	Fetch(ctx context.Context, city string) (*weather.Report, error)
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings
	Catalog  *catalog.Catalog
	Detector DetectionService
	Guidance GuidanceService
	Weather  WeatherService
	Sessions *security.SessionManager

	apiLogger *slog.Logger
}

// New creates the API controller and registers all routes under /api/v2.
func New(e *echo.Echo, settings *conf.Settings, ds datastore.Interface, cat *catalog.Catalog,
	detector DetectionService, guidance GuidanceService, weatherSvc WeatherService,
	sessions *security.SessionManager) *Controller {

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		Catalog:   cat,
		Detector:  detector,
		Guidance:  guidance,
		Weather:   weatherSvc,
		Sessions:  sessions,
		apiLogger: logging.ForService("api"),
	}

	c.Group = e.Group("/api/v2")
	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	// Public endpoints
	c.Group.POST("/auth/signup", c.Signup)
	c.Group.POST("/auth/login", c.Login)
	c.Group.POST("/auth/logout", c.Logout)
	c.Group.GET("/plants", c.GetPlants)
	c.Group.GET("/languages", c.GetLanguages)
	c.Group.POST("/detect", c.DetectDisease)
	c.Group.GET("/weather", c.GetWeather)
	c.Group.GET("/weather/summary", c.GetWeatherSummary)
	c.Group.POST("/crops/recommend", c.RecommendCrops)

	// Protected endpoints
	records := c.Group.Group("/records", c.requireAuth)
	records.POST("/reports", c.SaveReport)
	records.POST("/diagnoses", c.SaveDiagnosis)
	records.GET("", c.GetSavedRecords)

	c.Group.GET("/detections", c.GetDetectionHistory, c.requireAuth)
}

// statusResponse is the uniform envelope for message-only responses.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// fail writes the uniform failure envelope.
func (c *Controller) fail(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, statusResponse{Success: false, Message: message})
}

// serverError logs the underlying error and writes a generic failure. The
// internal detail stays out of the response body.
func (c *Controller) serverError(ctx echo.Context, operation string, err error) error {
	c.apiLogger.Error("Request failed",
		"operation", operation,
		"path", ctx.Request().URL.Path,
		"error", err)
	return c.fail(ctx, http.StatusInternalServerError, "Internal server error")
}

// currentUserID resolves the optional session on a request. Returns nil
// when no user is signed in.
func (c *Controller) currentUserID(ctx echo.Context) *uint {
	if c.Sessions == nil {
		return nil
	}
	userID, _, ok := c.Sessions.CurrentUser(ctx.Request())
	if !ok {
		return nil
	}
	return &userID
}

// requireAuth rejects requests without a valid session and stores the user
// id in the request context.
func (c *Controller) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		userID := c.currentUserID(ctx)
		if userID == nil {
			return c.fail(ctx, http.StatusUnauthorized, "Not authenticated")
		}
		ctx.Set("user_id", *userID)
		return next(ctx)
	}
}
