// internal/api/v2/plants.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Preetham2004H/plant-ml/internal/gemini"
)

// GetPlants handles GET /api/v2/plants and returns the plants the local
// model knows about.
func (c *Controller) GetPlants(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"plants":  c.Catalog.Plants(),
	})
}

// GetLanguages handles GET /api/v2/languages and returns the supported
// guidance languages with their ISO codes.
func (c *Controller) GetLanguages(ctx echo.Context) error {
	type language struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}

	names := gemini.Languages()
	languages := make([]language, 0, len(names))
	for _, name := range names {
		code, _ := gemini.LanguageCode(name)
		languages = append(languages, language{Name: name, Code: code})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"languages": languages,
		"default":   gemini.DefaultLanguage,
	})
}
