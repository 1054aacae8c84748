package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Preetham2004H/plant-ml/internal/logging"
)

const diseaseInfoPromptTemplate = `You are an agricultural expert. Provide detailed information about the %s plant disease: %s

Please provide the response in %s language and include:

1. **Disease Overview** (2-3 sentences about what this disease is)

2. **Symptoms** (List 4-5 specific symptoms to look for)

3. **Causes** (Main cause and contributing factors)

4. **Prevention Measures** (5-6 practical steps)

5. **Treatment & Remedies** (Organic remedies, chemical treatment if needed, home remedies)

6. **Additional Tips for Farmers**

Format the response clearly with proper headings and bullet points.
Use simple, farmer-friendly language that is easy to understand.`

const fallbackDetectPromptTemplate = `You are an expert agricultural pathologist. Analyze this %s leaf image and provide:

1. **Confirmation**: Is this a %s plant? (YES/NO)
2. **Disease Status**: Healthy or Disease Name
3. **Confidence Level**: Percentage (90-100%%)
4. **Visual Analysis**: What you observe in the image

Then provide detailed information in %s language:

5. **Symptoms Visible**: List specific symptoms you can see
6. **Possible Causes**: What might have caused this condition
7. **Prevention Measures**: 5 practical steps to prevent this (if disease detected)
8. **Treatment Recommendations**: 5 safe and farmer-friendly treatments

Format the response clearly with proper headings and bullet points. Do not use markdown headers.`

const cropRecommendationPromptTemplate = `As an agricultural expert, recommend the top 5 most suitable crops for the following conditions:

- Temperature: %.1f°C
- Humidity: %.1f%%
- Rainfall: %.1fmm
- Soil Type: %s

Provide:
1. Crop name
2. Why it's suitable for these conditions
3. Expected yield potential
4. Best planting time/season

Format as a clear, numbered list. Keep recommendations practical and region-appropriate for Indian agriculture.`

const weatherSummaryPromptTemplate = `Provide the current weather and 7-day forecast for %s.

Include:
- Current temperature, humidity, wind speed, precipitation, and weather condition
- 7-day forecast with date, high/low temperatures, precipitation, and condition

Format the response in a clear, structured way.`

// Cache lifetime for disease guidance. The guidance for one
// disease/plant/language triple is effectively static.
const (
	infoCacheTTL     = 1 * time.Hour
	infoCacheCleanup = 10 * time.Minute
)

// Advisor produces farmer-facing guidance text. Calls that fail degrade to
// an error-message string instead of failing the request, with the
// exception of DetectDisease whose failure propagates.
type Advisor struct {
	generator Generator
	infoCache *cache.Cache
	log       *slog.Logger
}

// NewAdvisor creates an advisor on top of a generator.
func NewAdvisor(g Generator) *Advisor {
	return &Advisor{
		generator: g,
		infoCache: cache.New(infoCacheTTL, infoCacheCleanup),
		log:       logging.ForService("gemini"),
	}
}

// DiseaseInfo returns guidance text for a diagnosed disease in the
// requested language. Failures degrade to an error-message string so an
// already-determined diagnosis is never blocked by a guidance fetch.
func (a *Advisor) DiseaseInfo(ctx context.Context, disease, plant, language string) string {
	key := fmt.Sprintf("%s|%s|%s", disease, plant, language)
	if cached, found := a.infoCache.Get(key); found {
		return cached.(string)
	}

	prompt := fmt.Sprintf(diseaseInfoPromptTemplate, plant, disease, language)
	info, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.log.Error("Disease info fetch failed",
			"disease", disease, "plant", plant, "language", language, "error", err)
		return fmt.Sprintf("Error getting disease information: %v", err)
	}

	a.infoCache.Set(key, info, cache.DefaultExpiration)
	return info
}

// DetectDisease performs end-to-end fallback detection on the full image.
// Unlike the guidance calls this propagates failure: with no diagnosis at
// all there is nothing to degrade to.
func (a *Advisor) DetectDisease(ctx context.Context, image []byte, plant, language string) (string, error) {
	prompt := fmt.Sprintf(fallbackDetectPromptTemplate, plant, plant, language)
	return a.generator.GenerateVision(ctx, prompt, image)
}

// CropRecommendation suggests crops for the given growing conditions.
func (a *Advisor) CropRecommendation(ctx context.Context, temperature, humidity, rainfall float64, soilType string) string {
	prompt := fmt.Sprintf(cropRecommendationPromptTemplate, temperature, humidity, rainfall, soilType)
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.log.Error("Crop recommendation failed", "soil_type", soilType, "error", err)
		return fmt.Sprintf("Error getting recommendations: %v", err)
	}
	return text
}

// WeatherSummary returns a free-form current+forecast description for a
// city.
func (a *Advisor) WeatherSummary(ctx context.Context, city string) string {
	prompt := fmt.Sprintf(weatherSummaryPromptTemplate, city)
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.log.Error("Weather summary failed", "city", city, "error", err)
		return fmt.Sprintf("Error getting weather information: %v", err)
	}
	return text
}
