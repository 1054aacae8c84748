package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/Preetham2004H/plant-ml/internal/logging"
)

const validatePromptTemplate = `Analyze this image and determine:
1. Is this a plant leaf image? (YES/NO)
2. Does this appear to be a %s plant? (YES/NO)

Respond with ONLY two words separated by comma:
First word: YES or NO for plant leaf
Second word: YES or NO for %s match

Example response: YES, YES
Do not provide any other text.`

// ValidatePlantImage asks the vision model whether the image is a plant
// leaf and whether it matches the claimed plant. The call fails open: any
// API failure yields (true, true) so an unreachable validator never blocks
// detection. That is a deliberate availability-over-validation policy.
func ValidatePlantImage(ctx context.Context, g Generator, image []byte, plant string) (isLeaf, matchesPlant bool) {
	prompt := fmt.Sprintf(validatePromptTemplate, plant, plant)

	response, err := g.GenerateVision(ctx, prompt, image)
	if err != nil {
		logging.ForService("gemini").Warn("Plant validation failed, failing open",
			"plant", plant, "error", err)
		return true, true
	}

	return parseValidationResponse(response)
}

// parseValidationResponse reads the strict two-token "YES, YES" format. A
// response without the second token counts as a plant mismatch.
func parseValidationResponse(response string) (isLeaf, matchesPlant bool) {
	result := strings.ToUpper(strings.TrimSpace(response))
	parts := strings.Split(result, ",")

	isLeaf = strings.Contains(parts[0], "YES")
	if len(parts) > 1 {
		matchesPlant = strings.Contains(parts[1], "YES")
	}
	return isLeaf, matchesPlant
}
