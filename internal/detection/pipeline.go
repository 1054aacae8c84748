// Package detection implements the selection pipeline that decides between
// the local classifier and the Gemini fallback for one uploaded leaf image.
package detection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Preetham2004H/plant-ml/internal/catalog"
	"github.com/Preetham2004H/plant-ml/internal/datastore"
	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/gemini"
	"github.com/Preetham2004H/plant-ml/internal/imageproc"
	"github.com/Preetham2004H/plant-ml/internal/logging"
)

// Classifier is the model surface the pipeline consumes. A nil classifier
// means every request takes the fallback path.
type Classifier interface {
	Predict(tensor []float32) ([]float32, error)
}

// Advisor is the guidance surface the pipeline consumes, satisfied by
// gemini.Advisor.
type Advisor interface {
	DiseaseInfo(ctx context.Context, disease, plant, language string) string
	DetectDisease(ctx context.Context, image []byte, plant, language string) (string, error)
}

// Rejection errors. These are terminal, user-facing and never persisted.
var ErrNotPlantImage = errors.Newf("image does not appear to be a plant").
	Component("detection").Category(errors.CategoryValidation).Build()

// WrongPlantError reports an image that is a leaf but not of the claimed
// plant.
type WrongPlantError struct {
	Plant string
}

func (e *WrongPlantError) Error() string {
	return fmt.Sprintf("image does not appear to be a %s plant", e.Plant)
}

// UnknownPlantError reports a plant name with no catalog entries.
type UnknownPlantError struct {
	Plant string
}

func (e *UnknownPlantError) Error() string {
	return fmt.Sprintf("no disease data available for %s", e.Plant)
}

// Result is the outcome of a completed detection.
type Result struct {
	Method      string   // datastore.MethodModel or datastore.MethodFallbackAI
	PlantName   string
	DiseaseName string   // empty on the fallback path
	Confidence  *float64 // nil on the fallback path
	Info        string   // guidance or free-form fallback text
}

// Pipeline wires the catalog, classifier, Gemini and store together. All
// dependencies are explicit; there is no ambient global state.
type Pipeline struct {
	catalog    *catalog.Catalog
	classifier Classifier
	generator  gemini.Generator
	advisor    Advisor
	store      datastore.Interface
	threshold  float64
	log        *slog.Logger
}

// New creates a detection pipeline. classifier may be nil when no local
// model is available.
func New(cat *catalog.Catalog, cls Classifier, gen gemini.Generator, adv Advisor, store datastore.Interface, threshold float64) *Pipeline {
	return &Pipeline{
		catalog:    cat,
		classifier: cls,
		generator:  gen,
		advisor:    adv,
		store:      store,
		threshold:  threshold,
		log:        logging.ForService("detection"),
	}
}

// Detect runs one detection attempt: validate the image, try the local
// classifier over the claimed plant's classes, fall back to Gemini when the
// classifier is absent, fails, or is not confident enough. userID may be
// nil for anonymous requests; the attempt is persisted either way.
func (p *Pipeline) Detect(ctx context.Context, image []byte, plant, language string, userID *uint) (*Result, error) {
	// Candidate classes first: an unknown plant is rejected before any
	// external call.
	candidates := p.catalog.ClassesFor(plant)
	if len(candidates) == 0 {
		return nil, &UnknownPlantError{Plant: plant}
	}

	isLeaf, matchesPlant := gemini.ValidatePlantImage(ctx, p.generator, image, plant)
	if !isLeaf {
		return nil, ErrNotPlantImage
	}
	if !matchesPlant {
		return nil, &WrongPlantError{Plant: plant}
	}

	attemptID := uuid.NewString()

	if p.classifier != nil {
		result, ok := p.tryModel(ctx, image, plant, language, candidates)
		if ok {
			if err := p.persist(attemptID, userID, language, result); err != nil {
				return nil, err
			}
			return result, nil
		}
	}

	return p.fallback(ctx, attemptID, image, plant, language, userID)
}

// tryModel runs the local classifier and applies the confidence policy.
// Any failure here is logged and reported as not-ok so the caller falls
// back; classifier trouble is never surfaced to the user.
func (p *Pipeline) tryModel(ctx context.Context, image []byte, plant, language string, candidates []catalog.Class) (*Result, bool) {
	tensor, err := imageproc.Normalize(image)
	if err != nil {
		p.log.Warn("Image normalization failed, using fallback", "plant", plant, "error", err)
		return nil, false
	}

	probabilities, err := p.classifier.Predict(tensor)
	if err != nil {
		p.log.Warn("Model prediction failed, using fallback", "plant", plant, "error", err)
		return nil, false
	}

	best, confidence, ok := selectTopCandidate(probabilities, candidates)
	if !ok {
		p.log.Warn("No candidate probabilities available, using fallback", "plant", plant)
		return nil, false
	}

	// Strict inequality: exactly at the threshold falls back.
	if confidence <= p.threshold {
		p.log.Debug("Model confidence below threshold, using fallback",
			"plant", plant, "label", best.Label, "confidence", confidence, "threshold", p.threshold)
		return nil, false
	}

	diseaseName := catalog.DiseaseName(best.Label)

	// Guidance failure degrades to error text inside Info; it never
	// blocks the already-determined diagnosis.
	info := p.advisor.DiseaseInfo(ctx, diseaseName, plant, language)

	return &Result{
		Method:      datastore.MethodModel,
		PlantName:   plant,
		DiseaseName: diseaseName,
		Confidence:  &confidence,
		Info:        info,
	}, true
}

// fallback hands the full image to Gemini for end-to-end detection.
func (p *Pipeline) fallback(ctx context.Context, attemptID string, image []byte, plant, language string, userID *uint) (*Result, error) {
	text, err := p.advisor.DetectDisease(ctx, image, plant, language)
	if err != nil {
		// With neither model nor fallback there is no diagnosis to
		// persist or degrade to.
		return nil, errors.New(err).
			Component("detection").
			Category(errors.CategoryGenAI).
			Context("plant", plant).
			Build()
	}

	result := &Result{
		Method:    datastore.MethodFallbackAI,
		PlantName: plant,
		Info:      text,
	}
	if err := p.persist(attemptID, userID, language, result); err != nil {
		return nil, err
	}
	return result, nil
}

// persist appends the completed attempt to the store.
func (p *Pipeline) persist(attemptID string, userID *uint, language string, result *Result) error {
	record := &datastore.Detection{
		AttemptID:   attemptID,
		UserID:      userID,
		PlantName:   result.PlantName,
		DiseaseName: result.DiseaseName,
		Confidence:  result.Confidence,
		Method:      result.Method,
		Language:    language,
		CreatedAt:   time.Now(),
	}
	if result.Method == datastore.MethodFallbackAI {
		record.Result = result.Info
	}

	if err := p.store.SaveDetection(record); err != nil {
		return err
	}

	p.log.Info("Detection persisted",
		"attempt_id", attemptID,
		"plant", result.PlantName,
		"method", result.Method,
		"disease", result.DiseaseName)
	return nil
}

// selectTopCandidate projects the probability vector onto the candidate
// subset and picks the most confident class. Ties keep the earliest
// catalog entry, matching stable-sort behavior.
func selectTopCandidate(probabilities []float32, candidates []catalog.Class) (best catalog.Class, confidence float64, ok bool) {
	for _, candidate := range candidates {
		if candidate.Index < 0 || candidate.Index >= len(probabilities) {
			continue
		}
		prob := float64(probabilities[candidate.Index])
		if !ok || prob > confidence {
			best = candidate
			confidence = prob
			ok = true
		}
	}
	return best, confidence, ok
}
