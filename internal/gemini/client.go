// Package gemini talks to the Google Gemini API for image validation,
// fallback disease detection and farmer-facing guidance text.
package gemini

import (
	"context"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/Preetham2004H/plant-ml/internal/conf"
	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/logging"
)

// Generator is the minimal generation surface the rest of the application
// consumes. It exists so the pipeline and handlers can be tested without
// network access.
type Generator interface {
	// Generate produces text from a plain prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateVision produces text from a prompt plus an image.
	GenerateVision(ctx context.Context, prompt string, image []byte) (string, error)
}

// Client wraps the genai SDK client with the configured model id.
type Client struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewClient creates a Gemini client from the configuration. The backing
// model id is configuration, not contract.
func NewClient(ctx context.Context, settings *conf.Settings) (*Client, error) {
	if settings.GenAI.APIKey == "" {
		return nil, errors.Newf("Gemini API key is required").
			Component("gemini").
			Category(errors.CategoryConfiguration).
			Build()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: settings.GenAI.APIKey,
	})
	if err != nil {
		return nil, errors.New(err).
			Component("gemini").
			Category(errors.CategoryGenAI).
			Context("operation", "create_client").
			Build()
	}

	return &Client{
		client: client,
		model:  settings.GenAI.Model,
		log:    logging.ForService("gemini"),
	}, nil
}

// Generate produces text from a plain prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", errors.New(err).
			Component("gemini").
			Category(errors.CategoryGenAI).
			Context("operation", "generate").
			Context("model", c.model).
			Build()
	}

	return result.Text(), nil
}

// GenerateVision produces text from a prompt plus an image. The image MIME
// type is sniffed from the first bytes.
func (c *Client) GenerateVision(ctx context.Context, prompt string, image []byte) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, http.DetectContentType(image)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", errors.New(err).
			Component("gemini").
			Category(errors.CategoryGenAI).
			Context("operation", "generate_vision").
			Context("model", c.model).
			Build()
	}

	return result.Text(), nil
}

// Ping sends a trivial prompt to verify connectivity and credentials at
// startup.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Generate(ctx, "Say 'plant-ml is ready'")
	return err
}
