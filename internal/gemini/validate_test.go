package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeGenerator scripts Generator responses for tests.
type fakeGenerator struct {
	response    string
	err         error
	lastPrompt  string
	visionCalls int
	textCalls   int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.textCalls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeGenerator) GenerateVision(_ context.Context, prompt string, _ []byte) (string, error) {
	f.visionCalls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestValidatePlantImageFailsOpen(t *testing.T) {
	g := &fakeGenerator{err: errors.New("network down")}

	isLeaf, matches := ValidatePlantImage(context.Background(), g, []byte("img"), "Tomato")

	// API failure must never block detection
	assert.True(t, isLeaf)
	assert.True(t, matches)
}

func TestValidatePlantImageResponses(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantLeaf    bool
		wantMatches bool
	}{
		{"both yes", "YES, YES", true, true},
		{"not a plant", "NO, NO", false, false},
		{"wrong plant", "YES, NO", true, false},
		{"lowercase", "yes, yes", true, true},
		{"extra whitespace", "  YES ,  YES  ", true, true},
		{"missing second token", "YES", true, false},
		{"chatty model", "YES, YES. This is clearly a tomato leaf.", true, true},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGenerator{response: tt.response}

			isLeaf, matches := ValidatePlantImage(context.Background(), g, []byte("img"), "Tomato")

			assert.Equal(t, tt.wantLeaf, isLeaf, "is-leaf")
			assert.Equal(t, tt.wantMatches, matches, "matches-plant")
		})
	}
}

func TestValidatePlantImagePromptNamesPlant(t *testing.T) {
	g := &fakeGenerator{response: "YES, YES"}

	ValidatePlantImage(context.Background(), g, []byte("img"), "Potato")

	assert.Contains(t, g.lastPrompt, "Potato plant")
	assert.Equal(t, 1, g.visionCalls)
}
