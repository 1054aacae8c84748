package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSize(t *testing.T) {
	c := New()
	assert.Equal(t, 38, c.Size())
}

func TestPlants(t *testing.T) {
	c := New()

	expected := []string{
		"Apple", "Blueberry", "Cherry", "Corn (maize)", "Grape", "Orange",
		"Peach", "Pepper bell", "Potato", "Raspberry", "Soybean", "Squash",
		"Strawberry", "Tomato",
	}
	assert.Equal(t, expected, c.Plants())
}

func TestClassesForTomato(t *testing.T) {
	c := New()

	classes := c.ClassesFor("Tomato")
	require.Len(t, classes, 10)

	// Label order is preserved
	assert.Equal(t, "Tomato___Bacterial_spot", classes[0].Label)
	assert.Equal(t, 28, classes[0].Index)
	assert.Equal(t, "Tomato___healthy", classes[9].Label)
	assert.Equal(t, 37, classes[9].Index)
}

func TestClassesForCaseInsensitive(t *testing.T) {
	c := New()

	assert.Len(t, c.ClassesFor("tomato"), 10)
	assert.Len(t, c.ClassesFor(" POTATO "), 3)
}

func TestClassesForUnknownPlant(t *testing.T) {
	c := New()

	// Unknown plants return an empty slice, not an error
	assert.Empty(t, c.ClassesFor("Mango"))
	assert.Empty(t, c.ClassesFor(""))
}

func TestPlantName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Tomato___Late_blight", "Tomato"},
		{"Cherry_(including_sour)___Powdery_mildew", "Cherry"},
		{"Corn_(maize)___Common_rust_", "Corn (maize)"},
		{"Pepper,_bell___Bacterial_spot", "Pepper bell"},
		{"Orange___Haunglongbing_(Citrus_greening)", "Orange"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, PlantName(tt.label))
		})
	}
}

func TestDiseaseName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Tomato___Late_blight", "Late blight"},
		{"Tomato___healthy", "healthy"},
		{"Tomato___Spider_mites Two-spotted_spider_mite", "Spider mites Two-spotted spider mite"},
		// No separator: the whole label is returned
		{"Blight", "Blight"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, DiseaseName(tt.label))
		})
	}
}

func TestMergedPlantPrefixes(t *testing.T) {
	// Labels whose plant prefixes normalize to the same name share one group
	c := newFromLabels([]string{
		"Cherry_(including_sour)___Powdery_mildew",
		"Cherry___Leaf_spot",
	})

	classes := c.ClassesFor("Cherry")
	require.Len(t, classes, 2)
	assert.Equal(t, 0, classes[0].Index)
	assert.Equal(t, 1, classes[1].Index)
	assert.Equal(t, []string{"Cherry"}, c.Plants())
}
