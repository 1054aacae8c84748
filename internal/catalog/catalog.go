// Package catalog holds the fixed disease class list the classifier was
// trained on and derives the per-plant class groupings from it.
package catalog

import (
	"sort"
	"strings"
)

// classNames is the label set of the PlantVillage model, in output tensor
// order. The classifier's probability vector is indexed by position in this
// slice.
var classNames = []string{
	"Apple___Apple_scab", "Apple___Black_rot", "Apple___Cedar_apple_rust", "Apple___healthy",
	"Blueberry___healthy", "Cherry_(including_sour)___Powdery_mildew",
	"Cherry_(including_sour)___healthy", "Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot",
	"Corn_(maize)___Common_rust_", "Corn_(maize)___Northern_Leaf_Blight", "Corn_(maize)___healthy",
	"Grape___Black_rot", "Grape___Esca_(Black_Measles)", "Grape___Leaf_blight_(Isariopsis_Leaf_Spot)",
	"Grape___healthy", "Orange___Haunglongbing_(Citrus_greening)", "Peach___Bacterial_spot",
	"Peach___healthy", "Pepper,_bell___Bacterial_spot", "Pepper,_bell___healthy",
	"Potato___Early_blight", "Potato___Late_blight", "Potato___healthy",
	"Raspberry___healthy", "Soybean___healthy", "Squash___Powdery_mildew",
	"Strawberry___Leaf_scorch", "Strawberry___healthy", "Tomato___Bacterial_spot",
	"Tomato___Early_blight", "Tomato___Late_blight", "Tomato___Leaf_Mold",
	"Tomato___Septoria_leaf_spot", "Tomato___Spider_mites Two-spotted_spider_mite",
	"Tomato___Target_Spot", "Tomato___Tomato_Yellow_Leaf_Curl_Virus", "Tomato___Tomato_mosaic_virus",
	"Tomato___healthy",
}

// labelSeparator splits the plant prefix from the disease suffix in a raw
// class label.
const labelSeparator = "___"

// Class is one entry of the fixed label set.
type Class struct {
	Index int    // position in the classifier's output vector
	Label string // raw class label, e.g. "Tomato___Late_blight"
}

// Catalog is the derived, read-only view over the class list. Build it once
// at startup and share it.
type Catalog struct {
	classes []Class
	plants  []string           // distinct plant names, sorted
	byPlant map[string][]Class // lowercased plant name -> classes in label order
}

// New builds the catalog from the fixed class list.
func New() *Catalog {
	return newFromLabels(classNames)
}

func newFromLabels(labels []string) *Catalog {
	c := &Catalog{
		classes: make([]Class, 0, len(labels)),
		byPlant: make(map[string][]Class),
	}

	seen := make(map[string]bool)
	for idx, label := range labels {
		cls := Class{Index: idx, Label: label}
		c.classes = append(c.classes, cls)

		plant := PlantName(label)
		key := strings.ToLower(plant)
		// Labels whose plant prefixes normalize to the same name are
		// merged into one group.
		c.byPlant[key] = append(c.byPlant[key], cls)
		if !seen[plant] {
			seen[plant] = true
			c.plants = append(c.plants, plant)
		}
	}
	sort.Strings(c.plants)

	return c
}

// Size returns the number of classes in the catalog.
func (c *Catalog) Size() int {
	return len(c.classes)
}

// Plants returns the distinct plant names, sorted alphabetically.
func (c *Catalog) Plants() []string {
	out := make([]string, len(c.plants))
	copy(out, c.plants)
	return out
}

// ClassesFor returns the classes belonging to the given plant name in label
// order. The lookup is case-insensitive. Unknown plants yield an empty
// slice, never an error.
func (c *Catalog) ClassesFor(plant string) []Class {
	classes := c.byPlant[strings.ToLower(strings.TrimSpace(plant))]
	out := make([]Class, len(classes))
	copy(out, classes)
	return out
}

// PlantName derives the normalized plant name from a raw class label: the
// text before the separator with underscores turned into spaces and the
// dataset's parenthetical and comma noise stripped.
func PlantName(label string) string {
	plant, _, _ := strings.Cut(label, labelSeparator)
	plant = strings.ReplaceAll(plant, "_", " ")
	plant = strings.ReplaceAll(plant, "(including sour)", "")
	plant = strings.ReplaceAll(plant, ",", "")
	return strings.TrimSpace(plant)
}

// DiseaseName derives the human-readable disease name from a raw class
// label: the text after the separator with underscores turned into spaces.
// A label without separator is returned whole.
func DiseaseName(label string) string {
	_, disease, found := strings.Cut(label, labelSeparator)
	if !found {
		disease = label
	}
	return strings.ReplaceAll(disease, "_", " ")
}
