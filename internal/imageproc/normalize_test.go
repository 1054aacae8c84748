package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preetham2004H/plant-ml/internal/errors"
)

// encodePNG renders a solid-color image of the given size as PNG bytes.
func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeShape(t *testing.T) {
	data := encodePNG(t, 100, 60, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	tensor, err := Normalize(data)

	require.NoError(t, err)
	assert.Len(t, tensor, TensorSize)
}

func TestNormalizeScalesToUnitRange(t *testing.T) {
	data := encodePNG(t, InputWidth, InputHeight, color.RGBA{R: 255, G: 0, B: 127, A: 255})

	tensor, err := Normalize(data)
	require.NoError(t, err)

	// First pixel, channel order R G B
	assert.InDelta(t, 1.0, tensor[0], 0.01)
	assert.InDelta(t, 0.0, tensor[1], 0.01)
	assert.InDelta(t, 127.0/255.0, tensor[2], 0.01)

	for _, v := range tensor {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestNormalizeForcesRGB(t *testing.T) {
	// Grayscale source must still produce a 3-channel tensor
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	tensor, err := Normalize(buf.Bytes())

	require.NoError(t, err)
	require.Len(t, tensor, TensorSize)
	assert.InDelta(t, tensor[0], tensor[1], 0.02)
	assert.InDelta(t, tensor[1], tensor[2], 0.02)
}

func TestNormalizeInvalidBytes(t *testing.T) {
	_, err := Normalize([]byte("not an image"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestNormalizeEmptyInput(t *testing.T) {
	_, err := Normalize(nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}
