// Package imageproc converts uploaded leaf photographs into the tensor
// layout the classifier expects.
package imageproc

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding

	"golang.org/x/image/draw"

	"github.com/Preetham2004H/plant-ml/internal/errors"
)

// Classifier input dimensions.
const (
	InputWidth  = 256
	InputHeight = 256
	channels    = 3
)

// TensorSize is the length of the flattened batch-of-1 input tensor.
const TensorSize = 1 * InputHeight * InputWidth * channels

// ErrDecode marks input bytes that could not be decoded as an image.
var ErrDecode = errors.Newf("image decode failed").Component("imageproc").Category(errors.CategoryImageDecode).Build()

// Normalize decodes raw image bytes, forces a 3-channel color
// representation, resizes to the classifier input dimensions and scales
// channel values to [0,1]. The result is a float32 slice laid out in NHWC
// order with shape (1, 256, 256, 3).
func Normalize(data []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New(errors.Join(ErrDecode, err)).
			Component("imageproc").
			Category(errors.CategoryImageDecode).
			Context("size_bytes", len(data)).
			Build()
	}

	// Scaling onto an RGBA canvas drops any alpha/palette/grayscale
	// source representation and resizes in one pass.
	rgba := image.NewRGBA(image.Rect(0, 0, InputWidth, InputHeight))
	draw.BiLinear.Scale(rgba, rgba.Bounds(), img, img.Bounds(), draw.Src, nil)

	// NHWC with batch=1: iterate rows (y) then columns (x) so memory
	// layout matches the model input.
	out := make([]float32, TensorSize)
	for y := 0; y < InputHeight; y++ {
		for x := 0; x < InputWidth; x++ {
			base := ((y * InputWidth) + x) * channels
			pix := rgba.PixOffset(x, y)
			out[base+0] = float32(rgba.Pix[pix+0]) / 255.0
			out[base+1] = float32(rgba.Pix[pix+1]) / 255.0
			out[base+2] = float32(rgba.Pix[pix+2]) / 255.0
		}
	}

	return out, nil
}
