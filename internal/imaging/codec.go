package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ErrDecode indicates the input bytes could not be decoded as a PNG image.
var ErrDecode = errors.New("decode image")

// ErrEncode indicates the processed image could not be encoded back to PNG.
var ErrEncode = errors.New("encode image")

// Decode decodes PNG bytes into an NRGBA image.
//
// The result always uses the NRGBA layout (8-bit non-premultiplied RGBA,
// row-major, stride = width*4) regardless of the source PNG's color type,
// so the pixel stages can address the Pix buffer directly. Failures wrap
// ErrDecode.
func Decode(data []byte) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	return imaging.Clone(img), nil
}

// Encode encodes an image to PNG bytes at maximum compression.
//
// The standard encoder chooses a per-row filter heuristically at
// BestCompression, which covers the adaptive-filtering requirement.
// Failures wrap ErrEncode.
func Encode(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// ResizeTo resizes an image to exactly width x height with the Lanczos
// filter, ignoring aspect ratio. Used by the pipeline's resize-only
// fallback.
func ResizeTo(img *image.NRGBA, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Clone returns a deep copy of an image. The pipeline clones the decoded
// buffer before the masking stage mutates it so the fallback path can still
// reach the pristine pixels.
func Clone(img *image.NRGBA) *image.NRGBA {
	return imaging.Clone(img)
}
