// Package imaging implements the pixel-level autocrop stages: background
// color detection, transparency masking, content bounds detection and canvas
// composition, plus the PNG codec boundary.
//
// All stages operate on *image.NRGBA — 8-bit non-premultiplied RGBA with a
// row-major Pix buffer and stride = width*4 — so pixel access is direct
// slice indexing rather than the color-model conversions of image.Image.
// Decode always normalizes to this layout.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Regions are inclusive at
// (X1, Y1) and exclusive at (X2, Y2).
//
// # Buffer Ownership
//
// Stages never retain a reference to an image past their call. Only
// MaskBackground mutates its argument (alpha channel, in place);
// DetectBackground and FindContentBounds are read-only scans; Compose
// consumes its input and returns a new buffer. The pipeline owns the buffer
// exclusively for the duration of one processing call.
//
// # Error Handling
//
// The pure pixel stages cannot fail: degenerate inputs degrade to defined
// results (no background found, full-extent bounds) rather than errors. Only
// the codec boundary (Decode, Encode) and invalid compose geometry return
// errors, the former wrapping the ErrDecode and ErrEncode sentinels.
//
// Resampling is delegated to github.com/disintegration/imaging with the
// Lanczos filter throughout.
package imaging
