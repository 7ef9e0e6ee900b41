// Package imaging provides the pixel-buffer primitives the matching engine
// runs against: decoding, colorspace conversion, resizing, and border
// padding, all built on golang.org/x/image rather than a native CV binding.
package imaging

import (
	"image"
	"image/color"
)

// Gray is a single-channel 8-bit image, row-major, stride == width.
type Gray struct {
	Width, Height int
	Pix           []uint8
}

// NewGray allocates a zeroed grayscale image of the given size.
func NewGray(width, height int) *Gray {
	return &Gray{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the pixel value at (x, y). Out-of-bounds reads return 0.
func (g *Gray) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}

	return g.Pix[y*g.Width+x]
}

// Set writes the pixel value at (x, y), ignoring out-of-bounds writes.
func (g *Gray) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}

	g.Pix[y*g.Width+x] = v
}

// Clone returns an independent copy of g.
func (g *Gray) Clone() *Gray {
	out := &Gray{Width: g.Width, Height: g.Height, Pix: make([]uint8, len(g.Pix))}
	copy(out.Pix, g.Pix)

	return out
}

// HSV is a three-channel image holding hue/saturation/value in [0,255] each,
// matching the clamped-channel convention the matching engine expects.
type HSV struct {
	Width, Height int
	H, S, V       []uint8
}

// NewHSV allocates a zeroed HSV image of the given size.
func NewHSV(width, height int) *HSV {
	n := width * height

	return &HSV{
		Width: width, Height: height,
		H: make([]uint8, n), S: make([]uint8, n), V: make([]uint8, n),
	}
}

// ToGray converts a standard library image.Image to a Gray buffer using the
// ITU-R 601-2 luma transform (matches image/color.GrayModel).
func ToGray(src image.Image) *Gray {
	bounds := src.Bounds()
	out := NewGray(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(src.At(x, y)).(color.Gray) //nolint:errcheck // color.GrayModel always returns color.Gray
			out.Set(x-bounds.Min.X, y-bounds.Min.Y, gray.Y)
		}
	}

	return out
}

// ToHSV converts a standard library image.Image to an HSV buffer, clamping
// each channel to [10,245] the way the color confidence function requires.
func ToHSV(src image.Image) *HSV {
	bounds := src.Bounds()
	out := NewHSV(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r32, g32, b32, _ := src.At(x, y).RGBA()
			r, g, b := uint8(r32>>8), uint8(g32>>8), uint8(b32>>8) //nolint:gosec // 16->8 bit channel narrowing is intentional

			h, s, v := rgbToHSV(r, g, b)
			idx := (y-bounds.Min.Y)*out.Width + (x - bounds.Min.X)
			out.H[idx] = clampChannel(h)
			out.S[idx] = clampChannel(s)
			out.V[idx] = clampChannel(v)
		}
	}

	return out
}

// clampChannel restricts a channel value to [10,245], the saturation margin
// the multi-scale matcher relies on so that seeded black/white corner pixels
// never exactly match real image content.
func clampChannel(v uint8) uint8 {
	const lo, hi = 10, 245

	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255

	maxC := max(rf, gf, bf)
	minC := min(rf, gf, bf)
	delta := maxC - minC

	v = uint8(maxC * 255) //nolint:gosec // bounded to [0,255] by construction

	if maxC == 0 {
		return 0, 0, v
	}

	s = uint8((delta / maxC) * 255) //nolint:gosec // bounded to [0,255] by construction

	if delta == 0 {
		return 0, s, v
	}

	var hf float64

	switch maxC {
	case rf:
		hf = 60 * (((gf - bf) / delta))
	case gf:
		hf = 60 * (((bf - rf) / delta) + 2)
	default:
		hf = 60 * (((rf - gf) / delta) + 4)
	}

	if hf < 0 {
		hf += 360
	}

	h = uint8(hf / 360 * 255) //nolint:gosec // bounded to [0,255] by construction

	return h, s, v
}
