package imaging

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ResizeMethod selects the interpolation kernel used when rescaling an image,
// mirroring the resize_method config knob.
type ResizeMethod string

const (
	// ResizeNearest uses nearest-neighbor interpolation, fastest and blockiest.
	ResizeNearest ResizeMethod = "nearest"
	// ResizeLinear uses bilinear interpolation.
	ResizeLinear ResizeMethod = "linear"
	// ResizeCubic uses the Catmull-Rom kernel, closest to cv2's INTER_CUBIC.
	ResizeCubic ResizeMethod = "cubic"
)

func (m ResizeMethod) scaler() xdraw.Scaler {
	switch m {
	case ResizeNearest:
		return xdraw.NearestNeighbor
	case ResizeCubic:
		return xdraw.CatmullRom
	case ResizeLinear:
		return xdraw.ApproxBiLinear
	default:
		return xdraw.ApproxBiLinear
	}
}

// Resize scales src to the given width/height using method.
func Resize(src image.Image, width, height int, method ResizeMethod) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	method.scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	return dst
}

// ResizeGray scales a Gray buffer to the given width/height.
func ResizeGray(src *Gray, width, height int, method ResizeMethod) *Gray {
	srcImg := &image.Gray{Pix: src.Pix, Stride: src.Width, Rect: image.Rect(0, 0, src.Width, src.Height)}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	method.scaler().Scale(dst, dst.Bounds(), srcImg, srcImg.Bounds(), xdraw.Over, nil)

	return &Gray{Width: width, Height: height, Pix: dst.Pix}
}

// ScaleToRatio resizes src by a uniform ratio, matching the multi-scale
// matcher's ratio sweep.
func ScaleToRatio(src image.Image, ratio float64, method ResizeMethod) *image.RGBA {
	b := src.Bounds()
	w := max(1, int(float64(b.Dx())*ratio))
	h := max(1, int(float64(b.Dy())*ratio))

	return Resize(src, w, h, method)
}

// ToRGBA converts any image.Image to a concrete *image.RGBA for pixel-level
// access, without touching its content.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}

	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)

	return dst
}
