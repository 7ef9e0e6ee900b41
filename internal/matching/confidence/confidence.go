// Package confidence implements the similarity functions the template
// matcher scores candidate windows with: grayscale normalized
// cross-correlation, and the minimum of the per-channel HSV correlations.
package confidence

import (
	"math"

	"github.com/echo-go/uiauto/internal/imaging"
)

// NCCGray computes the normalized cross-correlation between a query patch
// and a same-sized window of a source grayscale image anchored at (x, y).
// The result is in [-1,1]; callers typically clamp negative scores to 0.
func NCCGray(source *imaging.Gray, query *imaging.Gray, x, y int) float64 {
	return ncc(func(qx, qy int) float64 {
		return float64(query.At(qx, qy))
	}, func(qx, qy int) float64 {
		return float64(source.At(x+qx, y+qy))
	}, query.Width, query.Height)
}

// NCCColor computes the minimum of the per-channel (H, S, V) normalized
// cross-correlation between a query patch and a same-sized window of a
// source HSV image anchored at (x, y). Taking the minimum across channels
// means a color mismatch in any single channel depresses the overall score,
// matching the reference matcher's "hardest channel wins" rule.
func NCCColor(source *imaging.HSV, query *imaging.HSV, x, y int) float64 {
	h := nccChannel(source.H, source.Width, query.H, query.Width, query.Height, x, y)
	s := nccChannel(source.S, source.Width, query.S, query.Width, query.Height, x, y)
	v := nccChannel(source.V, source.Width, query.V, query.Width, query.Height, x, y)

	return min(h, s, v)
}

func nccChannel(source []uint8, sourceWidth int, query []uint8, queryWidth, queryHeight, x, y int) float64 {
	return ncc(func(qx, qy int) float64 {
		return float64(query[qy*queryWidth+qx])
	}, func(qx, qy int) float64 {
		sx, sy := x+qx, y+qy

		return float64(source[sy*sourceWidth+sx])
	}, queryWidth, queryHeight)
}

// ncc is the shared normalized cross-correlation kernel: it mean-centers
// both the query and the window before taking the correlation, so uniform
// brightness/contrast offsets between the two don't depress the score.
func ncc(queryAt, windowAt func(x, y int) float64, width, height int) float64 {
	n := float64(width * height)
	if n == 0 {
		return 0
	}

	var sumQ, sumW float64

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sumQ += queryAt(x, y)
			sumW += windowAt(x, y)
		}
	}

	meanQ, meanW := sumQ/n, sumW/n

	var num, denomQ, denomW float64

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dq := queryAt(x, y) - meanQ
			dw := windowAt(x, y) - meanW
			num += dq * dw
			denomQ += dq * dq
			denomW += dw * dw
		}
	}

	denom := math.Sqrt(denomQ * denomW)
	if denom == 0 {
		return 0
	}

	return num / denom
}
