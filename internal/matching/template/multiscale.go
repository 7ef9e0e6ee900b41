package template

import (
	"context"
	"image"
	"time"

	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/imaging"
	"github.com/echo-go/uiauto/internal/matching/confidence"
)

// MultiScaleOptions configures the ratio sweep the multi-scale matcher runs
// when the query's on-screen size relative to the source is unknown.
type MultiScaleOptions struct {
	RatioMin    float64
	RatioMax    float64
	Step        float64
	ScaleMax    int
	TemplateMin int
	Timeout     time.Duration
	// UseColor selects HSV-channel-minimum NCC for the final re-scored
	// confidence; the ratio sweep itself is always grayscale.
	UseColor bool
	// PredictedArea restricts the search to a region around a previous
	// detection, expanded by Deviation pixels on every side. Zero-value
	// Rectangle means "search the whole source".
	PredictedArea geometry.Rectangle
	Deviation     int
}

// DefaultMultiScaleOptions mirrors the reference matcher's tuned constants.
func DefaultMultiScaleOptions() MultiScaleOptions {
	return MultiScaleOptions{
		RatioMin:    0.01,
		RatioMax:    0.99,
		Step:        0.005,
		ScaleMax:    800,
		TemplateMin: 10,
		Timeout:     3 * time.Second,
		Deviation:   150,
	}
}

// seedAntiSaturation stamps the top-left two pixels of an image to pure
// black and pure white. Grayscale NCC is undefined on a perfectly flat
// query patch; seeding these corner pixels guarantees the source always has
// at least one high-contrast pair, so a flat query never produces a
// division-by-zero confidence everywhere.
func seedAntiSaturation(img *image.RGBA) {
	if img.Bounds().Dx() < 2 || img.Bounds().Dy() < 1 {
		return
	}

	img.Set(img.Bounds().Min.X, img.Bounds().Min.Y, image.Black)
	img.Set(img.Bounds().Min.X+1, img.Bounds().Min.Y, image.White)
}

// seedAntiSaturationGray is seedAntiSaturation for a Gray buffer, used on the
// scaled source, which is held fixed across the whole ratio sweep.
func seedAntiSaturationGray(g *imaging.Gray) {
	if g.Width < 2 || g.Height < 1 {
		return
	}

	g.Set(0, 0, 0)
	g.Set(1, 0, 255)
}

// sourceScale returns the factor the matching source must be resized by so
// its longer side is at most scaleMax, matching the reference matcher's
// fixed search resolution. Template scales are then expressed relative to
// this already-downscaled source, not to the source's native resolution.
func sourceScale(bounds image.Rectangle, scaleMax int) float64 {
	longest := max(bounds.Dx(), bounds.Dy())
	if longest == 0 || scaleMax <= 0 {
		return 1.0
	}

	return min(float64(scaleMax)/float64(longest), 1.0)
}

// templateScale computes the per-ratio template resize factor: the template
// is scaled so that whichever of its axes is longer relative to the scaled
// source's matching axis becomes exactly ratio of that source axis.
func templateScale(sourceW, sourceH, templateW, templateH int, ratio float64) float64 {
	sw, sh := float64(sourceW), float64(sourceH)
	tw, th := float64(templateW), float64(templateH)

	if th/sh >= tw/sw {
		return (sh * ratio) / th
	}

	return (sw * ratio) / tw
}

// clampToBounds restricts r to the area covered by bounds, falling back to a
// single pixel at bounds' origin if the two don't overlap at all.
func clampToBounds(r geometry.Rectangle, bounds image.Rectangle) geometry.Rectangle {
	clamped := r.Intersect(geometry.NewRectangle(bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy()))
	if clamped.Empty() {
		return geometry.NewRectangle(bounds.Min.X, bounds.Min.Y, 1, 1)
	}

	return clamped
}

// rescore crops source at rect, resizes the crop to query's own size, and
// recomputes NCC between the two at full, original resolution. The ratio
// sweep that located rect runs on a downscaled, grayscale source purely to
// find a candidate window fast; the confidence actually reported comes from
// this full-resolution re-check, so a coarse sweep location never inflates
// the returned score.
func rescore(source, query image.Image, rect geometry.Rectangle, useColor bool) float64 {
	crop := cropImage(source, rect)
	qb := query.Bounds()
	resized := imaging.Resize(crop, qb.Dx(), qb.Dy(), imaging.ResizeLinear)

	if useColor {
		return confidence.NCCColor(imaging.ToHSV(resized), imaging.ToHSV(query), 0, 0)
	}

	return confidence.NCCGray(imaging.ToGray(resized), imaging.ToGray(query), 0, 0)
}

// FindMultiScale searches source for query across a ratio sweep of template
// rescalings, picking the scale and position with the best sweep confidence,
// then reports the final confidence from a full-resolution re-check at that
// location. It returns early, accepting the best candidate seen so far, if
// opts.Timeout elapses before the sweep completes.
func FindMultiScale(
	ctx context.Context,
	source image.Image,
	query image.Image,
	opts MultiScaleOptions,
) (Match, bool) {
	deadline := time.Now().Add(opts.Timeout)

	searchArea := source
	offsetX, offsetY := 0, 0

	if !opts.PredictedArea.Empty() {
		area := expand(opts.PredictedArea, opts.Deviation, source.Bounds())
		searchArea = cropImage(source, area)
		offsetX, offsetY = area.X, area.Y
	}

	sb := searchArea.Bounds()

	sr := sourceScale(sb, opts.ScaleMax)
	scaledW := max(1, int(float64(sb.Dx())*sr))
	scaledH := max(1, int(float64(sb.Dy())*sr))

	scaledSource := imaging.ToGray(imaging.Resize(searchArea, scaledW, scaledH, imaging.ResizeLinear))
	seedAntiSaturationGray(scaledSource)
	paddedSource := imaging.PadReplicate(scaledSource, 10)

	qb := query.Bounds()
	tw, th := qb.Dx(), qb.Dy()

	var best Match

	found := false

	for ratio := opts.RatioMin; ratio <= opts.RatioMax; ratio += opts.Step {
		select {
		case <-ctx.Done():
			return best, found
		default:
		}

		if time.Now().After(deadline) {
			break
		}

		tr := templateScale(scaledW, scaledH, tw, th, ratio)
		tmplW := max(1, int(float64(tw)*tr))
		tmplH := max(1, int(float64(th)*tr))

		if tmplW <= opts.TemplateMin || tmplH <= opts.TemplateMin {
			continue
		}

		if tmplW > paddedSource.Width || tmplH > paddedSource.Height {
			continue
		}

		scaledTemplate := imaging.Resize(query, tmplW, tmplH, imaging.ResizeLinear)
		seedAntiSaturation(scaledTemplate)
		templateGray := imaging.ToGray(scaledTemplate)

		match, ok := FindBest(GrayConfidence(paddedSource, templateGray), paddedSource.Width, paddedSource.Height, tmplW, tmplH)
		if !ok {
			continue
		}

		if !found || match.Confidence > best.Confidence {
			best = match
			found = true
		}
	}

	if !found {
		return Match{}, false
	}

	// Undo the 10px replicate padding, then map the sr-scaled-source window
	// back to the search area's own original-resolution coordinates.
	unpadded := geometry.NewRectangle(best.Rect.X-10, best.Rect.Y-10, best.Rect.Width, best.Rect.Height)
	orgRect := clampToBounds(unpadded.Scale(1/sr), sb)

	finalConfidence := rescore(searchArea, query, orgRect, opts.UseColor)

	return Match{
		Rect:       orgRect.Translate(offsetX, offsetY),
		Confidence: finalConfidence,
	}, true
}

func expand(r geometry.Rectangle, deviation int, bounds image.Rectangle) geometry.Rectangle {
	expanded := geometry.NewRectangle(r.X-deviation, r.Y-deviation, r.Width+2*deviation, r.Height+2*deviation)

	return expanded.Intersect(geometry.NewRectangle(
		bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy(),
	))
}

func cropImage(src image.Image, r geometry.Rectangle) image.Image {
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)

	sub, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return imaging.ToRGBA(src)
	}

	return sub.SubImage(rect)
}
