// Package orchestrator ties together the template, multi-scale, and
// keypoint matchers behind a single matching strategy list, resolving a
// match result's rectangle to a concrete on-screen click point.
package orchestrator

import (
	"context"
	"image"

	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/imaging"
	"github.com/echo-go/uiauto/internal/matching/keypoint"
	"github.com/echo-go/uiauto/internal/matching/template"
)

// Position names one of the nine anchor points within a matched rectangle a
// click can target.
type Position string

const (
	PositionTopLeft     Position = "top_left"
	PositionTop         Position = "top"
	PositionTopRight    Position = "top_right"
	PositionLeft        Position = "left"
	PositionCenter      Position = "center"
	PositionRight       Position = "right"
	PositionBottomLeft  Position = "bottom_left"
	PositionBottom      Position = "bottom"
	PositionBottomRight Position = "bottom_right"
)

// fraction returns the (fx, fy) position of a Position within a unit square,
// (0,0) at top-left and (1,1) at bottom-right.
func (p Position) fraction() (fx, fy float64) {
	switch p {
	case PositionTopLeft:
		return 0, 0
	case PositionTop:
		return 0.5, 0
	case PositionTopRight:
		return 1, 0
	case PositionLeft:
		return 0, 0.5
	case PositionRight:
		return 1, 0.5
	case PositionBottomLeft:
		return 0, 1
	case PositionBottom:
		return 0.5, 1
	case PositionBottomRight:
		return 1, 1
	case PositionCenter:
		return 0.5, 0.5
	default:
		return 0.5, 0.5
	}
}

// ClickPoint resolves a Position within rect to an absolute screen point.
//
// All nine positions use one formula: rect's origin plus the position's
// fraction of rect's width and height, in the coordinate space the match was
// found in. The four edge positions therefore sit on the midpoints of their
// edges (left = (X, centre Y), right = (X+Width, centre Y), and likewise for
// top and bottom); no edge is computed by subtraction.
func ClickPoint(rect geometry.Rectangle, pos Position) geometry.Point {
	fx, fy := pos.fraction()

	return geometry.Point{
		X: rect.X + int(float64(rect.Width)*fx),
		Y: rect.Y + int(float64(rect.Height)*fy),
	}
}

// Strategy names a matching algorithm entry in the configured search order.
type Strategy string

const (
	StrategyTemplate   Strategy = "template"
	StrategyMultiScale Strategy = "multiscale"
	StrategyKeypoint   Strategy = "keypoint"
)

// DesignResolution is the reference resolution the cocos-min resize
// strategy scales reference images from/to, matching the engine's
// historical default authoring resolution.
var DesignResolution = geometry.Point{X: 960, Y: 640}

// CocosMinScale computes the uniform scale factor the cocos-min strategy
// applies: the smaller of the two axis ratios between the actual screen
// size and DesignResolution, so the scaled reference image always fits
// within the screen on both axes.
func CocosMinScale(screen geometry.Point) float64 {
	wRatio := float64(screen.X) / float64(DesignResolution.X)
	hRatio := float64(screen.Y) / float64(DesignResolution.Y)

	return min(wRatio, hRatio)
}

// Template is a single configured matching target: a reference image plus
// the strategies to try against a screenshot, in order.
type Template struct {
	Name          string
	Reference     image.Image
	Strategies    []Strategy
	Threshold     float64
	UseColor      bool
	KeypointKind  string
	Detector      keypoint.Detector
	PredictedArea geometry.Rectangle
}

// Found is a resolved match against a Template, ready for a click-point lookup.
type Found struct {
	Rect       geometry.Rectangle
	Confidence float64
	Strategy   Strategy
}

// Match runs t's configured strategies in order against screenshot, applying
// the cocos-min scale to the reference image first, and returns the first
// strategy that clears t.Threshold. The reference is treated as authored at
// DesignResolution: it is resized by CocosMinScale(screen) alone, and no
// recorded capture resolution of the reference enters the scale. Strategies
// that report BackendMissing or TemplateInputError are skipped.
func Match(ctx context.Context, t Template, screenshot image.Image, screen geometry.Point) (Found, error) {
	scale := CocosMinScale(screen)
	reference := t.Reference

	if scale != 1.0 {
		b := t.Reference.Bounds()
		reference = imaging.Resize(
			t.Reference,
			max(1, int(float64(b.Dx())*scale)),
			max(1, int(float64(b.Dy())*scale)),
			imaging.ResizeCubic,
		)
	}

	for _, strategy := range t.Strategies {
		select {
		case <-ctx.Done():
			return Found{}, core.WrapContextCanceled(ctx, "match")
		default:
		}

		found, ok, err := runStrategy(ctx, strategy, t, reference, screenshot)
		if err != nil {
			if keypoint.IsBackendMissing(err) || derrors.IsCode(err, derrors.CodeTemplateInputError) {
				continue
			}

			return Found{}, err
		}

		if ok && found.Confidence >= t.Threshold {
			return found, nil
		}
	}

	return Found{}, derrors.Newf(derrors.CodeTargetNotFound, "no strategy matched template %q above threshold %.2f", t.Name, t.Threshold)
}

func runStrategy(
	ctx context.Context,
	strategy Strategy,
	t Template,
	reference image.Image,
	screenshot image.Image,
) (Found, bool, error) {
	switch strategy {
	case StrategyTemplate:
		return matchTemplate(reference, screenshot, t.UseColor, strategy)
	case StrategyMultiScale:
		return matchMultiScale(ctx, reference, screenshot, t.PredictedArea, t.UseColor, strategy)
	case StrategyKeypoint:
		return matchKeypoint(t.Detector, reference, screenshot, strategy)
	default:
		return Found{}, false, derrors.Newf(derrors.CodeInvalidMatchingMethod, "unknown matching strategy %q", strategy)
	}
}

// confidenceFuncFor builds the query/source-shaped ConfidenceFunc spec §4.2
// calls for: color (HSV-channel-minimum NCC) when useColor is set, grayscale
// NCC otherwise.
func confidenceFuncFor(reference, screenshot image.Image, useColor bool) template.ConfidenceFunc {
	if useColor {
		return template.ColorConfidence(imaging.ToHSV(screenshot), imaging.ToHSV(reference))
	}

	return template.GrayConfidence(imaging.ToGray(screenshot), imaging.ToGray(reference))
}

func matchTemplate(reference, screenshot image.Image, useColor bool, strategy Strategy) (Found, bool, error) {
	sb := screenshot.Bounds()
	qb := reference.Bounds()

	if qb.Dx() > sb.Dx() || qb.Dy() > sb.Dy() {
		return Found{}, false, derrors.New(derrors.CodeTemplateInputError, "reference image larger than screenshot")
	}

	fn := confidenceFuncFor(reference, screenshot, useColor)

	match, ok := template.FindBest(fn, sb.Dx(), sb.Dy(), qb.Dx(), qb.Dy())
	if !ok {
		return Found{}, false, nil
	}

	return Found{Rect: match.Rect, Confidence: clamp01(match.Confidence), Strategy: strategy}, true, nil
}

func matchMultiScale(
	ctx context.Context,
	reference, screenshot image.Image,
	predictedArea geometry.Rectangle,
	useColor bool,
	strategy Strategy,
) (Found, bool, error) {
	opts := template.DefaultMultiScaleOptions()
	opts.PredictedArea = predictedArea
	opts.UseColor = useColor

	match, ok := template.FindMultiScale(ctx, screenshot, reference, opts)
	if !ok {
		return Found{}, false, nil
	}

	return Found{Rect: match.Rect, Confidence: clamp01(match.Confidence), Strategy: strategy}, true, nil
}

func matchKeypoint(detector keypoint.Detector, reference, screenshot image.Image, strategy Strategy) (Found, bool, error) {
	if detector == nil {
		return Found{}, false, keypoint.ErrBackendMissing
	}

	queryPoints, err := detector.Detect(reference)
	if err != nil {
		return Found{}, false, err
	}

	sourcePoints, err := detector.Detect(screenshot)
	if err != nil {
		return Found{}, false, err
	}

	matches := keypoint.DedupBySourceCoordinate(bruteForceCorrespondences(queryPoints, sourcePoints))

	qb := reference.Bounds()

	result, err := keypoint.Fit(matches, qb.Dx(), qb.Dy())
	if err != nil {
		return Found{}, false, err
	}

	return Found{Rect: result.Rect, Confidence: clamp01(result.Confidence), Strategy: strategy}, true, nil
}

// bruteForceCorrespondences runs Lowe's ratio test over every query keypoint
// against the full set of source keypoints, using squared Euclidean distance
// between descriptor vectors as the match metric. This is the generic
// correspondence search any Detector can rely on package keypoint's shared
// Fit pipeline with; a detector whose native library already returns scored
// matches is free to do better.
func bruteForceCorrespondences(queryPoints, sourcePoints []keypoint.KeyPoint) []keypoint.Correspondence {
	if len(queryPoints) == 0 || len(sourcePoints) == 0 {
		return nil
	}

	bestSource := make([]int, len(queryPoints))

	knnDistances := func(q int) (best, second int, bestDist, secondDist float64) {
		dists := make([]float64, len(sourcePoints))
		for s, sp := range sourcePoints {
			dists[s] = descriptorDistance(queryPoints[q].Descriptor, sp.Descriptor)
		}

		order := keypoint.SortByDistance(dists)
		best = order[0]
		bestDist = dists[best]
		bestSource[q] = best

		if len(order) > 1 {
			second = order[1]
			secondDist = dists[second]
		}

		return best, second, bestDist, secondDist
	}

	accepted := keypoint.RatioTestFilter(queryPoints, knnDistances)

	matches := make([]keypoint.Correspondence, 0, len(accepted))
	for _, q := range accepted {
		matches = append(matches, keypoint.Correspondence{
			Query:  queryPoints[q],
			Source: sourcePoints[bestSource[q]],
		})
	}

	return matches
}

func descriptorDistance(a, b []float64) float64 {
	n := min(len(a), len(b))

	var sum float64

	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}

	return sum
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
