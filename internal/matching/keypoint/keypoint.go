// Package keypoint implements the feature-matching pipeline shared by every
// keypoint-based matcher (KAZE/AKAZE/BRISK/ORB/SIFT/SURF/BRIEF): detect
// features, filter correspondences with Lowe's ratio test, dedup by source
// coordinate, fit a geometric transform, and sanity-check the result.
//
// No pure-Go implementation of these detectors exists in the ecosystem this
// runtime is built from; Detector is an extension point so a future build
// can link one in (e.g. via cgo to OpenCV) without touching the pipeline
// below. The bundled Detector always reports ErrBackendMissing, which the
// orchestrator treats as a matcher to silently skip, not a fatal error.
package keypoint

import (
	"errors"
	"image"
	"sort"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
)

// ErrBackendMissing is returned by a Detector that has no working native
// implementation available.
var ErrBackendMissing = derrors.New(derrors.CodeBackendMissing, "keypoint backend not available")

// KeyPoint is a detected feature location with its descriptor vector.
type KeyPoint struct {
	X, Y       float64
	Descriptor []float64
}

// Detector extracts keypoints and descriptors from an image. Real detectors
// (SIFT, ORB, ...) implement this by wrapping a native feature library.
type Detector interface {
	// Name identifies the algorithm, used in diagnostics and config strategy lists.
	Name() string
	Detect(img image.Image) ([]KeyPoint, error)
}

// unavailableDetector is the zero-dependency Detector every keypoint
// algorithm name resolves to until a native backend is wired in.
type unavailableDetector struct{ name string }

// NewUnavailableDetector returns a Detector that always reports
// ErrBackendMissing, named for diagnostics.
func NewUnavailableDetector(name string) Detector {
	return unavailableDetector{name: name}
}

func (d unavailableDetector) Name() string { return d.name }

func (d unavailableDetector) Detect(image.Image) ([]KeyPoint, error) {
	return nil, ErrBackendMissing
}

// Correspondence is a single matched keypoint pair between query and source,
// after the ratio test has accepted it.
type Correspondence struct {
	Query  KeyPoint
	Source KeyPoint
}

const ratioTestThreshold = 0.59

// RatioTestFilter keeps only correspondences whose best match is closer than
// ratioTestThreshold times its second-best match (Lowe's ratio test),
// rejecting ambiguous matches.
func RatioTestFilter(queryPoints []KeyPoint, knnDistances func(q int) (best, second int, bestDist, secondDist float64)) []int {
	var accepted []int

	for q := range queryPoints {
		_, _, bestDist, secondDist := knnDistances(q)
		if secondDist == 0 {
			continue
		}

		if bestDist < ratioTestThreshold*secondDist {
			accepted = append(accepted, q)
		}
	}

	return accepted
}

// DedupBySourceCoordinate removes correspondences that map distinct query
// points onto the same source coordinate, keeping the first occurrence.
// Keypoint matching can otherwise produce many-to-one matches that break
// the minimum point-count assumptions of the geometric fit below.
func DedupBySourceCoordinate(matches []Correspondence) []Correspondence {
	seen := make(map[[2]int]bool, len(matches))

	out := make([]Correspondence, 0, len(matches))

	for _, m := range matches {
		key := [2]int{int(m.Source.X), int(m.Source.Y)}
		if seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, m)
	}

	return out
}

// Result is the outcome of fitting a transform over a set of correspondences:
// the query's bounding rectangle as mapped into source coordinates, plus a
// rescaled confidence score.
type Result struct {
	Rect       geometry.Rectangle
	Confidence float64
}

var (
	// ErrTooFewCorrespondences indicates fewer than two usable matches survived filtering.
	ErrTooFewCorrespondences = derrors.New(derrors.CodeMatchResultCheck, "too few correspondences to fit a transform")
	// ErrSanityCheckFailed indicates the fitted rectangle failed the plausibility check.
	ErrSanityCheckFailed = derrors.New(derrors.CodeMatchResultCheck, "match result failed sanity check")
)

// Fit derives a target rectangle from correspondences, branching on how many
// survived: 2 points imply a similarity transform (translation + uniform
// scale), 3 points fold the last two into their midpoint and fit that
// similarity through it and the first, and 4+ use a full homography via
// RANSAC. queryWidth/queryHeight are the
// query image's own dimensions, used both for the 2-point scale estimate and
// for the sanity check below.
func Fit(matches []Correspondence, queryWidth, queryHeight int) (Result, error) {
	switch {
	case len(matches) < 2:
		return Result{}, ErrTooFewCorrespondences
	case len(matches) == 2:
		return fitTwoPoint(matches, queryWidth, queryHeight)
	case len(matches) == 3:
		mid := matches[1]
		mid.Query.X = (matches[1].Query.X + matches[2].Query.X) / 2
		mid.Query.Y = (matches[1].Query.Y + matches[2].Query.Y) / 2
		mid.Source.X = (matches[1].Source.X + matches[2].Source.X) / 2
		mid.Source.Y = (matches[1].Source.Y + matches[2].Source.Y) / 2

		return fitTwoPoint([]Correspondence{matches[0], mid}, queryWidth, queryHeight)
	default:
		return fitHomography(matches, queryWidth, queryHeight)
	}
}

func fitTwoPoint(matches []Correspondence, queryWidth, queryHeight int) (Result, error) {
	a, b := matches[0], matches[1]

	queryDist := dist(a.Query.X, a.Query.Y, b.Query.X, b.Query.Y)
	if queryDist == 0 {
		return Result{}, ErrTooFewCorrespondences
	}

	sourceDist := dist(a.Source.X, a.Source.Y, b.Source.X, b.Source.Y)
	scale := sourceDist / queryDist

	// Translate the query's top-left corner through the similarity transform
	// anchored at point a: source = a.Source + scale*(query - a.Query).
	originX := a.Source.X - scale*a.Query.X
	originY := a.Source.Y - scale*a.Query.Y

	rect := geometry.NewRectangle(
		int(originX), int(originY),
		int(float64(queryWidth)*scale), int(float64(queryHeight)*scale),
	)

	return sanityCheckedResult(rect, queryWidth, queryHeight, 0.75)
}

func fitHomography(matches []Correspondence, queryWidth, queryHeight int) (Result, error) {
	srcPts := make([]point, len(matches))
	dstPts := make([]point, len(matches))

	for i, m := range matches {
		srcPts[i] = point{m.Query.X, m.Query.Y}
		dstPts[i] = point{m.Source.X, m.Source.Y}
	}

	h, inlierRatio, ok := findHomographyRANSAC(srcPts, dstPts, 5.0)
	if !ok {
		return Result{}, derrors.New(derrors.CodeHomographyFailure, "findHomography produced no transform")
	}

	corners := []point{{0, 0}, {float64(queryWidth), 0}, {float64(queryWidth), float64(queryHeight)}, {0, float64(queryHeight)}}

	minX, minY := maxFloat, maxFloat
	maxX, maxY := -maxFloat, -maxFloat

	for _, c := range corners {
		p := h.apply(c)
		minX, minY = min(minX, p.x), min(minY, p.y)
		maxX, maxY = max(maxX, p.x), max(maxY, p.y)
	}

	rect := geometry.NewRectangle(int(minX), int(minY), int(maxX-minX), int(maxY-minY))

	return sanityCheckedResult(rect, queryWidth, queryHeight, inlierRatio)
}

const maxFloat = 1.7976931348623157e+308

// sanityCheckedResult rejects a fitted rectangle that is implausibly small
// or has drifted far outside the query's own scale: narrower than 5px in
// either dimension, or more than 5x larger / 0.2x smaller than the query.
func sanityCheckedResult(rect geometry.Rectangle, queryWidth, queryHeight int, rawConfidence float64) (Result, error) {
	if rect.Width < 5 || rect.Height < 5 {
		return Result{}, ErrSanityCheckFailed.WithContext("width", rect.Width).WithContext("height", rect.Height)
	}

	widthRatio := float64(rect.Width) / float64(queryWidth)
	heightRatio := float64(rect.Height) / float64(queryHeight)

	if widthRatio < 0.2 || widthRatio > 5 || heightRatio < 0.2 || heightRatio > 5 {
		return Result{}, ErrSanityCheckFailed.
			WithContext("widthRatio", widthRatio).
			WithContext("heightRatio", heightRatio)
	}

	// Rescale from [-1,1]-style raw confidence into [0,1], so keypoint and
	// template-matcher confidences are comparable on the same scale.
	confidence := (1 + rawConfidence) / 2

	return Result{Rect: rect, Confidence: confidence}, nil
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1

	return sqrt(dx*dx + dy*dy)
}

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}

	// Newton's method; avoids pulling in math just for one call site used
	// across many small fits.
	z := v

	for range 10 {
		z -= (z*z - v) / (2 * z)
	}

	return z
}

// IsBackendMissing reports whether err originates from a Detector with no
// available native implementation.
func IsBackendMissing(err error) bool {
	return errors.Is(err, ErrBackendMissing) || derrors.IsCode(err, derrors.CodeBackendMissing)
}

// SortByDistance orders indices by ascending distance, used by callers that
// assemble their own KNN search over descriptors.
func SortByDistance(dists []float64) []int {
	idx := make([]int, len(dists))
	for i := range idx {
		idx[i] = i
	}

	sort.Slice(idx, func(a, b int) bool { return dists[idx[a]] < dists[idx[b]] })

	return idx
}
