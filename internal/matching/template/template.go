// Package template implements plain (single-scale) template matching: sweep
// every candidate window, score it with normalized cross-correlation, and
// suppress overlapping detections around each accepted peak.
package template

import (
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/imaging"
	"github.com/echo-go/uiauto/internal/matching/confidence"
)

// Match is a single scored detection: the query's top-left anchor in source
// coordinates, plus its raw NCC confidence score in [-1,1].
type Match struct {
	Rect       geometry.Rectangle
	Confidence float64
}

// ConfidenceFunc scores a candidate window of source anchored at (x, y)
// against query.
type ConfidenceFunc func(x, y int) float64

// GrayConfidence builds a ConfidenceFunc backed by grayscale NCC.
func GrayConfidence(source, query *imaging.Gray) ConfidenceFunc {
	return func(x, y int) float64 {
		return confidence.NCCGray(source, query, x, y)
	}
}

// ColorConfidence builds a ConfidenceFunc backed by HSV-channel-minimum NCC.
func ColorConfidence(source, query *imaging.HSV) ConfidenceFunc {
	return func(x, y int) float64 {
		return confidence.NCCColor(source, query, x, y)
	}
}

// scoreMap evaluates fn at every valid anchor for a query of size
// (queryWidth, queryHeight) within a source of size (sourceWidth, sourceHeight).
func scoreMap(fn ConfidenceFunc, sourceWidth, sourceHeight, queryWidth, queryHeight int) [][]float64 {
	rows := sourceHeight - queryHeight + 1
	cols := sourceWidth - queryWidth + 1

	scores := make([][]float64, max(rows, 0))
	for y := range scores {
		scores[y] = make([]float64, max(cols, 0))
		for x := range scores[y] {
			scores[y][x] = fn(x, y)
		}
	}

	return scores
}

// FindBest returns the single highest-scoring window, or ok=false when the
// query does not fit within the source.
func FindBest(fn ConfidenceFunc, sourceWidth, sourceHeight, queryWidth, queryHeight int) (Match, bool) {
	scores := scoreMap(fn, sourceWidth, sourceHeight, queryWidth, queryHeight)
	if len(scores) == 0 || len(scores[0]) == 0 {
		return Match{}, false
	}

	bestX, bestY, bestScore := 0, 0, -2.0

	for y, row := range scores {
		for x, s := range row {
			if s > bestScore {
				bestScore, bestX, bestY = s, x, y
			}
		}
	}

	return Match{
		Rect:       geometry.NewRectangle(bestX, bestY, queryWidth, queryHeight),
		Confidence: bestScore,
	}, true
}

// FindAll returns every window scoring at or above threshold, suppressing
// overlapping detections by zeroing a query-sized square centered on each
// accepted peak before searching for the next one (non-maximum suppression).
func FindAll(
	fn ConfidenceFunc,
	sourceWidth, sourceHeight, queryWidth, queryHeight int,
	threshold float64,
	maxResults int,
) []Match {
	scores := scoreMap(fn, sourceWidth, sourceHeight, queryWidth, queryHeight)
	if len(scores) == 0 || len(scores[0]) == 0 {
		return nil
	}

	var results []Match

	for maxResults <= 0 || len(results) < maxResults {
		bestX, bestY, bestScore := 0, 0, -2.0

		for y, row := range scores {
			for x, s := range row {
				if s > bestScore {
					bestScore, bestX, bestY = s, x, y
				}
			}
		}

		if bestScore < threshold {
			break
		}

		results = append(results, Match{
			Rect:       geometry.NewRectangle(bestX, bestY, queryWidth, queryHeight),
			Confidence: bestScore,
		})

		suppress(scores, bestX, bestY, queryWidth, queryHeight)
	}

	return results
}

// suppress zeroes out a query-sized square centered on (x, y) so a later
// scan does not re-detect the same physical object at a neighboring anchor.
func suppress(scores [][]float64, x, y, queryWidth, queryHeight int) {
	halfW, halfH := queryWidth/2, queryHeight/2

	minY := max(0, y-halfH)
	maxY := min(len(scores)-1, y+halfH)

	for yy := minY; yy <= maxY; yy++ {
		minX := max(0, x-halfW)
		maxX := min(len(scores[yy])-1, x+halfW)

		for xx := minX; xx <= maxX; xx++ {
			scores[yy][xx] = -2.0
		}
	}
}
