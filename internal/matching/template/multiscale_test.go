package template_test

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/echo-go/uiauto/internal/matching/template"
)

func solidRGBA(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

func TestFindMultiScale_LocatesScaledQuery(t *testing.T) {
	source := solidRGBA(200, 200, color.RGBA{R: 30, G: 30, B: 30, A: 255})

	for y := 50; y < 90; y++ {
		for x := 60; x < 100; x++ {
			shade := uint8((x + y) % 256) //nolint:gosec // deterministic test pattern
			source.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}

	query := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			sx, sy := 60+x*2, 50+y*2
			query.Set(x, y, source.At(sx, sy))
		}
	}

	opts := template.DefaultMultiScaleOptions()

	match, ok := template.FindMultiScale(context.Background(), source, query, opts)
	if !ok {
		t.Fatal("FindMultiScale() returned ok=false")
	}

	if match.Rect.X < 55 || match.Rect.X > 65 || match.Rect.Y < 45 || match.Rect.Y > 55 {
		t.Errorf("FindMultiScale() located at (%d,%d), want near (60,50)", match.Rect.X, match.Rect.Y)
	}
}
