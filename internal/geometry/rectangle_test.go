package geometry_test

import (
	"testing"

	"github.com/echo-go/uiauto/internal/geometry"
)

func TestRectangle_Contains(t *testing.T) {
	r := geometry.NewRectangle(10, 10, 20, 20)

	if !r.Contains(geometry.Point{X: 10, Y: 10}) {
		t.Error("expected top-left corner to be contained")
	}

	if r.Contains(geometry.Point{X: 30, Y: 30}) {
		t.Error("bottom-right corner should be exclusive")
	}

	if r.Contains(geometry.Point{X: 5, Y: 5}) {
		t.Error("point outside rectangle should not be contained")
	}
}

func TestRectangle_Overlaps_EdgeTouchingIsNotOverlap(t *testing.T) {
	a := geometry.NewRectangle(0, 0, 10, 10)
	b := geometry.NewRectangle(10, 0, 10, 10)

	if a.Overlaps(b) {
		t.Error("rectangles sharing only an edge should not overlap")
	}

	c := geometry.NewRectangle(5, 5, 10, 10)
	if !a.Overlaps(c) {
		t.Error("expected genuine overlap to be detected")
	}
}

func TestRectangle_Center(t *testing.T) {
	r := geometry.NewRectangle(0, 0, 10, 20)
	c := r.Center()

	if c.X != 5 || c.Y != 10 {
		t.Errorf("Center() = %+v, want (5,10)", c)
	}
}

func TestRectangle_Intersect(t *testing.T) {
	a := geometry.NewRectangle(0, 0, 10, 10)
	b := geometry.NewRectangle(5, 5, 10, 10)

	got := a.Intersect(b)
	want := geometry.NewRectangle(5, 5, 5, 5)

	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	disjoint := geometry.NewRectangle(100, 100, 10, 10)
	if !a.Intersect(disjoint).Empty() {
		t.Error("disjoint rectangles should intersect to an empty rectangle")
	}
}

func TestRectangle_Scale(t *testing.T) {
	r := geometry.NewRectangle(10, 10, 100, 50)

	got := r.Scale(0.5)
	want := geometry.NewRectangle(5, 5, 50, 25)

	if got != want {
		t.Errorf("Scale(0.5) = %+v, want %+v", got, want)
	}
}
