package element_test

import (
	"testing"

	"github.com/echo-go/uiauto/internal/element"
	"github.com/echo-go/uiauto/internal/geometry"
)

func TestNew_RejectsEmptyIDAndBounds(t *testing.T) {
	_, err := element.New("", element.BackendCV, nil, geometry.NewRectangle(0, 0, 10, 10), element.RoleButton)
	if err == nil {
		t.Error("New() with empty id should error")
	}

	_, err = element.New("id", element.BackendCV, nil, geometry.Rectangle{}, element.RoleButton)
	if err == nil {
		t.Error("New() with zero bounds should error")
	}
}

func TestElement_Accessors(t *testing.T) {
	bounds := geometry.NewRectangle(10, 20, 100, 50)

	e, err := element.New("btn-1", element.BackendUIA, nil, bounds, element.RoleButton,
		element.WithIdentity(element.Identity{Name: "OK", AutomationID: "okButton"}),
		element.WithAttributes(element.Attributes{Visible: true, Enabled: true}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if e.ID() != "btn-1" {
		t.Errorf("ID() = %q, want btn-1", e.ID())
	}

	if e.Role() != element.RoleButton {
		t.Errorf("Role() = %q, want button", e.Role())
	}

	if e.Name() != "OK" || e.AutomationID() != "okButton" {
		t.Errorf("identity mismatch: name=%q automationID=%q", e.Name(), e.AutomationID())
	}

	if !e.IsVisible() || !e.IsEnabled() {
		t.Error("expected Visible and Enabled to be true")
	}

	center := e.Center()
	if center.X != 60 || center.Y != 45 {
		t.Errorf("Center() = %+v, want (60,45)", center)
	}
}

func TestElement_Immutability(t *testing.T) {
	bounds := geometry.NewRectangle(0, 0, 10, 10)

	e, err := element.New("e1", element.BackendCV, nil, bounds, element.RoleCV)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := e.Bounds()
	got.X = 999
	got.Width = 1

	if e.Bounds().X != 0 || e.Bounds().Width != 10 {
		t.Error("mutating a returned Bounds() leaked back into the element")
	}
}

func TestElement_Overlaps_EdgeTouchingIsNotOverlap(t *testing.T) {
	a, _ := element.New("a", element.BackendCV, nil, geometry.NewRectangle(0, 0, 10, 10), element.RoleCV)
	b, _ := element.New("b", element.BackendCV, nil, geometry.NewRectangle(10, 0, 10, 10), element.RoleCV)

	if a.Overlaps(b) {
		t.Error("elements touching only at an edge should not overlap")
	}
}

func TestElement_AttachChildren_SetsLineageAndDepth(t *testing.T) {
	root, _ := element.New("root", element.BackendUIA, nil, geometry.NewRectangle(0, 0, 100, 100), element.RoleWindow)
	child0, _ := element.New("c0", element.BackendUIA, nil, geometry.NewRectangle(0, 0, 10, 10), element.RoleButton)
	child1, _ := element.New("c1", element.BackendUIA, nil, geometry.NewRectangle(10, 0, 10, 10), element.RoleButton)

	root.AttachChildren([]*element.Element{child0, child1})

	if root.ChildrenCount() != 2 {
		t.Fatalf("ChildrenCount() = %d, want 2", root.ChildrenCount())
	}

	if child0.Depth() != 1 || child0.Parent() != root {
		t.Error("child0 depth/parent not wired correctly")
	}

	if child0.Next() != child1 || child1.Previous() != child0 {
		t.Error("sibling pointers not wired correctly")
	}

	if child1.IndexInParent() != 1 {
		t.Errorf("child1.IndexInParent() = %d, want 1", child1.IndexInParent())
	}
}

func TestElement_Release_IsIdempotent(t *testing.T) {
	calls := 0

	e, err := element.New("e1", element.BackendJAB, nil, geometry.NewRectangle(0, 0, 10, 10), element.RoleButton,
		element.WithRelease(func() { calls++ }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	e.Release()
	e.Release()
	e.Release()

	if calls != 1 {
		t.Errorf("Release() invoked cleanup %d times, want 1", calls)
	}

	if !e.Released() {
		t.Error("Released() should report true after Release()")
	}

	if err := e.CheckReleased(); err == nil {
		t.Error("CheckReleased() should error after Release()")
	}
}
