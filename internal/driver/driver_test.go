package driver_test

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/echo-go/uiauto/internal/backend/cv"
	"github.com/echo-go/uiauto/internal/driver"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/matching/orchestrator"
	"github.com/echo-go/uiauto/internal/ports"
	"github.com/echo-go/uiauto/internal/query"
)

type fakeCapture struct {
	img  image.Image
	size geometry.Point
}

func (f fakeCapture) CaptureScreen(context.Context) (image.Image, error)              { return f.img, nil }
func (f fakeCapture) CaptureRegion(context.Context, geometry.Rectangle) (image.Image, error) {
	return f.img, nil
}
func (f fakeCapture) ScreenSize() (geometry.Point, error) { return f.size, nil }

type fakeInput struct {
	clicked []geometry.Point
	pasted  string
}

func (f *fakeInput) MoveMouse(context.Context, geometry.Point) error { return nil }
func (f *fakeInput) Click(_ context.Context, p geometry.Point, _ string) error {
	f.clicked = append(f.clicked, p)

	return nil
}
func (f *fakeInput) DoubleClick(context.Context, geometry.Point, string) error { return nil }
func (f *fakeInput) TypeText(context.Context, string) error                   { return nil }
func (f *fakeInput) PasteText(_ context.Context, text string) error {
	f.pasted = text

	return nil
}
func (f *fakeInput) KeyPress(context.Context, ...string) error             { return nil }
func (f *fakeInput) Scroll(context.Context, geometry.Point, int, int) error { return nil }

type fakeWindows struct {
	states map[uintptr]string
	moved  map[uintptr]geometry.Rectangle
}

func (f *fakeWindows) ListWindows(context.Context) ([]ports.WindowInfo, error) { return nil, nil }
func (f *fakeWindows) ForegroundWindow(context.Context) (ports.WindowInfo, error) {
	return ports.WindowInfo{}, nil
}
func (f *fakeWindows) FocusWindow(context.Context, uintptr) error { return nil }
func (f *fakeWindows) WindowBounds(context.Context, uintptr) (geometry.Rectangle, error) {
	return geometry.Rectangle{}, nil
}

func (f *fakeWindows) SetWindowState(_ context.Context, handle uintptr, state string) error {
	if f.states == nil {
		f.states = map[uintptr]string{}
	}

	f.states[handle] = state

	return nil
}

func (f *fakeWindows) MoveWindow(_ context.Context, handle uintptr, rect geometry.Rectangle) error {
	if f.moved == nil {
		f.moved = map[uintptr]geometry.Rectangle{}
	}

	f.moved[handle] = rect

	return nil
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

func TestDriver_FindElement_ViaCVBackend(t *testing.T) {
	screenshot := solid(100, 100, color.RGBA{R: 5, G: 5, B: 5, A: 255})
	for y := 40; y < 50; y++ {
		for x := 40; x < 50; x++ {
			shade := uint8((x + y) * 3 % 256) //nolint:gosec // deterministic test pattern
			screenshot.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}

	reference := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			reference.Set(x, y, screenshot.At(40+x, 40+y))
		}
	}

	capture := fakeCapture{img: screenshot, size: orchestrator.DesignResolution}
	input := &fakeInput{}

	cvBackend := cv.New(capture, []orchestrator.Template{
		{
			Name:       "target",
			Reference:  reference,
			Strategies: []orchestrator.Strategy{orchestrator.StrategyTemplate},
			Threshold:  0.9,
		},
	})

	d, err := driver.New(driver.Options{CV: cvBackend, Input: input})
	if err != nil {
		t.Fatalf("driver.New() error = %v", err)
	}

	found, err := d.FindElement(context.Background(), 0, nil, query.Criteria{"name": "target"}, time.Second)
	if err != nil {
		t.Fatalf("FindElement() error = %v", err)
	}

	if found == nil {
		t.Fatal("FindElement() returned nil")
	}

	if err := d.Click(context.Background(), found, orchestrator.PositionCenter); err != nil {
		t.Fatalf("Click() error = %v", err)
	}

	if len(input.clicked) != 1 {
		t.Fatalf("expected exactly one click, got %d", len(input.clicked))
	}

	if err := d.PasteInto(context.Background(), found, "hello"); err != nil {
		t.Fatalf("PasteInto() error = %v", err)
	}

	if input.pasted != "hello" {
		t.Fatalf("PasteInto() pasted = %q, want %q", input.pasted, "hello")
	}
}

func TestDriver_WindowState(t *testing.T) {
	windows := &fakeWindows{}

	d, err := driver.New(driver.Options{CV: cv.New(fakeCapture{}, nil), Windows: windows})
	if err != nil {
		t.Fatalf("driver.New() error = %v", err)
	}

	if err := d.SetWindowState(context.Background(), 0x1, "maximize"); err != nil {
		t.Fatalf("SetWindowState() error = %v", err)
	}

	if windows.states[0x1] != "maximize" {
		t.Fatalf("SetWindowState() did not reach the window system: got %q", windows.states[0x1])
	}

	rect := geometry.NewRectangle(10, 20, 300, 400)
	if err := d.MoveWindow(context.Background(), 0x1, rect); err != nil {
		t.Fatalf("MoveWindow() error = %v", err)
	}

	if windows.moved[0x1] != rect {
		t.Fatalf("MoveWindow() did not reach the window system: got %v", windows.moved[0x1])
	}
}
