package winhost

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/go-vgo/robotgo"
)

// InputInjector implements ports.InputInjector via robotgo's synthetic
// mouse/keyboard events.
type InputInjector struct{}

// NewInputInjector constructs an InputInjector.
func NewInputInjector() InputInjector { return InputInjector{} }

// MoveMouse moves the cursor to p without clicking.
func (InputInjector) MoveMouse(ctx context.Context, p geometry.Point) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	robotgo.Move(p.X, p.Y)

	return nil
}

// Click moves to p and performs a single click with the named button ("left", "right", "middle").
func (InputInjector) Click(ctx context.Context, p geometry.Point, button string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	robotgo.Move(p.X, p.Y)
	robotgo.Click(normalizeButton(button))

	return nil
}

// DoubleClick moves to p and performs a double click.
func (InputInjector) DoubleClick(ctx context.Context, p geometry.Point, button string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	robotgo.Move(p.X, p.Y)
	robotgo.Click(normalizeButton(button), true)

	return nil
}

// TypeText types a literal string at the current keyboard focus.
func (InputInjector) TypeText(ctx context.Context, text string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	robotgo.TypeStr(text)

	return nil
}

// PasteText sets the system clipboard to text and sends Ctrl+V.
func (InputInjector) PasteText(ctx context.Context, text string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	if err := clipboard.WriteAll(text); err != nil {
		return core.WrapBackendCallFailed(err, "write clipboard")
	}

	return robotgo.KeyTap("v", "ctrl") //nolint:wrapcheck // robotgo already returns a plain error here
}

// KeyPress sends a key combination (e.g. KeyPress(ctx, "enter") or
// KeyPress(ctx, "tab", "alt")).
func (InputInjector) KeyPress(ctx context.Context, keys ...string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	if len(keys) == 0 {
		return derrors.New(derrors.CodeInvalidArgument, "KeyPress requires at least one key")
	}

	if len(keys) == 1 {
		return robotgo.KeyTap(keys[0]) //nolint:wrapcheck // robotgo already returns a plain error here
	}

	args := make([]any, len(keys)-1)
	for i, k := range keys[1:] {
		args[i] = k
	}

	return robotgo.KeyTap(keys[0], args...) //nolint:wrapcheck // as above
}

// Scroll scrolls at p by (deltaX, deltaY) notches.
func (InputInjector) Scroll(ctx context.Context, p geometry.Point, deltaX, deltaY int) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	robotgo.Move(p.X, p.Y)
	robotgo.Scroll(deltaX, deltaY)

	return nil
}

func checkCanceled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return core.WrapContextCanceled(ctx, "windows host call")
	default:
		return nil
	}
}

func normalizeButton(button string) string {
	switch strings.ToLower(button) {
	case "right":
		return "right"
	case "middle", "center":
		return "center"
	default:
		return "left"
	}
}
