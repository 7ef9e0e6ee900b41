// Package winhost implements the ports interfaces against real Windows
// APIs: screen capture and input injection through robotgo, window
// enumeration through tailscale/win's user32 bindings.
package winhost

import (
	"context"
	"image"

	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/go-vgo/robotgo"
)

// ScreenCapture implements ports.ScreenCapture via robotgo's screen grab,
// the same capture path the broader CV-based automation ecosystem this
// runtime draws its dependency stack from already uses.
type ScreenCapture struct{}

// NewScreenCapture constructs a ScreenCapture.
func NewScreenCapture() ScreenCapture { return ScreenCapture{} }

// CaptureScreen grabs the primary display, from (0,0) to the size
// robotgo.GetScreenSize reports.
func (ScreenCapture) CaptureScreen(ctx context.Context) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, core.WrapContextCanceled(ctx, "screen capture")
	default:
	}

	width, height := robotgo.GetScreenSize()

	bitmap := robotgo.CaptureScreen(0, 0, width, height)
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, derrors.New(derrors.CodeBackendCallFailure, "robotgo.CaptureScreen returned no image")
	}

	return img, nil
}

// CaptureRegion grabs the screen cropped to rect.
func (ScreenCapture) CaptureRegion(ctx context.Context, rect geometry.Rectangle) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, core.WrapContextCanceled(ctx, "screen capture")
	default:
	}

	bitmap := robotgo.CaptureScreen(rect.X, rect.Y, rect.Width, rect.Height)
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, derrors.New(derrors.CodeBackendCallFailure, "robotgo.CaptureScreen returned no image")
	}

	return img, nil
}

// ScreenSize returns the primary display's resolution in pixels.
func (ScreenCapture) ScreenSize() (geometry.Point, error) {
	width, height := robotgo.GetScreenSize()

	return geometry.Point{X: width, Y: height}, nil
}
