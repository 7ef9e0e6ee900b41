package winhost

import (
	"context"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/ports"
	"github.com/tailscale/win"
)

// WindowSystem implements ports.WindowSystem over user32 via tailscale/win.
type WindowSystem struct{}

// NewWindowSystem constructs a WindowSystem.
func NewWindowSystem() WindowSystem { return WindowSystem{} }

// ListWindows enumerates every visible top-level window.
func (WindowSystem) ListWindows(ctx context.Context) ([]ports.WindowInfo, error) {
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}

	var windows []ports.WindowInfo

	win.EnumWindows(func(hwnd win.HWND, _ uintptr) uintptr {
		if !win.IsWindowVisible(hwnd) {
			return 1
		}

		windows = append(windows, windowInfoFromHandle(hwnd))

		return 1
	}, 0)

	return windows, nil
}

// ForegroundWindow returns the currently active top-level window.
func (WindowSystem) ForegroundWindow(ctx context.Context) (ports.WindowInfo, error) {
	if err := checkCanceled(ctx); err != nil {
		return ports.WindowInfo{}, err
	}

	hwnd := win.GetForegroundWindow()
	if hwnd == 0 {
		return ports.WindowInfo{}, derrors.New(derrors.CodeBackendCallFailure, "GetForegroundWindow returned no window")
	}

	return windowInfoFromHandle(hwnd), nil
}

// FocusWindow brings handle to the foreground.
func (WindowSystem) FocusWindow(ctx context.Context, handle uintptr) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	if !win.SetForegroundWindow(win.HWND(handle)) {
		return derrors.New(derrors.CodeBackendCallFailure, "SetForegroundWindow failed")
	}

	return nil
}

// WindowBounds resolves handle's current screen rectangle.
func (WindowSystem) WindowBounds(ctx context.Context, handle uintptr) (geometry.Rectangle, error) {
	if err := checkCanceled(ctx); err != nil {
		return geometry.Rectangle{}, err
	}

	var rect win.RECT
	if !win.GetWindowRect(win.HWND(handle), &rect) {
		return geometry.Rectangle{}, derrors.New(derrors.CodeBackendCallFailure, "GetWindowRect failed")
	}

	return geometry.NewRectangle(int(rect.Left), int(rect.Top), int(rect.Right-rect.Left), int(rect.Bottom-rect.Top)), nil
}

// SetWindowState applies a display state ("show", "hide", "maximize",
// "minimize", "restore") to handle.
func (WindowSystem) SetWindowState(ctx context.Context, handle uintptr, state string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	var cmd int32

	switch state {
	case "show":
		cmd = win.SW_SHOW
	case "hide":
		cmd = win.SW_HIDE
	case "maximize":
		cmd = win.SW_MAXIMIZE
	case "minimize":
		cmd = win.SW_MINIMIZE
	case "restore":
		cmd = win.SW_RESTORE
	default:
		return derrors.Newf(derrors.CodeInvalidArgument, "unknown window state %q", state)
	}

	if !win.ShowWindow(win.HWND(handle), cmd) {
		return derrors.Newf(derrors.CodeBackendCallFailure, "ShowWindow(%s) failed", state)
	}

	return nil
}

// MoveWindow repositions and resizes handle to rect.
func (WindowSystem) MoveWindow(ctx context.Context, handle uintptr, rect geometry.Rectangle) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	if !win.MoveWindow(win.HWND(handle), int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height), true) {
		return derrors.New(derrors.CodeBackendCallFailure, "MoveWindow failed")
	}

	return nil
}

func windowInfoFromHandle(hwnd win.HWND) ports.WindowInfo {
	var rect win.RECT

	win.GetWindowRect(hwnd, &rect) //nolint:errcheck // best-effort; a zero rect is still a usable fallback

	var pid uint32

	win.GetWindowThreadProcessId(hwnd, &pid)

	return ports.WindowInfo{
		Handle: uintptr(hwnd),
		Title:  win.GetWindowText(hwnd),
		Class:  win.GetClassName(hwnd),
		Bounds: geometry.NewRectangle(int(rect.Left), int(rect.Top), int(rect.Right-rect.Left), int(rect.Bottom-rect.Top)),
		PID:    pid,
	}
}
