// Package ports declares the narrow interfaces each backend and the driver
// depend on, so the Windows-specific implementations in internal/winhost
// can be swapped for fakes in tests without touching backend logic.
package ports

import (
	"context"
	"image"

	"github.com/echo-go/uiauto/internal/geometry"
)

// ScreenCapture grabs pixels off one or more monitors for the CV backend.
type ScreenCapture interface {
	// CaptureScreen returns a screenshot of the full screen.
	CaptureScreen(ctx context.Context) (image.Image, error)
	// CaptureRegion returns a screenshot cropped to rect.
	CaptureRegion(ctx context.Context, rect geometry.Rectangle) (image.Image, error)
	// ScreenSize returns the screen's width and height in pixels.
	ScreenSize() (geometry.Point, error)
}

// WindowInfo describes a top-level window as reported by the window system.
type WindowInfo struct {
	Handle uintptr
	Title  string
	Class  string
	Bounds geometry.Rectangle
	PID    uint32
}

// WindowSystem enumerates and manipulates top-level windows.
type WindowSystem interface {
	ListWindows(ctx context.Context) ([]WindowInfo, error)
	ForegroundWindow(ctx context.Context) (WindowInfo, error)
	FocusWindow(ctx context.Context, handle uintptr) error
	WindowBounds(ctx context.Context, handle uintptr) (geometry.Rectangle, error)
	// SetWindowState applies a display state ("show", "hide", "maximize",
	// "minimize", "restore") to handle.
	SetWindowState(ctx context.Context, handle uintptr, state string) error
	// MoveWindow repositions and resizes handle to rect.
	MoveWindow(ctx context.Context, handle uintptr, rect geometry.Rectangle) error
}

// InputInjector drives synthetic mouse and keyboard input.
type InputInjector interface {
	MoveMouse(ctx context.Context, p geometry.Point) error
	Click(ctx context.Context, p geometry.Point, button string) error
	DoubleClick(ctx context.Context, p geometry.Point, button string) error
	TypeText(ctx context.Context, text string) error
	// PasteText sets the system clipboard to text and sends Ctrl+V, which is
	// far faster than TypeText for long strings.
	PasteText(ctx context.Context, text string) error
	KeyPress(ctx context.Context, keys ...string) error
	Scroll(ctx context.Context, p geometry.Point, deltaX, deltaY int) error
}

// JABLibrary describes the native WindowsAccessBridge DLL surface as
// (vmid, accessibleContext) handle discovery and release. No type in the
// module implements it: jab.Library passes jab.AccessibleContext values
// instead, and the JAB backend depends on *jab.Library directly.
type JABLibrary interface {
	// Loaded reports whether the access bridge DLL was successfully bound.
	Loaded() bool
	// IsJavaWindow reports whether a top-level window handle belongs to a
	// Java Access Bridge-enabled process.
	IsJavaWindow(hwnd uintptr) bool
	// AccessibleContextFromHWND resolves the root accessible context for a
	// Java top-level window.
	AccessibleContextFromHWND(hwnd uintptr) (vmID int32, ac uintptr, ok bool)
	// ReleaseJavaObject releases a native (vmid, ac) reference.
	ReleaseJavaObject(vmID int32, ac uintptr)
}
