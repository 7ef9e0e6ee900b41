// Package driver is the top-level entry point: it selects a backend for a
// target window, exposes find_element/find_elements over the resulting
// Element tree, and drives clicks/text input through the configured
// ports.InputInjector.
package driver

import (
	"context"
	"time"

	"github.com/echo-go/uiauto/internal/backend/cv"
	"github.com/echo-go/uiauto/internal/backend/jab"
	"github.com/echo-go/uiauto/internal/backend/uia"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/element"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/matching/orchestrator"
	"github.com/echo-go/uiauto/internal/ports"
	"github.com/echo-go/uiauto/internal/query"
	"github.com/echo-go/uiauto/internal/waiter"
)

// Driver is the single façade callers use: pick a window, snapshot it
// through the right backend, query the resulting tree, and act on what it finds.
type Driver struct {
	uia *uia.Backend
	jab *jab.Backend
	cv  *cv.Backend

	windows ports.WindowSystem
	input   ports.InputInjector

	ignoreCaseDefault bool
	findPollInterval  time.Duration
}

// Options configures a Driver.
type Options struct {
	UIA               *uia.Backend
	JAB               *jab.Backend
	CV                *cv.Backend
	Windows           ports.WindowSystem
	Input             ports.InputInjector
	IgnoreCaseDefault bool
	FindPollInterval  time.Duration
}

// New constructs a Driver. At least one backend must be non-nil.
func New(opts Options) (*Driver, error) {
	if opts.UIA == nil && opts.JAB == nil && opts.CV == nil {
		return nil, derrors.New(derrors.CodeInvalidConfig, "driver requires at least one backend")
	}

	interval := opts.FindPollInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	return &Driver{
		uia: opts.UIA, jab: opts.JAB, cv: opts.CV,
		windows: opts.Windows, input: opts.Input,
		ignoreCaseDefault: opts.IgnoreCaseDefault,
		findPollInterval:  interval,
	}, nil
}

// Snapshot builds an Element tree rooted at hwnd, trying JAB first (when the
// window is Java-accessible), falling back to UIA, and finally to CV if
// neither produced a tree. maxDepth of 0 means unlimited.
func (d *Driver) Snapshot(ctx context.Context, hwnd uintptr, maxDepth int) (*element.Element, error) {
	if d.jab != nil {
		if root, err := d.jab.Snapshot(ctx, hwnd, maxDepth); err == nil {
			return root, nil
		}
	}

	if d.uia != nil {
		if root, err := d.uia.Snapshot(ctx, hwnd, maxDepth); err == nil {
			return root, nil
		}
	}

	if d.cv != nil {
		return d.cv.Snapshot(ctx)
	}

	return nil, derrors.New(derrors.CodeBackendCallFailure, "no backend produced a snapshot for this window")
}

// FindElements runs a query over a freshly-built snapshot of hwnd. filters
// may be nil; criteria alone (or filters alone) is enough to match.
func (d *Driver) FindElements(ctx context.Context, hwnd uintptr, filters []query.Predicate, criteria query.Criteria, opts query.FindOptions) ([]*element.Element, error) {
	root, err := d.Snapshot(ctx, hwnd, 0)
	if err != nil {
		return nil, err
	}

	if !opts.Release {
		opts.Release = true
	}

	return query.FindAll(root, filters, criteria, opts)
}

// FindElement polls Snapshot+FindFirst until a match appears or timeout
// elapses, the standard "wait for an element to show up" operation. filters
// may be nil.
func (d *Driver) FindElement(ctx context.Context, hwnd uintptr, filters []query.Predicate, criteria query.Criteria, timeout time.Duration) (*element.Element, error) {
	opts := query.FindOptions{Options: query.Options{IgnoreCase: d.ignoreCaseDefault}, Release: true}

	return waiter.Loop(ctx, timeout, d.findPollInterval, func(ctx context.Context) (*element.Element, bool, error) {
		root, err := d.Snapshot(ctx, hwnd, 0)
		if err != nil {
			return nil, false, nil //nolint:nilerr // treat a transient snapshot failure as "not found yet"
		}

		found, err := query.FindFirst(root, filters, criteria, opts)
		if err != nil {
			return nil, false, err
		}

		return found, found != nil, nil
	})
}

// Click moves the pointer to target's click point and performs a left
// click. target must not be released.
func (d *Driver) Click(ctx context.Context, target *element.Element, pos orchestrator.Position) error {
	if err := target.CheckReleased(); err != nil {
		return err
	}

	point := orchestrator.ClickPoint(target.Bounds(), pos)

	return d.input.Click(ctx, point, "left")
}

// TypeInto focuses target (by clicking its center) and types text.
func (d *Driver) TypeInto(ctx context.Context, target *element.Element, text string) error {
	if err := target.CheckReleased(); err != nil {
		return err
	}

	if err := d.input.Click(ctx, target.Center(), "left"); err != nil {
		return err
	}

	return d.input.TypeText(ctx, text)
}

// PasteInto focuses target (by clicking its center) and pastes text via the
// clipboard, which is far faster than TypeInto for long strings.
func (d *Driver) PasteInto(ctx context.Context, target *element.Element, text string) error {
	if err := target.CheckReleased(); err != nil {
		return err
	}

	if err := d.input.Click(ctx, target.Center(), "left"); err != nil {
		return err
	}

	return d.input.PasteText(ctx, text)
}

// Windows lists top-level windows through the configured window system.
func (d *Driver) Windows(ctx context.Context) ([]ports.WindowInfo, error) {
	return d.windows.ListWindows(ctx)
}

// WindowBounds resolves the bounds of hwnd as a Rectangle.
func (d *Driver) WindowBounds(ctx context.Context, hwnd uintptr) (geometry.Rectangle, error) {
	return d.windows.WindowBounds(ctx, hwnd)
}

// ForegroundWindow returns the currently active top-level window.
func (d *Driver) ForegroundWindow(ctx context.Context) (ports.WindowInfo, error) {
	return d.windows.ForegroundWindow(ctx)
}

// FocusWindow brings hwnd to the foreground.
func (d *Driver) FocusWindow(ctx context.Context, hwnd uintptr) error {
	return d.windows.FocusWindow(ctx, hwnd)
}

// SetWindowState applies a display state ("show", "hide", "maximize",
// "minimize", "restore") to hwnd.
func (d *Driver) SetWindowState(ctx context.Context, hwnd uintptr, state string) error {
	return d.windows.SetWindowState(ctx, hwnd, state)
}

// MoveWindow repositions and resizes hwnd to rect.
func (d *Driver) MoveWindow(ctx context.Context, hwnd uintptr, rect geometry.Rectangle) error {
	return d.windows.MoveWindow(ctx, hwnd, rect)
}
