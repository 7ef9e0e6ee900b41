package jab

import (
	"context"
	"fmt"
	"unicode/utf16"
	"unsafe"

	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/element"
	"github.com/echo-go/uiauto/internal/geometry"
)

// shortStringSize and maxStringSize mirror AccessBridgePackages.h's
// SHORT_STRING_SIZE/MAX_STRING_SIZE, the fixed-width wide-char buffers the
// bridge fills info structs with.
const (
	shortStringSize = 256
	maxStringSize   = 1024
)

// accessibleContextInfo mirrors the bridge's AccessibleContextInfo struct:
// fixed-width name/description/role, bounds, and child/index counts.
type accessibleContextInfo struct {
	Name        [maxStringSize]uint16
	Description [maxStringSize]uint16
	Role        [shortStringSize]uint16
	RoleEnUS    [shortStringSize]uint16
	States      [shortStringSize]uint16
	StatesEnUS  [shortStringSize]uint16

	IndexInParent int32
	ChildrenCount int32

	X, Y, Width, Height int32

	AccessibleComponent bool32
	AccessibleAction    bool32
	AccessibleSelection bool32
	AccessibleText      bool32
	AccessibleValue     bool32
}

// bool32 is JAB's 4-byte boolean wire representation.
type bool32 int32

func (b bool32) bool() bool { return b != 0 }

// Backend builds Element trees by walking JAB accessible context trees.
type Backend struct {
	lib *Library
}

// New wraps an already-loaded Library.
func New(lib *Library) *Backend {
	return &Backend{lib: lib}
}

// nativeHandle is the Handle a jab-backed Element carries.
type nativeHandle struct {
	ctx AccessibleContext
}

// Snapshot builds an Element tree rooted at the Java top-level window
// identified by hwnd, recursing up to maxDepth levels (0 means unlimited).
func (b *Backend) Snapshot(ctx context.Context, hwnd uintptr, maxDepth int) (*element.Element, error) {
	if !b.lib.Loaded() {
		return nil, derrors.New(derrors.CodeBackendMissing, "Java Access Bridge not available")
	}

	root, ok := b.lib.AccessibleContextFromHWND(hwnd)
	if !ok {
		return nil, derrors.New(derrors.CodeTargetNotFound, "window is not a Java Access Bridge window")
	}

	return b.buildElement(ctx, root, 0, maxDepth)
}

func (b *Backend) buildElement(ctx context.Context, ac AccessibleContext, depth, maxDepth int) (*element.Element, error) {
	select {
	case <-ctx.Done():
		return nil, core.WrapContextCanceled(ctx, "jab snapshot")
	default:
	}

	info, ok := b.contextInfo(ac)
	if !ok {
		b.lib.ReleaseJavaObject(ac)

		return nil, derrors.New(derrors.CodeBackendCallFailure, "getAccessibleContextInfo failed")
	}

	name := utf16ToString(info.Name[:])
	role := utf16ToString(info.Role[:])
	states := utf16ToString(info.States[:])

	e, err := element.New(
		jabElementID(ac, depth),
		element.BackendJAB,
		nativeHandle{ctx: ac},
		geometry.NewRectangle(int(info.X), int(info.Y), int(info.Width), int(info.Height)),
		jabRoleToRole(role),
		element.WithIdentity(element.Identity{Name: name, Description: utf16ToString(info.Description[:])}),
		element.WithIndexInParent(int(info.IndexInParent)),
		element.WithAttributes(element.Attributes{
			Visible:    hasState(states, "visible"),
			Showing:    hasState(states, "showing"),
			Enabled:    hasState(states, "enabled"),
			Focused:    hasState(states, "focused"),
			Focusable:  hasState(states, "focusable"),
			Selected:   hasState(states, "selected"),
			Selectable: hasState(states, "selectable"),
			Checked:    hasState(states, "checked"),
			Editable:   hasState(states, "editable"),
		}),
		element.WithRelease(func() { b.lib.ReleaseJavaObject(ac) }),
	)
	if err != nil {
		return nil, err
	}

	if maxDepth != 0 && depth >= maxDepth {
		return e, nil
	}

	children := make([]*element.Element, 0, info.ChildrenCount)

	for i := int32(0); i < info.ChildrenCount; i++ {
		childCtx, ok := b.childContext(ac, i)
		if !ok {
			continue
		}

		childElement, err := b.buildElement(ctx, childCtx, depth+1, maxDepth)
		if err != nil {
			continue
		}

		children = append(children, childElement)
	}

	e.AttachChildren(children)

	return e, nil
}

func (b *Backend) contextInfo(ac AccessibleContext) (accessibleContextInfo, bool) {
	var info accessibleContextInfo

	ret, _, _ := b.lib.procGetAccessibleContextInfo.Call(
		uintptr(ac.VMID), ac.Context, uintptr(unsafe.Pointer(&info)),
	)

	return info, ret != 0
}

func (b *Backend) childContext(ac AccessibleContext, index int32) (AccessibleContext, bool) {
	ret, _, _ := b.lib.procGetAccessibleChildFromContext.Call(uintptr(ac.VMID), ac.Context, uintptr(index))
	if ret == 0 {
		return AccessibleContext{}, false
	}

	return AccessibleContext{VMID: ac.VMID, Context: ret}, true
}

func jabElementID(ac AccessibleContext, depth int) string {
	return fmt.Sprintf("jab-%d-%d-%d", ac.VMID, ac.Context, depth)
}

func utf16ToString(buf []uint16) string {
	n := 0

	for n < len(buf) && buf[n] != 0 {
		n++
	}

	return string(utf16.Decode(buf[:n]))
}
