package jab

import (
	"unsafe"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

// accessibleActionsToDo mirrors the bridge's AccessibleActionsToDo struct: a
// count followed by up to maxActionsPerCall action names.
const maxActionsPerCall = 32

type accessibleActionInfo struct {
	Name [shortStringSize]uint16
}

type accessibleActionsToDo struct {
	Count   int32
	Actions [maxActionsPerCall]accessibleActionInfo
}

// PerformAction invokes a named accessible action (e.g. "click", "toggle")
// on ctx.
func (b *Backend) PerformAction(ctx AccessibleContext, actionName string) error {
	if !b.lib.Loaded() {
		return derrors.New(derrors.CodeBackendMissing, "Java Access Bridge not available")
	}

	var actions accessibleActionsToDo
	actions.Count = 1
	copy(actions.Actions[0].Name[:], utf16Encode(actionName))

	var failedIndex int32

	ret, _, _ := b.lib.procDoAccessibleActions.Call(
		uintptr(ctx.VMID), ctx.Context,
		uintptr(unsafe.Pointer(&actions)),
		uintptr(unsafe.Pointer(&failedIndex)),
	)

	if ret == 0 {
		return derrors.Newf(derrors.CodeBackendCallFailure, "doAccessibleActions(%q) failed at index %d", actionName, failedIndex)
	}

	return nil
}

// SetText replaces ctx's text content, for elements whose AccessibleText
// interface is writable.
func (b *Backend) SetText(ctx AccessibleContext, text string) error {
	if !b.lib.Loaded() {
		return derrors.New(derrors.CodeBackendMissing, "Java Access Bridge not available")
	}

	textPtr := utf16Encode(text)

	ret, _, _ := b.lib.procSetTextContents.Call(
		uintptr(ctx.VMID), ctx.Context, uintptr(unsafe.Pointer(&textPtr[0])),
	)

	if ret == 0 {
		return derrors.New(derrors.CodeBackendCallFailure, "setTextContents failed")
	}

	return nil
}

// ListActions returns the accessible action names ctx currently supports.
func (b *Backend) ListActions(ctx AccessibleContext) []string {
	if !b.lib.Loaded() {
		return nil
	}

	var actions accessibleActionsToDo

	ret, _, _ := b.lib.procGetAccessibleActions.Call(
		uintptr(ctx.VMID), ctx.Context, uintptr(unsafe.Pointer(&actions)),
	)

	if ret == 0 {
		return nil
	}

	names := make([]string, 0, actions.Count)
	for i := int32(0); i < actions.Count && i < maxActionsPerCall; i++ {
		names = append(names, utf16ToString(actions.Actions[i].Name[:]))
	}

	return names
}

// Parent resolves ctx's accessible parent, or ok=false at the tree root.
func (b *Backend) Parent(ctx AccessibleContext) (AccessibleContext, bool) {
	if !b.lib.Loaded() {
		return AccessibleContext{}, false
	}

	ret, _, _ := b.lib.procGetAccessibleParentFromContext.Call(uintptr(ctx.VMID), ctx.Context)
	if ret == 0 {
		return AccessibleContext{}, false
	}

	return AccessibleContext{VMID: ctx.VMID, Context: ret}, true
}

func utf16Encode(s string) []uint16 {
	out := make([]uint16, 0, len(s)+1)

	for _, r := range s {
		if r > 0xFFFF {
			r = '?'
		}

		out = append(out, uint16(r)) //nolint:gosec // BMP-range runes fit uint16 by construction above
	}

	return append(out, 0)
}
