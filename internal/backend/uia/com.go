// Package uia implements the Element-tree backend over Microsoft UI
// Automation, driven directly through its COM vtables (CUIAutomation is a
// native, non-dispatch interface; there is no dispatch-friendly shortcut).
package uia

import (
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

// clsidCUIAutomation and iidIUIAutomation identify the UI Automation COM
// client, documented at
// https://learn.microsoft.com/windows/win32/winauto/entry-uiautoclientapi.
var (
	clsidCUIAutomation = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation   = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
)

// UIA control type identifiers, a fixed subset of
// https://learn.microsoft.com/windows/win32/winauto/uiauto-controltype-ids.
const (
	controlTypeButton   = 50000
	controlTypeEdit     = 50004
	controlTypeHyperlink = 50005
	controlTypeList     = 50008
	controlTypeListItem = 50007
	controlTypeMenu     = 50009
	controlTypeMenuItem = 50011
	controlTypeCheckBox = 50002
	controlTypeComboBox = 50003
	controlTypeTab      = 50018
	controlTypeTable    = 50036
	controlTypeTree     = 50023
	controlTypeTreeItem = 50024
	controlTypeToolBar  = 50021
	controlTypeWindow   = 50032
	controlTypePane     = 50033
	controlTypeText     = 50020
	controlTypeGroup    = 50026
	controlTypeImage    = 50006
	controlTypeRadio    = 50013
	controlTypeScrollBar = 50014
	controlTypeSlider   = 50015
)

// propertyID identifies a GetCurrentPropertyValue argument, per
// https://learn.microsoft.com/windows/win32/winauto/uiauto-automation-element-propids.
type propertyID int32

const (
	propName          propertyID = 30005
	propAutomationID  propertyID = 30011
	propClassName     propertyID = 30012
	propControlType   propertyID = 30003
	propIsEnabled     propertyID = 30010
	propHasKeyboardFocus propertyID = 30008
	propIsKeyboardFocusable propertyID = 30009
	propIsOffscreen   propertyID = 30022
	propBoundingRect  propertyID = 30001
	propHelpText      propertyID = 30013
)

// scope matches UIA's TreeScope bitmask.
type scope int32

const (
	scopeElement    scope = 0x1
	scopeChildren   scope = 0x2
	scopeDescendants scope = 0x4
)

// comObject wraps an *ole.IUnknown known to implement a fixed vtable layout,
// exposing raw vtable calls via syscall.SyscallN the way go-ole's own
// internals do for interfaces it has no generated binding for.
type comObject struct {
	unknown *ole.IUnknown
}

func (c comObject) vtable() *[1 << 16]uintptr {
	return (*[1 << 16]uintptr)(unsafe.Pointer(c.unknown.RawVTable))
}

// call invokes the method at vtable slot index with the given arguments,
// always passing the interface pointer itself as the first argument per the
// COM calling convention.
func (c comObject) call(index uintptr, args ...uintptr) (uintptr, error) {
	fullArgs := append([]uintptr{uintptr(unsafe.Pointer(c.unknown))}, args...)

	ret, _, callErr := syscall.SyscallN(c.vtable()[index], fullArgs...)
	if int32(ret) < 0 { //nolint:gosec // HRESULT is a signed 32-bit value by convention
		if callErr != 0 {
			return ret, callErr
		}

		return ret, syscall.Errno(uintptr(int32(ret))) //nolint:gosec // propagate the HRESULT as an errno-shaped value
	}

	return ret, nil
}

// rect mirrors COM's RECT layout (left, top, right, bottom), used to decode
// BoundingRectangle property values.
type rect struct {
	Left, Top, Right, Bottom int32
}
