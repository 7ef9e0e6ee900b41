package uia

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/echo-go/uiauto/internal/core"
	"github.com/echo-go/uiauto/internal/element"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/go-ole/go-ole"
)

// Backend builds Element trees from the Microsoft UI Automation COM client.
// It owns exactly one IUIAutomation instance, created in New and reused
// until Close, since CoCreateInstance of CUIAutomation is expensive.
type Backend struct {
	automation comObject
}

// vtable slot indices for the subset of IUIAutomation and
// IUIAutomationElement this backend calls, in IDL declaration order.
const (
	slotElementFromHandle    = 3
	slotCreateTrueCondition  = 18
	slotElementGetCurrentPropertyValue = 9
	slotElementFindAll       = 13
	slotElementGetCurrentPattern = 7 //nolint:unused // reserved for invoke-pattern support
	slotElementRelease       = 2
)

// New creates a Backend, instantiating the shared IUIAutomation COM object.
// The caller must have already called ole.CoInitialize on the current
// thread.
func New() (*Backend, error) {
	unknown, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "create IUIAutomation instance")
	}

	return &Backend{automation: comObject{unknown: unknown}}, nil
}

// Close releases the shared IUIAutomation COM reference.
func (b *Backend) Close() {
	if b.automation.unknown != nil {
		b.automation.unknown.Release()
	}
}

// nativeHandle is the Handle a uia-backed Element carries: the raw
// IUIAutomationElement COM reference, kept alive until Release().
type nativeHandle struct {
	obj comObject
}

// Snapshot builds an Element tree rooted at the top-level window identified
// by hwnd, recursing up to maxDepth levels (0 means unlimited).
func (b *Backend) Snapshot(ctx context.Context, hwnd uintptr, maxDepth int) (*element.Element, error) {
	ret, err := b.automation.call(slotElementFromHandle, uintptr(hwnd), 0)
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "ElementFromHandle")
	}

	rootObj := comObject{unknown: (*ole.IUnknown)(unsafe.Pointer(ret))}

	return b.buildElement(ctx, rootObj, nil, 0, maxDepth)
}

func (b *Backend) buildElement(ctx context.Context, obj comObject, parent *element.Element, depth, maxDepth int) (*element.Element, error) {
	select {
	case <-ctx.Done():
		return nil, core.WrapContextCanceled(ctx, "uia snapshot")
	default:
	}

	name := b.stringProperty(obj, propName)
	automationID := b.stringProperty(obj, propAutomationID)
	className := b.stringProperty(obj, propClassName)
	controlType := b.intProperty(obj, propControlType)
	bounds := b.rectProperty(obj)

	e, err := element.New(
		automationIDOrFallback(automationID, name, depth),
		element.BackendUIA,
		nativeHandle{obj: obj},
		bounds,
		controlTypeToRole(controlType),
		element.WithIdentity(element.Identity{Name: name, AutomationID: automationID, ClassName: className}),
		element.WithAttributes(element.Attributes{
			Enabled:   b.boolProperty(obj, propIsEnabled),
			Focused:   b.boolProperty(obj, propHasKeyboardFocus),
			Focusable: b.boolProperty(obj, propIsKeyboardFocusable),
			Visible:   !b.boolProperty(obj, propIsOffscreen),
			Showing:   !b.boolProperty(obj, propIsOffscreen),
		}),
		element.WithRelease(func() { obj.unknown.Release() }),
	)
	if err != nil {
		return nil, err
	}

	if maxDepth != 0 && depth >= maxDepth {
		return e, nil
	}

	children, err := b.children(obj)
	if err != nil {
		return e, nil //nolint:nilerr // a child enumeration failure should not sink the whole snapshot
	}

	built := make([]*element.Element, 0, len(children))

	for _, child := range children {
		childElement, err := b.buildElement(ctx, child, e, depth+1, maxDepth)
		if err != nil {
			continue
		}

		built = append(built, childElement)
	}

	e.AttachChildren(built)

	return e, nil
}

func (b *Backend) children(obj comObject) ([]comObject, error) {
	condRet, err := b.automation.call(slotCreateTrueCondition)
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "CreateTrueCondition")
	}

	cond := comObject{unknown: (*ole.IUnknown)(unsafe.Pointer(condRet))}
	defer cond.unknown.Release()

	arrRet, err := obj.call(slotElementFindAll, uintptr(scopeChildren), uintptr(unsafe.Pointer(cond.unknown)), 0)
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "FindAll")
	}

	return elementArrayToSlice(arrRet), nil
}

// elementArrayToSlice decodes an IUIAutomationElementArray's Length/GetElement
// pair into individual comObjects. It releases the array itself once every
// element has been extracted.
func elementArrayToSlice(arrPtr uintptr) []comObject {
	if arrPtr == 0 {
		return nil
	}

	arr := comObject{unknown: (*ole.IUnknown)(unsafe.Pointer(arrPtr))}
	defer arr.unknown.Release()

	const slotGetLength = 7
	const slotGetElement = 8

	lengthRet, err := arr.call(slotGetLength)
	if err != nil {
		return nil
	}

	length := int32(lengthRet) //nolint:gosec // UIA array lengths are small and non-negative in practice

	out := make([]comObject, 0, length)

	for i := int32(0); i < length; i++ {
		elemRet, err := arr.call(slotGetElement, uintptr(i))
		if err != nil || elemRet == 0 {
			continue
		}

		out = append(out, comObject{unknown: (*ole.IUnknown)(unsafe.Pointer(elemRet))})
	}

	return out
}

func (b *Backend) stringProperty(obj comObject, id propertyID) string {
	ret, err := obj.call(slotElementGetCurrentPropertyValue, uintptr(id))
	if err != nil || ret == 0 {
		return ""
	}

	return ole.BstrToString(*(*uint16)(unsafe.Pointer(ret)))
}

func (b *Backend) intProperty(obj comObject, id propertyID) int32 {
	ret, err := obj.call(slotElementGetCurrentPropertyValue, uintptr(id))
	if err != nil {
		return 0
	}

	return int32(ret) //nolint:gosec // UIA property VARIANTs for control type are small integers
}

func (b *Backend) boolProperty(obj comObject, id propertyID) bool {
	ret, err := obj.call(slotElementGetCurrentPropertyValue, uintptr(id))

	return err == nil && ret != 0
}

func (b *Backend) rectProperty(obj comObject) geometry.Rectangle {
	ret, err := obj.call(slotElementGetCurrentPropertyValue, uintptr(propBoundingRect))
	if err != nil || ret == 0 {
		return geometry.Rectangle{}
	}

	r := (*rect)(unsafe.Pointer(ret))

	return geometry.NewRectangle(int(r.Left), int(r.Top), int(r.Right-r.Left), int(r.Bottom-r.Top))
}

func automationIDOrFallback(automationID, name string, depth int) string {
	if automationID != "" {
		return automationID
	}

	if name != "" {
		return name
	}

	return fmt.Sprintf("uia-%d", depth)
}

func controlTypeToRole(controlType int32) element.Role {
	switch controlType {
	case controlTypeButton:
		return element.RoleButton
	case controlTypeHyperlink:
		return element.RoleLink
	case controlTypeEdit:
		return element.RoleEdit
	case controlTypeCheckBox:
		return element.RoleCheckBox
	case controlTypeRadio:
		return element.RoleRadio
	case controlTypeComboBox:
		return element.RoleComboBox
	case controlTypeList:
		return element.RoleList
	case controlTypeListItem:
		return element.RoleListItem
	case controlTypeMenu:
		return element.RoleMenu
	case controlTypeMenuItem:
		return element.RoleMenuItem
	case controlTypeTab:
		return element.RoleTab
	case controlTypeTable:
		return element.RoleTable
	case controlTypeTree:
		return element.RoleTree
	case controlTypeTreeItem:
		return element.RoleTreeItem
	case controlTypeToolBar:
		return element.RoleToolBar
	case controlTypeWindow:
		return element.RoleWindow
	case controlTypePane:
		return element.RolePane
	case controlTypeText:
		return element.RoleText
	case controlTypeGroup:
		return element.RoleGroup
	case controlTypeImage:
		return element.RoleImage
	case controlTypeScrollBar:
		return element.RoleScrollBar
	case controlTypeSlider:
		return element.RoleSlider
	default:
		return element.RoleUnknown
	}
}
