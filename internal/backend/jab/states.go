package jab

import (
	"strings"

	"github.com/echo-go/uiauto/internal/element"
)

// hasState reports whether a JAB states string (comma-separated tokens like
// "enabled,visible,showing,focusable") contains name.
func hasState(states, name string) bool {
	for _, token := range strings.Split(states, ",") {
		if strings.EqualFold(strings.TrimSpace(token), name) {
			return true
		}
	}

	return false
}

// jabRoleToRole normalizes a JAB accessible role string (e.g. "push button",
// "text", "table") into the shared Role vocabulary.
func jabRoleToRole(role string) element.Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "push button":
		return element.RoleButton
	case "hyperlink":
		return element.RoleLink
	case "text", "label":
		return element.RoleText
	case "edit":
		return element.RoleEdit
	case "check box":
		return element.RoleCheckBox
	case "radio button":
		return element.RoleRadio
	case "combo box":
		return element.RoleComboBox
	case "list":
		return element.RoleList
	case "list item":
		return element.RoleListItem
	case "menu":
		return element.RoleMenu
	case "menu item":
		return element.RoleMenuItem
	case "page tab":
		return element.RoleTab
	case "table":
		return element.RoleTable
	case "tree":
		return element.RoleTree
	case "panel":
		return element.RolePane
	case "frame", "window":
		return element.RoleWindow
	case "scroll bar":
		return element.RoleScrollBar
	case "slider":
		return element.RoleSlider
	default:
		return element.RoleUnknown
	}
}
