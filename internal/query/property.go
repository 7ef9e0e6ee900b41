package query

import (
	"strings"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/element"
)

// Property resolves a dotted property path against an Element, returning
// the value and its kind ("string", "number", or "bool") for operator
// validation. Unknown paths return an error rather than a zero value, so a
// typo in a criteria key fails loudly instead of silently matching nothing.
func Property(e *element.Element, path string) (value any, kind string, err error) {
	top, rest, hasDot := strings.Cut(path, ".")

	switch top {
	case "id":
		return e.ID(), "string", nil
	case "backend":
		return string(e.Backend()), "string", nil
	case "role":
		return string(e.Role()), "string", nil
	case "name":
		return e.Name(), "string", nil
	case "description":
		return e.Description(), "string", nil
	case "automation_id":
		return e.AutomationID(), "string", nil
	case "class_name":
		return e.ClassName(), "string", nil
	case "text":
		return e.Text(), "string", nil
	case "depth":
		return e.Depth(), "number", nil
	case "index_in_parent":
		return e.IndexInParent(), "number", nil
	case "children_count":
		return e.ChildrenCount(), "number", nil
	case "bounds":
		if !hasDot {
			return nil, "", derrors.Newf(derrors.CodeInvalidArgument, "bounds requires a sub-property (bounds.x, bounds.width, ...)")
		}

		return boundsProperty(e, rest)
	case "attributes":
		if !hasDot {
			return nil, "", derrors.Newf(derrors.CodeInvalidArgument, "attributes requires a sub-property (attributes.visible, ...)")
		}

		return attributeProperty(e, rest)
	default:
		return nil, "", derrors.Newf(derrors.CodeInvalidArgument, "unknown property %q", path)
	}
}

func boundsProperty(e *element.Element, sub string) (any, string, error) {
	b := e.Bounds()

	switch sub {
	case "x":
		return b.X, "number", nil
	case "y":
		return b.Y, "number", nil
	case "width":
		return b.Width, "number", nil
	case "height":
		return b.Height, "number", nil
	default:
		return nil, "", derrors.Newf(derrors.CodeInvalidArgument, "unknown bounds property %q", sub)
	}
}

func attributeProperty(e *element.Element, sub string) (any, string, error) {
	a := e.Attributes()

	switch sub {
	case "visible":
		return a.Visible, "bool", nil
	case "enabled":
		return a.Enabled, "bool", nil
	case "focused":
		return a.Focused, "bool", nil
	case "focusable":
		return a.Focusable, "bool", nil
	case "selected":
		return a.Selected, "bool", nil
	case "selectable":
		return a.Selectable, "bool", nil
	case "checked":
		return a.Checked, "bool", nil
	case "editable":
		return a.Editable, "bool", nil
	case "resizable":
		return a.Resizable, "bool", nil
	case "collapsed":
		return a.Collapsed, "bool", nil
	case "multiselectable":
		return a.Multiselectable, "bool", nil
	case "showing":
		return a.Showing, "bool", nil
	default:
		return nil, "", derrors.Newf(derrors.CodeInvalidArgument, "unknown attribute %q", sub)
	}
}
