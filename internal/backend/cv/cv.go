// Package cv implements the image-matching fallback backend: instead of
// walking a live accessibility tree, it matches configured reference
// templates against a live screenshot and exposes each match as a
// single-level Element.
package cv

import (
	"context"
	"fmt"

	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/element"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/matching/orchestrator"
	"github.com/echo-go/uiauto/internal/ports"
)

// Backend matches a fixed set of named reference templates against live
// screenshots from a ports.ScreenCapture.
type Backend struct {
	capture   ports.ScreenCapture
	templates map[string]orchestrator.Template
}

// New creates a Backend over the given screen capture source and the
// initial set of named templates (keyed by Template.Name).
func New(capture ports.ScreenCapture, templates []orchestrator.Template) *Backend {
	byName := make(map[string]orchestrator.Template, len(templates))
	for _, t := range templates {
		byName[t.Name] = t
	}

	return &Backend{capture: capture, templates: byName}
}

// RegisterTemplate adds or replaces a named template at runtime.
func (b *Backend) RegisterTemplate(t orchestrator.Template) {
	b.templates[t.Name] = t
}

// Snapshot matches every registered template against a single, freshly
// captured screenshot, returning one synthetic root element whose children
// are the matches found above each template's threshold.
func (b *Backend) Snapshot(ctx context.Context) (*element.Element, error) {
	screenshot, err := b.capture.CaptureScreen(ctx)
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "capture screen")
	}

	screenSize, err := b.capture.ScreenSize()
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "read screen size")
	}

	bounds := screenshot.Bounds()
	root, err := element.New(
		"cv-root",
		element.BackendCV,
		nil,
		geometry.NewRectangle(0, 0, bounds.Dx(), bounds.Dy()),
		element.RolePane,
		element.WithAttributes(element.Attributes{Visible: true, Showing: true}),
	)
	if err != nil {
		return nil, err
	}

	var children []*element.Element

	for name, tmpl := range b.templates {
		found, err := orchestrator.Match(ctx, tmpl, screenshot, screenSize)
		if err != nil {
			continue // below threshold or no strategy matched; not an error at the tree level
		}

		child, err := element.New(
			fmt.Sprintf("cv-%s", name),
			element.BackendCV,
			found.Rect,
			found.Rect,
			element.RoleCV,
			element.WithIdentity(element.Identity{Name: name}),
			element.WithAttributes(element.Attributes{Visible: true, Showing: true}),
		)
		if err != nil {
			continue
		}

		children = append(children, child)
	}

	root.AttachChildren(children)

	return root, nil
}

// MatchOne runs a single named template against a fresh screenshot and
// returns its resolved element, without building a full snapshot. The
// driver's FindElement does not call it; it goes through Snapshot.
func (b *Backend) MatchOne(ctx context.Context, name string) (*element.Element, error) {
	tmpl, ok := b.templates[name]
	if !ok {
		return nil, derrors.Newf(derrors.CodeInvalidArgument, "no registered cv template named %q", name)
	}

	screenshot, err := b.capture.CaptureScreen(ctx)
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "capture screen")
	}

	screenSize, err := b.capture.ScreenSize()
	if err != nil {
		return nil, core.WrapBackendCallFailed(err, "read screen size")
	}

	found, err := orchestrator.Match(ctx, tmpl, screenshot, screenSize)
	if err != nil {
		return nil, err
	}

	return element.New(
		fmt.Sprintf("cv-%s", name),
		element.BackendCV,
		found.Rect,
		found.Rect,
		element.RoleCV,
		element.WithIdentity(element.Identity{Name: name}),
		element.WithAttributes(element.Attributes{Visible: true, Showing: true}),
	)
}
