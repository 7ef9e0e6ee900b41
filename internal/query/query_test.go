package query_test

import (
	"testing"

	"github.com/echo-go/uiauto/internal/element"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/echo-go/uiauto/internal/query"
)

func mustElement(t *testing.T, id string, role element.Role, name string, opts ...element.Option) *element.Element {
	t.Helper()

	allOpts := append([]element.Option{element.WithIdentity(element.Identity{Name: name})}, opts...)

	e, err := element.New(id, element.BackendUIA, nil, geometry.NewRectangle(0, 0, 10, 10), role, allOpts...)
	if err != nil {
		t.Fatalf("element.New(%q) error = %v", id, err)
	}

	return e
}

func TestParseCriteriaKey(t *testing.T) {
	cases := map[string]struct {
		property string
		op       query.Expr
	}{
		"name":            {"name", query.ExprEQ},
		"name_like":       {"name", query.ExprLIKE},
		"bounds.width_gt": {"bounds.width", query.ExprGT},
		"role_in":         {"role", query.ExprIN},
		"text_in_like":    {"text", query.ExprINLIKE},
	}

	for key, want := range cases {
		property, op := query.ParseCriteriaKey(key)
		if property != want.property || op != want.op {
			t.Errorf("ParseCriteriaKey(%q) = (%q,%q), want (%q,%q)", key, property, op, want.property, want.op)
		}
	}
}

func TestMatch_SimpleEquality(t *testing.T) {
	e := mustElement(t, "1", element.RoleButton, "Submit")

	ok, err := query.Match(e, nil, query.Criteria{"name": "Submit"}, query.Options{})
	if err != nil || !ok {
		t.Errorf("Match() = (%v,%v), want (true,nil)", ok, err)
	}

	ok, err = query.Match(e, nil, query.Criteria{"name": "submit"}, query.Options{})
	if err != nil || ok {
		t.Errorf("Match() case-sensitive = (%v,%v), want (false,nil)", ok, err)
	}

	ok, err = query.Match(e, nil, query.Criteria{"name": "submit"}, query.Options{IgnoreCase: true})
	if err != nil || !ok {
		t.Errorf("Match() with IgnoreCase = (%v,%v), want (true,nil)", ok, err)
	}
}

func TestMatch_NumericAndLikeOperators(t *testing.T) {
	e := mustElement(t, "1", element.RoleEdit, "username field")

	ok, _ := query.Match(e, nil, query.Criteria{"name_like": "user"}, query.Options{})
	if !ok {
		t.Error("expected name_like to match substring")
	}

	ok, _ = query.Match(e, nil, query.Criteria{"bounds.width_gte": 10}, query.Options{})
	if !ok {
		t.Error("expected bounds.width_gte 10 to match a width-10 element")
	}

	ok, _ = query.Match(e, nil, query.Criteria{"bounds.width_gt": 10}, query.Options{})
	if ok {
		t.Error("expected bounds.width_gt 10 not to match a width-10 element")
	}
}

func TestMatch_AndOrComposition(t *testing.T) {
	e := mustElement(t, "1", element.RoleButton, "OK", element.WithAttributes(element.Attributes{Enabled: true}))

	criteria := query.Criteria{
		"$and": []query.Criteria{
			{"role": "button"},
			{"attributes.enabled": true},
		},
	}

	ok, err := query.Match(e, nil, criteria, query.Options{})
	if err != nil || !ok {
		t.Errorf("$and Match() = (%v,%v), want (true,nil)", ok, err)
	}

	orCriteria := query.Criteria{
		"$or": []query.Criteria{
			{"role": "link"},
			{"role": "button"},
		},
	}

	ok, err = query.Match(e, nil, orCriteria, query.Options{})
	if err != nil || !ok {
		t.Errorf("$or Match() = (%v,%v), want (true,nil)", ok, err)
	}
}

func TestFindAll_ExcludesSelfByDefault(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")
	child := mustElement(t, "child", element.RoleWindow, "Main")
	root.AttachChildren([]*element.Element{child})

	results, err := query.FindAll(root, nil, query.Criteria{"role": "window"}, query.FindOptions{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	if len(results) != 1 || results[0] != child {
		t.Errorf("FindAll() = %v, want only the matching child (include_self defaults to false)", results)
	}
}

func TestFindAll_IncludeSelfTrue(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")

	results, err := query.FindAll(root, nil, query.Criteria{"role": "window"}, query.FindOptions{IncludeSelf: true})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	if len(results) != 1 || results[0] != root {
		t.Errorf("FindAll() with IncludeSelf = %v, want [root]", results)
	}
}

func TestFindAll_ReleasesNonMatchingElements(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")

	releasedCalled := false
	nonMatch, err := element.New("nm", element.BackendUIA, nil, geometry.NewRectangle(0, 0, 10, 10), element.RoleText,
		element.WithIdentity(element.Identity{Name: "irrelevant"}),
		element.WithRelease(func() { releasedCalled = true }),
	)
	if err != nil {
		t.Fatalf("element.New() error = %v", err)
	}

	root.AttachChildren([]*element.Element{nonMatch})

	_, err = query.FindAll(root, nil, query.Criteria{"role": "button"}, query.FindOptions{Release: true})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	if !releasedCalled {
		t.Error("expected the non-matching element to be released")
	}
}

func TestFindAll_DoesNotReleaseAncestorsOfAMatch(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")

	released := false
	pane, err := element.New("pane", element.BackendUIA, nil, geometry.NewRectangle(0, 0, 10, 10), element.RolePane,
		element.WithIdentity(element.Identity{Name: "container"}),
		element.WithRelease(func() { released = true }),
	)
	if err != nil {
		t.Fatalf("element.New() error = %v", err)
	}

	button := mustElement(t, "btn", element.RoleButton, "OK")
	pane.AttachChildren([]*element.Element{button})
	root.AttachChildren([]*element.Element{pane})

	_, err = query.FindAll(root, nil, query.Criteria{"role": "button"}, query.FindOptions{Release: true})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	if released {
		t.Error("pane is an ancestor of a match and should not be released")
	}
}

func TestFindFirst_MaxDepth(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")
	mid := mustElement(t, "mid", element.RolePane, "Mid")
	deep := mustElement(t, "deep", element.RoleButton, "Deep")

	mid.AttachChildren([]*element.Element{deep})
	root.AttachChildren([]*element.Element{mid})

	found, err := query.FindFirst(root, nil, query.Criteria{"role": "button"}, query.FindOptions{MaxDepth: 1})
	if err != nil {
		t.Fatalf("FindFirst() error = %v", err)
	}

	if found != nil {
		t.Error("expected no match within depth 1 of root (button is at depth 2)")
	}

	found, err = query.FindFirst(root, nil, query.Criteria{"role": "button"}, query.FindOptions{MaxDepth: 2})
	if err != nil {
		t.Fatalf("FindFirst() error = %v", err)
	}

	if found != deep {
		t.Errorf("FindFirst() with MaxDepth=2 = %v, want the deep button", found)
	}
}

func TestMatch_EmptyQueryNeverMatches(t *testing.T) {
	e := mustElement(t, "1", element.RoleButton, "OK")

	ok, err := query.Match(e, nil, nil, query.Options{})
	if err != nil || ok {
		t.Errorf("Match() with no filters and no criteria = (%v,%v), want (false,nil)", ok, err)
	}
}

func TestFindAll_EmptyQueryReturnsNone(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")
	child := mustElement(t, "child", element.RoleButton, "OK")
	root.AttachChildren([]*element.Element{child})

	results, err := query.FindAll(root, nil, nil, query.FindOptions{IncludeSelf: true})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	if len(results) != 0 {
		t.Errorf("FindAll() with no filters and no criteria = %v, want []", results)
	}
}

func TestFindFirst_EmptyQueryReturnsNil(t *testing.T) {
	root := mustElement(t, "root", element.RoleWindow, "Main")

	found, err := query.FindFirst(root, nil, nil, query.FindOptions{IncludeSelf: true})
	if err != nil {
		t.Fatalf("FindFirst() error = %v", err)
	}

	if found != nil {
		t.Errorf("FindFirst() with no filters and no criteria = %v, want nil", found)
	}
}

func TestMatch_FilterAloneCanMatch(t *testing.T) {
	e := mustElement(t, "1", element.RoleButton, "OK")

	isButton := func(e *element.Element) bool { return e.Role() == element.RoleButton }

	ok, err := query.Match(e, []query.Predicate{isButton}, nil, query.Options{})
	if err != nil || !ok {
		t.Errorf("Match() with a passing filter and no criteria = (%v,%v), want (true,nil)", ok, err)
	}

	isLink := func(e *element.Element) bool { return e.Role() == element.RoleLink }

	ok, err = query.Match(e, []query.Predicate{isButton, isLink}, nil, query.Options{})
	if err != nil || ok {
		t.Errorf("Match() with a failing filter in the chain = (%v,%v), want (false,nil)", ok, err)
	}
}

func TestMatch_FilterAndCriteriaBothMustPass(t *testing.T) {
	e := mustElement(t, "1", element.RoleButton, "OK")

	alwaysTrue := func(*element.Element) bool { return true }

	ok, err := query.Match(e, []query.Predicate{alwaysTrue}, query.Criteria{"role": "link"}, query.Options{})
	if err != nil || ok {
		t.Errorf("Match() with a passing filter but failing criteria = (%v,%v), want (false,nil)", ok, err)
	}

	ok, err = query.Match(e, []query.Predicate{alwaysTrue}, query.Criteria{"role": "button"}, query.Options{})
	if err != nil || !ok {
		t.Errorf("Match() with a passing filter and passing criteria = (%v,%v), want (true,nil)", ok, err)
	}
}
