package query

import (
	"fmt"
	"regexp"
	"strings"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/element"
)

// Criteria is a predicate tree: ordinary keys are "propertyKey": value
// entries (parsed via ParseCriteriaKey), and the reserved keys "$and"/"$or"
// each hold a []Criteria to combine sub-predicates. An empty Criteria
// matches every element.
type Criteria map[string]any

// Options configures a single Match/traversal call.
type Options struct {
	// IgnoreCase folds string comparisons (and string values nested inside
	// $in lists) to lower-case before comparing, recursively through $and/$or groups.
	IgnoreCase bool
}

// Predicate is a caller-supplied filter function evaluated directly against
// an element, alongside (and before) the declarative Criteria rules.
type Predicate func(*element.Element) bool

// Match reports whether e satisfies every filter in filters, in order, and
// then criteria, under opts. An empty query (no filters and no criteria)
// never matches — this is an explicit invariant, not an omission.
func Match(e *element.Element, filters []Predicate, criteria Criteria, opts Options) (bool, error) {
	if len(filters) == 0 && len(criteria) == 0 {
		return false, nil
	}

	for _, f := range filters {
		if !f(e) {
			return false, nil
		}
	}

	return matchCriteria(e, criteria, opts)
}

// matchCriteria evaluates a declarative Criteria tree with no Predicate
// filters and no "empty query never matches" short-circuit: an empty
// Criteria here vacuously matches, which is what a $and/$or sub-group with
// no further constraints must do.
func matchCriteria(e *element.Element, criteria Criteria, opts Options) (bool, error) {
	if len(criteria) == 0 {
		return true, nil
	}

	if sub, ok := criteria["$and"]; ok {
		groups, err := asCriteriaList(sub)
		if err != nil {
			return false, err
		}

		for _, g := range groups {
			ok, err := matchCriteria(e, g, opts)
			if err != nil || !ok {
				return false, err
			}
		}
	}

	if sub, ok := criteria["$or"]; ok {
		groups, err := asCriteriaList(sub)
		if err != nil {
			return false, err
		}

		matched := false

		for _, g := range groups {
			ok, err := matchCriteria(e, g, opts)
			if err != nil {
				return false, err
			}

			if ok {
				matched = true

				break
			}
		}

		if !matched {
			return false, nil
		}
	}

	for key, want := range criteria {
		if key == "$and" || key == "$or" {
			continue
		}

		property, op := ParseCriteriaKey(key)

		ok, err := evalPredicate(e, property, op, want, opts)
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func asCriteriaList(v any) ([]Criteria, error) {
	list, ok := v.([]Criteria)
	if !ok {
		return nil, derrors.New(derrors.CodeInvalidArgument, "$and/$or value must be a []Criteria")
	}

	return list, nil
}

func evalPredicate(e *element.Element, property string, op Expr, want any, opts Options) (bool, error) {
	got, kind, err := Property(e, property)
	if err != nil {
		return false, err
	}

	if err := ValidateOperator(op, kind); err != nil {
		return false, err
	}

	switch kind {
	case "string":
		return evalString(fmt.Sprint(got), op, want, opts.IgnoreCase)
	case "number":
		return evalNumber(got, op, want)
	case "bool":
		return evalBool(got.(bool), op, want) //nolint:errcheck // Property guarantees bool kind returns a bool
	default:
		return false, derrors.Newf(derrors.CodeInvalidArgument, "unsupported kind %q", kind)
	}
}

func fold(s string, ignoreCase bool) string {
	if ignoreCase {
		return strings.ToLower(s)
	}

	return s
}

func evalString(got string, op Expr, want any, ignoreCase bool) (bool, error) {
	switch op {
	case ExprNULL:
		return got == "" == toBool(want), nil
	case ExprEQ:
		w, _ := want.(string) //nolint:errcheck // non-string comparisons simply fail to match
		return fold(got, ignoreCase) == fold(w, ignoreCase), nil
	case ExprNOT:
		w, _ := want.(string) //nolint:errcheck // as above
		return fold(got, ignoreCase) != fold(w, ignoreCase), nil
	case ExprLIKE:
		w, _ := want.(string) //nolint:errcheck // as above
		return strings.Contains(fold(got, ignoreCase), fold(w, ignoreCase)), nil
	case ExprREGEX:
		w, _ := want.(string) //nolint:errcheck // as above
		re, err := regexp.Compile(w)
		if err != nil {
			return false, derrors.Wrap(err, derrors.CodeInvalidArgument, "invalid regex in criteria")
		}

		return re.MatchString(got), nil
	case ExprIN:
		return stringIn(got, want, ignoreCase, false)
	case ExprINLIKE:
		return stringIn(got, want, ignoreCase, true)
	default:
		return false, derrors.Newf(derrors.CodeInvalidArgument, "operator %q not valid for string property", op)
	}
}

func stringIn(got string, want any, ignoreCase, like bool) (bool, error) {
	list, ok := want.([]string)
	if !ok {
		return false, derrors.New(derrors.CodeInvalidArgument, "in/in_like value must be a []string")
	}

	gotFolded := fold(got, ignoreCase)

	for _, candidate := range list {
		candidateFolded := fold(candidate, ignoreCase)
		if like && strings.Contains(gotFolded, candidateFolded) {
			return true, nil
		}

		if !like && gotFolded == candidateFolded {
			return true, nil
		}
	}

	return false, nil
}

func evalNumber(got any, op Expr, want any) (bool, error) {
	g, err := toFloat(got)
	if err != nil {
		return false, err
	}

	if op == ExprNULL {
		return g == 0 == toBool(want), nil
	}

	w, err := toFloat(want)
	if err != nil {
		return false, err
	}

	switch op {
	case ExprEQ:
		return g == w, nil
	case ExprNOT:
		return g != w, nil
	case ExprGT:
		return g > w, nil
	case ExprGTE:
		return g >= w, nil
	case ExprLT:
		return g < w, nil
	case ExprLTE:
		return g <= w, nil
	default:
		return false, derrors.Newf(derrors.CodeInvalidArgument, "operator %q not valid for numeric property", op)
	}
}

func evalBool(got bool, op Expr, want any) (bool, error) {
	switch op {
	case ExprNULL:
		return true, nil // booleans are never "null"; presence is always true
	case ExprEQ:
		return got == toBool(want), nil
	case ExprNOT:
		return got != toBool(want), nil
	default:
		return false, derrors.Newf(derrors.CodeInvalidArgument, "operator %q not valid for boolean property", op)
	}
}

func toBool(v any) bool {
	b, _ := v.(bool) //nolint:errcheck // non-bool values fold to false

	return b
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, derrors.Newf(derrors.CodeInvalidArgument, "expected a numeric value, got %T", v)
	}
}
