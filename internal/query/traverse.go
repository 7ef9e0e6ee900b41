package query

import "github.com/echo-go/uiauto/internal/element"

// FindOptions configures a tree search. The zero value searches descendants
// only (IncludeSelf is false, per the engine's explicit default), to depth
// unlimited, releasing nothing. With Release set, every visited element
// other than the root that is neither a match nor an ancestor of one is
// released.
type FindOptions struct {
	Options
	IncludeSelf bool
	MaxDepth    int // 0 means unlimited
	Release     bool
	Limit       int // 0 means unlimited
}

// FindAll searches root (and, if opts.IncludeSelf, root itself) for every
// element matching filters and criteria, returning them in document order.
// Both empty means no query at all, so FindAll returns an empty (nil) slice
// without visiting anything further than the release bookkeeping requires.
// Elements that do not match and have no matching descendant are released as
// the traversal returns from them, when opts.Release is set — this keeps
// live backend handles (COM references, JAB contexts) from accumulating
// across a large subtree scan.
func FindAll(root *element.Element, filters []Predicate, criteria Criteria, opts FindOptions) ([]*element.Element, error) {
	if len(filters) == 0 && len(criteria) == 0 {
		return nil, nil
	}

	var results []*element.Element

	baseDepth := root.Depth()

	var visit func(e *element.Element, isRoot bool) (bool, error)

	visit = func(e *element.Element, isRoot bool) (bool, error) {
		if opts.Limit > 0 && len(results) >= opts.Limit {
			return false, nil
		}

		selfMatch := false

		if !isRoot || opts.IncludeSelf {
			ok, err := Match(e, filters, criteria, opts.Options)
			if err != nil {
				return false, err
			}

			selfMatch = ok
		}

		if selfMatch {
			results = append(results, e)
		}

		descendantMatched := false

		withinDepth := opts.MaxDepth == 0 || e.Depth()-baseDepth < opts.MaxDepth

		if withinDepth {
			for _, child := range e.Children() {
				if opts.Limit > 0 && len(results) >= opts.Limit {
					break
				}

				kept, err := visit(child, false)
				if err != nil {
					return false, err
				}

				descendantMatched = descendantMatched || kept
			}
		}

		kept := selfMatch || descendantMatched

		if !kept && opts.Release && !isRoot {
			e.Release()
		}

		return kept, nil
	}

	if _, err := visit(root, true); err != nil {
		return nil, err
	}

	return results, nil
}

// FindFirst returns the first element matching filters and criteria in
// document order, or nil if none match (or if both are empty). It releases
// every other visited, non-ancestor element exactly as FindAll does.
func FindFirst(root *element.Element, filters []Predicate, criteria Criteria, opts FindOptions) (*element.Element, error) {
	opts.Limit = 1

	results, err := FindAll(root, filters, criteria, opts)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil //nolint:nilnil // absence of a match is not itself an error
	}

	return results[0], nil
}
