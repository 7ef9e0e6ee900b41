// Package query implements the predicate algebra and lazy tree traversal
// used to find elements: criteria keys parse into a (property, operator)
// pair via a suffix convention, operators dispatch by value kind
// (string/number/bool), and traversal releases elements that don't
// contribute to the result as it goes.
package query

import (
	"strings"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

// Expr is a comparison operator a criteria value can be matched with.
type Expr string

const (
	ExprEQ     Expr = "eq"
	ExprNOT    Expr = "not"
	ExprLIKE   Expr = "like"
	ExprIN     Expr = "in"
	ExprINLIKE Expr = "in_like"
	ExprREGEX  Expr = "regex"
	ExprGT     Expr = "gt"
	ExprGTE    Expr = "gte"
	ExprLT     Expr = "lt"
	ExprLTE    Expr = "lte"
	ExprNULL   Expr = "null"
)

// strExprs are operators valid against string-valued properties.
var strExprs = map[Expr]bool{
	ExprEQ: true, ExprNOT: true, ExprLIKE: true, ExprIN: true, ExprINLIKE: true,
	ExprREGEX: true, ExprNULL: true,
}

// numExprs are operators valid against numeric-valued properties.
var numExprs = map[Expr]bool{
	ExprEQ: true, ExprNOT: true, ExprGT: true, ExprGTE: true, ExprLT: true, ExprLTE: true, ExprNULL: true,
}

// boolExprs are operators valid against boolean-valued properties.
var boolExprs = map[Expr]bool{
	ExprEQ: true, ExprNOT: true, ExprNULL: true,
}

// suffixOrder maps a criteria-key suffix to its operator, ordered longest-first
// so "_in_like" is tried before "_like" during suffix matching.
var suffixOrder = []struct {
	suffix string
	expr   Expr
}{
	{"_in_like", ExprINLIKE},
	{"_like", ExprLIKE},
	{"_regex", ExprREGEX},
	{"_not", ExprNOT},
	{"_in", ExprIN},
	{"_gte", ExprGTE},
	{"_gt", ExprGT},
	{"_lte", ExprLTE},
	{"_lt", ExprLT},
	{"_null", ExprNULL},
}

// ParseCriteriaKey splits a criteria map key such as "name_like" or
// "bounds.width_gt" into its property path ("name", "bounds.width") and
// operator, defaulting to ExprEQ when no recognized suffix is present.
func ParseCriteriaKey(key string) (property string, op Expr) {
	for _, s := range suffixOrder {
		if strings.HasSuffix(key, s.suffix) {
			return strings.TrimSuffix(key, s.suffix), s.expr
		}
	}

	return key, ExprEQ
}

// ValidateOperator checks that op is a legal operator for a value of the
// given Go kind ("string", "number", or "bool").
func ValidateOperator(op Expr, kind string) error {
	var table map[Expr]bool

	switch kind {
	case "string":
		table = strExprs
	case "number":
		table = numExprs
	case "bool":
		table = boolExprs
	default:
		return derrors.Newf(derrors.CodeInvalidArgument, "unsupported property kind %q", kind)
	}

	if !table[op] {
		return derrors.Newf(derrors.CodeInvalidArgument, "operator %q is not valid for %s properties", op, kind)
	}

	return nil
}
