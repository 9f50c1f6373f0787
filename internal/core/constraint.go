package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depman/internal/types"
)

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false matches
// (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// ParseConstraints splits a comma separated expression such as
// ">= 1.0, < 2.0" into constraints. A bare version is an equality
// constraint.
func ParseConstraints(expr string) ([]types.Constraint, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty version constraint")
	}
	var out []types.Constraint
	for _, part := range strings.Split(expr, ",") {
		constraint, err := parseConstraint(part)
		if err != nil {
			return nil, err
		}
		out = append(out, constraint)
	}
	return out, nil
}

func parseConstraint(raw string) (types.Constraint, error) {
	raw = strings.TrimSpace(raw)
	for _, op := range opTokens {
		if strings.HasPrefix(raw, string(op)) {
			version := strings.TrimSpace(strings.TrimPrefix(raw, string(op)))
			if version == "" {
				return types.Constraint{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
			}
			return types.Constraint{Op: op, Version: version}, nil
		}
	}
	if raw == "" {
		return types.Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty version constraint")
	}
	return types.Constraint{Op: types.ConstraintOpEq, Version: raw}, nil
}
