package types

// Constraint is a single operator/version pair parsed from a dependency
// version expression such as ">= 1.2, < 2.0".
type Constraint struct {
	Op      ConstraintOp
	Version string
}
