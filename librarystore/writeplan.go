package librarystore

// Statement is a parameterized SQL statement ready for execution.
type Statement struct {
	SQL  string
	Args []any
}

// Captured holds values that earlier steps of a running plan stored for later steps.
type Captured map[string]any

// Int returns a captured integer, or 0 and false when the key is absent or not an int64.
func (c Captured) Int(key string) (int64, bool) {
	v, ok := c[key].(int64)
	return v, ok
}

// Bool returns a captured boolean, or false when the key is absent or not a bool.
func (c Captured) Bool(key string) bool {
	v, _ := c[key].(bool)
	return v
}

// StatementBuilder builds a step's statement from the values captured so far.
type StatementBuilder func(captured Captured) (Statement, error)

// PreconditionCheck inspects the first row returned by a read step.
// It may store values in captured and returns an Abort error to block the plan.
type PreconditionCheck func(row Row, captured Captured) error

// SkipCondition decides, from captured values, that an exec step is not needed.
type SkipCondition func(captured Captured) bool

// Step is one statement of a WritePlan.
//
// A step with a Check is a read step: the statement's first row is handed to Check, and a missing
// row aborts the plan. Every other step is an exec step: with MustAffectRows set, zero affected
// rows abort the plan.
type Step struct {
	Name           string
	Build          StatementBuilder
	Check          PreconditionCheck
	MustAffectRows bool
	Skip           SkipCondition
}

// IsRead reports whether the step is a precondition read.
func (s Step) IsRead() bool {
	return s.Check != nil
}

// ShouldSkip reports whether the step is to be left out for the captured values.
func (s Step) ShouldSkip(captured Captured) bool {
	return s.Skip != nil && s.Skip(captured)
}

// WritePlan is the ordered list of steps that are executed as one all-or-nothing unit.
type WritePlan struct {
	Name  string
	Steps []Step
}

// BuildWritePlan creates a WritePlan.
func BuildWritePlan(name string, steps ...Step) WritePlan {
	return WritePlan{Name: name, Steps: steps}
}

// ReadStep creates a precondition read step.
func ReadStep(name string, build StatementBuilder, check PreconditionCheck) Step {
	return Step{Name: name, Build: build, Check: check}
}

// ExecStep creates an exec step that may affect any number of rows.
func ExecStep(name string, build StatementBuilder) Step {
	return Step{Name: name, Build: build}
}

// RequiredExecStep creates an exec step that aborts the plan when it affects no rows.
func RequiredExecStep(name string, build StatementBuilder) Step {
	return Step{Name: name, Build: build, MustAffectRows: true}
}

// Fixed returns a StatementBuilder that ignores captured values.
func Fixed(stmt Statement, err error) StatementBuilder {
	return func(Captured) (Statement, error) {
		return stmt, err
	}
}
