// Package rules evaluates declarative write rules written in expr
// (github.com/expr-lang/expr).
//
// A rule is a boolean expression that describes a violation: when it
// evaluates to true the write is rejected with the rule's message. The
// expression sees three variables:
//
//	record  map[string]any  column values of the entity being written
//	old     map[string]any  previous values on update, nil otherwise
//	action  string          "create", "update" or "delete"
//
// Example:
//
//	set, err := rules.Compile(
//		rules.Rule{Name: "title", Expr: `len(record.title) < 3`, Message: "title is too short"},
//		rules.Rule{Name: "frozen", Expr: `action == "update" && old.published`, Message: "published articles are read-only"},
//	)
//
// Rules are compiled once; a Set is safe for concurrent use. cms.Hooks can
// be wrapped with a Set through Hooks.WithRules.
package rules
