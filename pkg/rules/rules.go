package rules

import (
	"context"
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Action is the write being checked.
type Action string

const (
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Rule is a violation expression. On limits the actions it applies to;
// empty means create and update.
type Rule struct {
	Name    string
	Expr    string
	Message string
	On      []Action
}

func (r Rule) appliesTo(a Action) bool {
	if len(r.On) == 0 {
		return a == Create || a == Update
	}
	return slices.Contains(r.On, a)
}

type compiled struct {
	Rule
	prog *vm.Program
}

// Set is an immutable list of compiled rules.
type Set struct {
	rules []compiled
}

// Compile compiles every rule; the first invalid one aborts.
func Compile(rules ...Rule) (*Set, error) {
	s := &Set{rules: make([]compiled, 0, len(rules))}
	for _, r := range rules {
		prog, err := expr.Compile(r.Expr, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrCompile, r.Name, err)
		}
		if r.Message == "" {
			r.Message = fmt.Sprintf("rule %s violated", r.Name)
		}
		s.rules = append(s.rules, compiled{Rule: r, prog: prog})
	}
	return s, nil
}

// MustCompile is Compile that panics; for package-level rule sets.
func MustCompile(rules ...Rule) *Set {
	s, err := Compile(rules...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Check evaluates every applicable rule. It returns a *Violation listing all
// broken rules, or an ErrEvaluate error if an expression fails at run time.
func (s *Set) Check(ctx context.Context, action Action, record, old map[string]any) error {
	if s.Len() == 0 {
		return nil
	}

	env := map[string]any{
		"record": record,
		"old":    old,
		"action": string(action),
	}

	var v *Violation
	for _, r := range s.rules {
		if !r.appliesTo(action) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := expr.Run(r.prog, env)
		if err != nil {
			return fmt.Errorf("%w: rule %q: %v", ErrEvaluate, r.Name, err)
		}
		if violated, _ := out.(bool); violated {
			if v == nil {
				v = &Violation{}
			}
			v.Rules = append(v.Rules, r.Name)
			v.Messages = append(v.Messages, r.Message)
		}
	}

	if v != nil {
		return v
	}
	return nil
}
