package rules

import (
	"errors"
	"strings"
)

var (
	ErrCompile  = errors.New("rules: invalid expression")
	ErrEvaluate = errors.New("rules: evaluation failed")
	ErrViolated = errors.New("rules: write rejected")
)

// Violation lists every rule a record broke.
type Violation struct {
	Rules    []string
	Messages []string
}

func (v *Violation) Error() string { return strings.Join(v.Messages, "; ") }

func (v *Violation) Unwrap() error { return ErrViolated }
