package planner

import (
	"context"
	"errors"
	"strings"

	"github.com/davidbz/plangate/internal/domain"
)

// ErrEmptyPlan is returned when a provider answers with blank content.
var ErrEmptyPlan = errors.New("provider returned an empty plan")

// Interpreter turns a provider response into plan text. Failures are
// reported to the caller as a missing plan.
type Interpreter interface {
	Interpret(ctx context.Context, resp *domain.Response) (string, error)
}

// TextInterpreter accepts any non-blank content, trimmed.
type TextInterpreter struct{}

// Interpret implements Interpreter.
func (TextInterpreter) Interpret(_ context.Context, resp *domain.Response) (string, error) {
	if resp == nil {
		return "", ErrEmptyPlan
	}

	plan := strings.TrimSpace(resp.Content)
	if plan == "" {
		return "", ErrEmptyPlan
	}
	return plan, nil
}
