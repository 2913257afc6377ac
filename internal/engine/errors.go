package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPayment means a fixed monthly payment does not cover the
	// interest accruing each month, so the balance can never be paid off.
	ErrInsufficientPayment = errors.New("monthly payment does not cover accruing interest")

	// ErrNoBudget distinguishes "no budget defined for this category" from a
	// zero-valued budget status.
	ErrNoBudget = errors.New("no budget defined for category")

	// ErrNoGoal distinguishes "no saving goal with this name" from an empty result.
	ErrNoGoal = errors.New("saving goal not found")

	// ErrGoalDateElapsed means a contribution plan cannot be computed because
	// the goal's target date is today or in the past.
	ErrGoalDateElapsed = errors.New("goal target date has passed, adjust the target date")

	ErrUnknownStrategy = errors.New("unknown ranking strategy")
)

// InvalidInputError rejects a computation before it begins, naming the
// offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
