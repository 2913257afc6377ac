package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"plata/internal/core"
)

const (
	GoalComplete GoalState = "COMPLETE"
	GoalOverdue  GoalState = "OVERDUE"
	GoalNear     GoalState = "NEAR"
	GoalOnTrack  GoalState = "ON_TRACK"
	GoalBehind   GoalState = "BEHIND"
)

var (
	goalNearPercent    = decimal.NewFromInt(80)
	goalOnTrackPercent = decimal.NewFromInt(50)
	daysPerWeek        = decimal.NewFromInt(7)
)

type (
	GoalState string

	GoalStatus struct {
		Name            string
		Target          decimal.Decimal
		Current         decimal.Decimal
		Remaining       decimal.Decimal
		PercentComplete decimal.Decimal
		DaysRemaining   int
		State           GoalState
	}

	SavingsPlan struct {
		Remaining     decimal.Decimal
		DaysRemaining int
		Daily         decimal.Decimal
		Weekly        decimal.Decimal
		Monthly       decimal.Decimal
	}
)

// FindGoal locates a saving goal by name, case-insensitively.
func FindGoal(goals []core.SavingGoal, name string) (core.SavingGoal, error) {
	name = strings.TrimSpace(name)
	for _, g := range goals {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return core.SavingGoal{}, ErrNoGoal
}

// TrackGoal reports progress toward a goal. A goal at or above 100% is
// COMPLETE regardless of the target date; otherwise a past target date is
// OVERDUE, then NEAR above 80%, ON_TRACK above 50%, BEHIND below.
func TrackGoal(g core.SavingGoal, today time.Time) GoalStatus {
	percent := core.Percent(g.CurrentAmount, g.TargetAmount)
	days := DaysBetween(today, g.TargetDate)

	state := GoalBehind
	switch {
	case percent.GreaterThanOrEqual(hundred):
		state = GoalComplete
	case days < 0:
		state = GoalOverdue
	case percent.GreaterThan(goalNearPercent):
		state = GoalNear
	case percent.GreaterThan(goalOnTrackPercent):
		state = GoalOnTrack
	}

	return GoalStatus{
		Name:            g.Name,
		Target:          g.TargetAmount,
		Current:         g.CurrentAmount,
		Remaining:       g.TargetAmount.Sub(g.CurrentAmount),
		PercentComplete: percent,
		DaysRemaining:   days,
		State:           state,
	}
}

// GeneratePlan computes the periodic contribution needed to reach the goal
// by its target date: remaining divided over the days left, with weekly and
// monthly multiples. A target date that is today or past is
// ErrGoalDateElapsed, never a division attempt.
func GeneratePlan(g core.SavingGoal, today time.Time) (SavingsPlan, error) {
	days := DaysBetween(today, g.TargetDate)
	if days <= 0 {
		return SavingsPlan{}, ErrGoalDateElapsed
	}

	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	daily := remaining.Div(decimal.NewFromInt(int64(days))).Round(core.DisplayScale)

	return SavingsPlan{
		Remaining:     remaining,
		DaysRemaining: days,
		Daily:         daily,
		Weekly:        daily.Mul(daysPerWeek),
		Monthly:       daily.Mul(daysPerMonth),
	}, nil
}
