package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSimulatePayoffFirstMonth(t *testing.T) {
	// 12000 at 30% APR with a 600 payment: monthly rate 2.5%,
	// first month interest 300, principal 300, remaining 11700.
	sched, err := SimulatePayoff(dec("12000"), dec("30"), dec("600"), 0)
	if err != nil {
		t.Fatalf("SimulatePayoff() error = %v", err)
	}

	first := sched.Entries[0]
	if !first.Interest.Equal(dec("300")) {
		t.Errorf("first month interest = %s, want 300", first.Interest)
	}
	if !first.Principal.Equal(dec("300")) {
		t.Errorf("first month principal = %s, want 300", first.Principal)
	}
	if !first.Remaining.Equal(dec("11700")) {
		t.Errorf("first month remaining = %s, want 11700", first.Remaining)
	}
}

func TestSimulatePayoffConverges(t *testing.T) {
	sched, err := SimulatePayoff(dec("5000"), dec("24"), dec("500"), 0)
	if err != nil {
		t.Fatalf("SimulatePayoff() error = %v", err)
	}

	if !sched.Converged {
		t.Fatal("solvable case did not converge")
	}
	if sched.Months > DefaultMaxMonths {
		t.Errorf("Months = %d, beyond horizon %d", sched.Months, DefaultMaxMonths)
	}

	last := sched.Entries[len(sched.Entries)-1]
	if !last.Remaining.IsZero() {
		t.Errorf("final remaining = %s, want 0", last.Remaining)
	}

	// Total paid must equal principal retired plus interest accrued.
	principal := decimal.Zero
	for _, e := range sched.Entries {
		principal = principal.Add(e.Principal)
	}
	if !principal.Equal(dec("5000")) {
		t.Errorf("total principal = %s, want 5000", principal)
	}
	if !sched.TotalPaid.Equal(principal.Add(sched.TotalInterest)) {
		t.Errorf("TotalPaid = %s, want %s", sched.TotalPaid, principal.Add(sched.TotalInterest))
	}
}

func TestSimulatePayoffInsufficientPayment(t *testing.T) {
	tests := []struct {
		name    string
		payment string
	}{
		{name: "payment below interest", payment: "200"},
		{name: "payment exactly equals interest", payment: "300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 12000 at 30% accrues 300 of interest per month.
			_, err := SimulatePayoff(dec("12000"), dec("30"), dec(tt.payment), 0)
			if !errors.Is(err, ErrInsufficientPayment) {
				t.Errorf("SimulatePayoff() error = %v, want ErrInsufficientPayment", err)
			}
		})
	}
}

func TestSimulatePayoffHorizonCap(t *testing.T) {
	// Payment barely above interest: principal reduces a trickle per month,
	// far from payoff within the horizon.
	sched, err := SimulatePayoff(dec("12000"), dec("30"), dec("301"), 0)
	if err != nil {
		t.Fatalf("SimulatePayoff() error = %v", err)
	}

	if sched.Converged {
		t.Error("expected non-convergence at the horizon cap")
	}
	if sched.Months != DefaultMaxMonths {
		t.Errorf("Months = %d, want %d", sched.Months, DefaultMaxMonths)
	}
	if !sched.Entries[len(sched.Entries)-1].Remaining.IsPositive() {
		t.Error("remaining balance should still be outstanding at the cap")
	}
}

func TestSimulatePayoffZeroRate(t *testing.T) {
	sched, err := SimulatePayoff(dec("1000"), dec("0"), dec("400"), 0)
	if err != nil {
		t.Fatalf("SimulatePayoff() error = %v", err)
	}
	if !sched.Converged || sched.Months != 3 {
		t.Errorf("Months = %d converged=%v, want 3 months converged", sched.Months, sched.Converged)
	}
	if !sched.TotalInterest.IsZero() {
		t.Errorf("TotalInterest = %s, want 0", sched.TotalInterest)
	}
	// Final payment clamps to the 200 left, so total paid is exactly 1000.
	if !sched.TotalPaid.Equal(dec("1000")) {
		t.Errorf("TotalPaid = %s, want 1000", sched.TotalPaid)
	}
}

func TestSimulatePayoffRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		rate    string
		payment string
	}{
		{name: "zero balance", balance: "0", rate: "10", payment: "100"},
		{name: "negative rate", balance: "1000", rate: "-1", payment: "100"},
		{name: "zero payment", balance: "1000", rate: "10", payment: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimulatePayoff(dec(tt.balance), dec(tt.rate), dec(tt.payment), 0)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("SimulatePayoff() error = %v, want InvalidInputError", err)
			}
		})
	}
}

func TestInterestIfUnpaid(t *testing.T) {
	today := date(2026, time.March, 1)

	// 12000 at 30%: monthly rate 2.5%, daily rate 2.5%/30 per 30-day month.
	// Over 30 days that is exactly one month of interest: 300.
	got, err := InterestIfUnpaid(dec("12000"), dec("30"), today, date(2026, time.March, 31))
	if err != nil {
		t.Fatalf("InterestIfUnpaid() error = %v", err)
	}
	if !got.Round(2).Equal(dec("300")) {
		t.Errorf("InterestIfUnpaid() = %s, want 300", got.Round(2))
	}

	_, err = InterestIfUnpaid(dec("12000"), dec("30"), today, today)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("InterestIfUnpaid() past date error = %v, want InvalidInputError", err)
	}
}
