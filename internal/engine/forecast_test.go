package engine

import (
	"testing"
	"time"

	"plata/internal/core"
)

func rtx(kind core.TransactionKind, freq core.Frequency, amount string) core.RecurringTransaction {
	return core.RecurringTransaction{
		ID:          "rt-" + amount,
		Kind:        kind,
		Frequency:   freq,
		Amount:      dec(amount),
		Description: "template",
	}
}

func TestForecast(t *testing.T) {
	today := date(2026, time.June, 15)

	salary := tx(core.Income, "salary", "", "3000", date(2026, time.June, 1))
	salary.RecurringRef = "rt-salary"
	rent := tx(core.Expense, "rent", "Servicios", "1200", date(2026, time.June, 5))
	rent.RecurringRef = "rt-rent"
	oneOff := tx(core.Expense, "concert", "Entretenimiento", "150", date(2026, time.May, 20))

	txs := []core.Transaction{salary, rent, oneOff}
	loans := []core.Loan{{ID: "l1", MonthlyPayment: dec("300")}}

	got := Forecast(txs, loans, 3, today)

	if !got.RecurringIncome.Equal(dec("3000")) {
		t.Errorf("RecurringIncome = %s, want 3000", got.RecurringIncome)
	}
	if !got.RecurringExpense.Equal(dec("1200")) {
		t.Errorf("RecurringExpense = %s, want 1200", got.RecurringExpense)
	}
	if !got.LoanObligation.Equal(dec("300")) {
		t.Errorf("LoanObligation = %s, want 300", got.LoanObligation)
	}
	if !got.NetMonthly.Equal(dec("1500")) {
		t.Errorf("NetMonthly = %s, want 1500", got.NetMonthly)
	}

	// Baseline is net flow over the trailing three months: all three
	// transactions fall inside the window.
	wantBaseline := dec("1650") // 3000 - 1200 - 150
	if !got.Baseline.Equal(wantBaseline) {
		t.Errorf("Baseline = %s, want %s", got.Baseline, wantBaseline)
	}

	if len(got.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(got.Points))
	}
	wantBalances := []string{"3150", "4650", "6150"}
	wantLabels := []string{"Jul 2026", "Aug 2026", "Sep 2026"}
	for i, p := range got.Points {
		if !p.Balance.Equal(dec(wantBalances[i])) {
			t.Errorf("Points[%d].Balance = %s, want %s", i, p.Balance, wantBalances[i])
		}
		if p.Label != wantLabels[i] {
			t.Errorf("Points[%d].Label = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
}

func TestForecastDefaultsMonths(t *testing.T) {
	got := Forecast(nil, nil, 0, date(2026, time.June, 15))
	if len(got.Points) != DefaultForecastMonths {
		t.Errorf("len(Points) = %d, want %d", len(got.Points), DefaultForecastMonths)
	}
}

func TestForecastNormalized(t *testing.T) {
	today := date(2026, time.June, 15)

	ended := rtx(core.Expense, core.Monthly, "999")
	ended.EndDate = date(2026, time.January, 31)

	recurring := []core.RecurringTransaction{
		rtx(core.Income, core.Monthly, "3000"),
		rtx(core.Expense, core.Weekly, "50"),
		rtx(core.Expense, core.Daily, "4"),
		rtx(core.Income, core.Yearly, "1200"),
		ended,
	}

	got := ForecastNormalized(nil, recurring, nil, 1, today)

	// 3000 monthly + 1200/12 yearly.
	if !got.RecurringIncome.Equal(dec("3100")) {
		t.Errorf("RecurringIncome = %s, want 3100", got.RecurringIncome)
	}
	// 50 x 4.33 weekly + 4 x 30 daily; the ended template is excluded.
	if !got.RecurringExpense.Equal(dec("336.5")) {
		t.Errorf("RecurringExpense = %s, want 336.5", got.RecurringExpense)
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name string
		freq core.Frequency
		in   string
		want string
	}{
		{name: "daily", freq: core.Daily, in: "10", want: "300"},
		{name: "weekly", freq: core.Weekly, in: "100", want: "433"},
		{name: "monthly", freq: core.Monthly, in: "250", want: "250"},
		{name: "yearly", freq: core.Yearly, in: "1200", want: "100"},
		{name: "yearly rounds to cents", freq: core.Yearly, in: "1000", want: "83.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyEquivalent(rtx(core.Expense, tt.freq, tt.in))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("MonthlyEquivalent(%s %s) = %s, want %s", tt.freq, tt.in, got, tt.want)
			}
		})
	}
}
