package engine

import (
	"testing"
	"time"

	"plata/internal/core"
)

func TestCompareMonths(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "renta marzo", "Vivienda", "1200", date(2026, time.March, 5)),
		tx(core.Expense, "super marzo", "Comida", "300", date(2026, time.March, 20)),
		tx(core.Expense, "renta febrero", "Vivienda", "1200", date(2026, time.February, 5)),
		tx(core.Income, "salary", "", "5000", date(2026, time.March, 1)),
	}

	got := CompareMonths(txs, date(2026, time.March, 15))

	if !got.Period1Total.Equal(dec("1500")) {
		t.Errorf("Period1Total = %s, want 1500", got.Period1Total)
	}
	if !got.Period2Total.Equal(dec("1200")) {
		t.Errorf("Period2Total = %s, want 1200", got.Period2Total)
	}
	if !got.Difference.Equal(dec("300")) {
		t.Errorf("Difference = %s, want 300", got.Difference)
	}
	if !got.PercentChange.Equal(dec("25")) {
		t.Errorf("PercentChange = %s, want 25", got.PercentChange)
	}
}

func TestCompareMonthsEmptyPreviousPeriod(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "renta", "Vivienda", "1200", date(2026, time.March, 5)),
	}

	got := CompareMonths(txs, date(2026, time.March, 15))
	// No spending in February: percent change is reported as zero rather
	// than dividing by zero.
	if !got.PercentChange.IsZero() {
		t.Errorf("PercentChange = %s, want 0", got.PercentChange)
	}
	if !got.Difference.Equal(dec("1200")) {
		t.Errorf("Difference = %s, want 1200", got.Difference)
	}
}

func TestCompareFortnights(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "first half", "Comida", "400", date(2026, time.March, 3)),
		tx(core.Expense, "second half", "Comida", "600", date(2026, time.March, 20)),
		tx(core.Expense, "edge day 15", "Comida", "50", date(2026, time.March, 15)),
	}

	got := CompareFortnights(txs, date(2026, time.March, 20))

	if !got.Period1Total.Equal(dec("600")) {
		t.Errorf("Period1Total = %s, want 600", got.Period1Total)
	}
	// Day 15 belongs to the first fortnight.
	if !got.Period2Total.Equal(dec("450")) {
		t.Errorf("Period2Total = %s, want 450", got.Period2Total)
	}
}

func TestMonthlyReport(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "salary", "", "5000", date(2026, time.March, 1)),
		tx(core.Expense, "renta", "Vivienda", "1200", date(2026, time.March, 5)),
		tx(core.Expense, "super", "Comida", "600", date(2026, time.March, 10)),
		tx(core.Expense, "cine", "Entretenimiento", "200", date(2026, time.March, 12)),
		tx(core.Expense, "abril", "Comida", "999", date(2026, time.April, 1)),
	}

	got := MonthlyReport(txs, 2026, time.March)

	if !got.Income.Equal(dec("5000")) {
		t.Errorf("Income = %s, want 5000", got.Income)
	}
	if !got.Expense.Equal(dec("2000")) {
		t.Errorf("Expense = %s, want 2000", got.Expense)
	}
	if !got.Balance.Equal(dec("3000")) {
		t.Errorf("Balance = %s, want 3000", got.Balance)
	}

	if len(got.ByCategory) != 3 {
		t.Fatalf("len(ByCategory) = %d, want 3", len(got.ByCategory))
	}
	// Largest category first, with its share of total spending.
	first := got.ByCategory[0]
	if first.Category != "Vivienda" || !first.Percent.Equal(dec("60")) {
		t.Errorf("ByCategory[0] = %s %s%%, want Vivienda 60%%", first.Category, first.Percent)
	}
}

func TestNetWorth(t *testing.T) {
	today := date(2026, time.June, 15)
	txs := []core.Transaction{
		tx(core.Income, "salary", "", "30000", date(2026, time.February, 1)),
		tx(core.Expense, "gastos", "Comida", "12000", date(2026, time.April, 1)),
		tx(core.Income, "last year", "", "99999", date(2025, time.December, 31)),
	}
	loans := []core.Loan{
		{ID: "l1", Principal: dec("8000")},
		{ID: "l2", Principal: dec("2000")},
	}

	got := NetWorth(txs, loans, today)

	if !got.Income.Equal(dec("30000")) {
		t.Errorf("Income = %s, want 30000 (prior year excluded)", got.Income)
	}
	if !got.Debt.Equal(dec("10000")) {
		t.Errorf("Debt = %s, want 10000", got.Debt)
	}
	if !got.NetWorth.Equal(dec("8000")) {
		t.Errorf("NetWorth = %s, want 8000", got.NetWorth)
	}
}

func TestAnalyzeSubscriptions(t *testing.T) {
	netflix := rtx(core.Expense, core.Monthly, "199")
	netflix.Description = "netflix"
	netflix.Category = "Entretenimiento"

	spotify := rtx(core.Expense, core.Monthly, "115")
	spotify.Description = "spotify"
	spotify.Category = "Entretenimiento"

	gym := rtx(core.Expense, core.Yearly, "4800")
	gym.Description = "gimnasio anual"
	gym.Category = "Salud"

	salary := rtx(core.Income, core.Monthly, "30000")

	got := AnalyzeSubscriptions([]core.RecurringTransaction{netflix, spotify, gym, salary})

	if len(got.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2 (income excluded)", len(got.Groups))
	}
	if got.Groups[0].Category != "Entretenimiento" || !got.Groups[0].MonthlyTotal.Equal(dec("314")) {
		t.Errorf("Groups[0] = %s %s, want Entretenimiento 314", got.Groups[0].Category, got.Groups[0].MonthlyTotal)
	}
	if got.Groups[1].Category != "Salud" || !got.Groups[1].MonthlyTotal.Equal(dec("400")) {
		t.Errorf("Groups[1] = %s %s, want Salud 400", got.Groups[1].Category, got.Groups[1].MonthlyTotal)
	}
	if !got.MonthlyTotal.Equal(dec("714")) {
		t.Errorf("MonthlyTotal = %s, want 714", got.MonthlyTotal)
	}
	if !got.AnnualTotal.Equal(dec("8568")) {
		t.Errorf("AnnualTotal = %s, want 8568", got.AnnualTotal)
	}
}
