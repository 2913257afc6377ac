package engine

import (
	"errors"
	"testing"
	"time"
)

func TestRankDebtsSnowball(t *testing.T) {
	debts := []Debt{
		{ID: "b", Name: "card B", Balance: dec("5000"), AnnualRatePct: dec("25")},
		{ID: "a", Name: "card A", Balance: dec("500"), AnnualRatePct: dec("10")},
	}

	got, err := RankDebts(debts, Snowball, date(2026, time.March, 1))
	if err != nil {
		t.Fatalf("RankDebts() error = %v", err)
	}

	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("snowball order = [%s %s], want [a b]", got[0].ID, got[1].ID)
	}
	// Non-decreasing in balance.
	for i := 1; i < len(got); i++ {
		if got[i].Balance.LessThan(got[i-1].Balance) {
			t.Errorf("snowball not non-decreasing at %d", i)
		}
	}
}

func TestRankDebtsAvalanche(t *testing.T) {
	debts := []Debt{
		{ID: "a", Name: "card A", Balance: dec("500"), AnnualRatePct: dec("10")},
		{ID: "b", Name: "card B", Balance: dec("5000"), AnnualRatePct: dec("25")},
	}

	got, err := RankDebts(debts, Avalanche, date(2026, time.March, 1))
	if err != nil {
		t.Fatalf("RankDebts() error = %v", err)
	}

	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("avalanche order = [%s %s], want [b a]", got[0].ID, got[1].ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].AnnualRatePct.GreaterThan(got[i-1].AnnualRatePct) {
			t.Errorf("avalanche not non-increasing at %d", i)
		}
	}
}

func TestRankDebtsUrgencyScoring(t *testing.T) {
	today := date(2026, time.March, 10)

	tests := []struct {
		name      string
		debt      Debt
		wantScore int
	}{
		{
			name: "due within the week plus large balance",
			// Due day 12 is 2 days out: 500-2=498, plus 200 for balance over 10000.
			debt:      Debt{Balance: dec("12000"), DueDay: 12},
			wantScore: 698,
		},
		{
			name: "medium balance only",
			// Due day 25 is outside the 7-day window.
			debt:      Debt{Balance: dec("7000"), DueDay: 25},
			wantScore: 100,
		},
		{
			name:      "small balance far from due date scores zero",
			debt:      Debt{Balance: dec("1000"), DueDay: 25},
			wantScore: 0,
		},
		{
			name: "boundary balance of 10000 is medium not large",
			// Exactly 10000 does not exceed the large threshold.
			debt:      Debt{Balance: dec("10000"), DueDay: 25},
			wantScore: 100,
		},
		{
			name: "due today",
			// daysUntilDue 0: 500-0=500.
			debt:      Debt{Balance: dec("100"), DueDay: 10},
			wantScore: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreDebt(tt.debt, DefaultScoring, today)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
		})
	}
}

func TestRankDebtsUrgencyTiesKeepInputOrder(t *testing.T) {
	debts := []Debt{
		{ID: "first", Balance: dec("1000"), DueDay: 25},
		{ID: "second", Balance: dec("2000"), DueDay: 25},
	}

	got, err := RankDebts(debts, Urgency, date(2026, time.March, 10))
	if err != nil {
		t.Fatalf("RankDebts() error = %v", err)
	}
	if got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("tie order = [%s %s], want input order", got[0].ID, got[1].ID)
	}
}

func TestRankDebtsUnknownStrategy(t *testing.T) {
	_, err := RankDebts(nil, Strategy("TSUNAMI"), date(2026, time.March, 1))
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("RankDebts() error = %v, want ErrUnknownStrategy", err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Strategy
		wantErr bool
	}{
		{name: "empty defaults to snowball", text: "", want: Snowball},
		{name: "case insensitive", text: "avalanche", want: Avalanche},
		{name: "urgency", text: "URGENCY", want: Urgency},
		{name: "unknown", text: "tsunami", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStrategy) {
					t.Errorf("ParseStrategy(%q) error = %v, want ErrUnknownStrategy", tt.text, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, %v, want %v", tt.text, got, err, tt.want)
			}
		})
	}
}
