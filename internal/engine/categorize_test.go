package engine

import (
	"testing"
	"time"

	"plata/internal/core"
)

func TestAutoCategorize(t *testing.T) {
	day := date(2026, time.March, 10)
	txs := []core.Transaction{
		tx(core.Expense, "Uber al aeropuerto", "", "250", day),
		tx(core.Expense, "NETFLIX.COM", core.DefaultCategory, "199", day),
		tx(core.Expense, "pago misterioso", "", "75", day),
		tx(core.Expense, "cena restaurante", "Comida", "400", day),
		tx(core.Income, "uber payout", "", "1200", day),
	}

	got := AutoCategorize(txs, DefaultRules)

	wantAssigned := []Assignment{
		{TransactionID: "Uber al aeropuerto", Category: "Transporte"},
		{TransactionID: "NETFLIX.COM", Category: "Entretenimiento"},
	}
	if len(got.Assigned) != len(wantAssigned) {
		t.Fatalf("len(Assigned) = %d, want %d", len(got.Assigned), len(wantAssigned))
	}
	for i, want := range wantAssigned {
		if got.Assigned[i] != want {
			t.Errorf("Assigned[%d] = %+v, want %+v", i, got.Assigned[i], want)
		}
	}

	if len(got.Unmatched) != 1 || got.Unmatched[0] != "pago misterioso" {
		t.Errorf("Unmatched = %v, want [pago misterioso]", got.Unmatched)
	}
}

func TestAutoCategorizeFirstMatchWins(t *testing.T) {
	// "cafe amazon" matches both a Compras and a Comida keyword; "amazon"
	// appears earlier in the table so Compras wins.
	txs := []core.Transaction{
		tx(core.Expense, "cafe amazon", "", "120", date(2026, time.March, 10)),
	}

	got := AutoCategorize(txs, DefaultRules)
	if len(got.Assigned) != 1 || got.Assigned[0].Category != "Compras" {
		t.Errorf("Assigned = %+v, want Compras via the earlier rule", got.Assigned)
	}
}

func TestAutoCategorizeIdempotent(t *testing.T) {
	day := date(2026, time.March, 10)
	txs := []core.Transaction{
		tx(core.Expense, "Uber al aeropuerto", "", "250", day),
		tx(core.Expense, "spotify familiar", core.DefaultCategory, "115", day),
	}

	first := AutoCategorize(txs, DefaultRules)

	// Apply the proposals, then run again: nothing new should be assigned.
	byID := make(map[string]string, len(first.Assigned))
	for _, a := range first.Assigned {
		byID[a.TransactionID] = a.Category
	}
	for i := range txs {
		if cat, ok := byID[txs[i].ID]; ok {
			txs[i].Category = cat
		}
	}

	second := AutoCategorize(txs, DefaultRules)
	if len(second.Assigned) != 0 {
		t.Errorf("second pass Assigned = %+v, want none", second.Assigned)
	}
	if len(second.Unmatched) != 0 {
		t.Errorf("second pass Unmatched = %v, want none", second.Unmatched)
	}
}

func TestAutoCategorizeEmptyInput(t *testing.T) {
	got := AutoCategorize(nil, DefaultRules)
	if got.Assigned == nil || got.Unmatched == nil {
		t.Error("result slices must be empty, not nil")
	}
}

func TestMatchByKeywords(t *testing.T) {
	day := date(2026, time.March, 10)
	txs := []core.Transaction{
		tx(core.Expense, "Uber al aeropuerto", "Transporte", "250", day),
		tx(core.Expense, "UBER EATS", "Comida", "180", day),
		tx(core.Expense, "taxi nocturno", "Transporte", "90", day),
		tx(core.Income, "uber payout", "", "1200", day),
	}

	tests := []struct {
		name      string
		keywords  []string
		wantCount int
		wantTotal string
	}{
		{name: "single keyword", keywords: []string{"uber"}, wantCount: 2, wantTotal: "430"},
		{name: "multiple keywords count each transaction once", keywords: []string{"uber", "eats"}, wantCount: 2, wantTotal: "430"},
		{name: "case and whitespace insensitive", keywords: []string{"  TAXI "}, wantCount: 1, wantTotal: "90"},
		{name: "blank keywords ignored", keywords: []string{"", "  "}, wantCount: 0, wantTotal: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchByKeywords(txs, tt.keywords)
			if len(got.Transactions) != tt.wantCount {
				t.Errorf("len(Transactions) = %d, want %d", len(got.Transactions), tt.wantCount)
			}
			if !got.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", got.Total, tt.wantTotal)
			}
		})
	}
}
