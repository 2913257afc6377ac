package rates

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<gesmes:Sender>
		<gesmes:name>European Central Bank</gesmes:name>
	</gesmes:Sender>
	<Cube>
		<Cube time="2026-08-27">
			<Cube currency="USD" rate="1.0850"/>
			<Cube currency="MXN" rate="19.8742"/>
			<Cube currency="JPY" rate="158.31"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func TestParseTable(t *testing.T) {
	table, err := parseTable([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parseTable() error = %v", err)
	}

	if table.Day != "2026-08-27" {
		t.Errorf("Day = %s, want 2026-08-27", table.Day)
	}
	if len(table.Rates) != 3 {
		t.Errorf("len(Rates) = %d, want 3", len(table.Rates))
	}
	if !table.Rates["MXN"].Equal(decimal.RequireFromString("19.8742")) {
		t.Errorf("MXN rate = %s, want 19.8742", table.Rates["MXN"])
	}
}

func TestParseTableEmptyDocument(t *testing.T) {
	_, err := parseTable([]byte(`<?xml version="1.0"?><Envelope><Cube/></Envelope>`))
	if !errors.Is(err, ErrNoRates) {
		t.Errorf("parseTable() error = %v, want ErrNoRates", err)
	}
}

func TestTableConvert(t *testing.T) {
	table, err := parseTable([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parseTable() error = %v", err)
	}

	tests := []struct {
		name   string
		amount string
		from   string
		to     string
		want   string
	}{
		{name: "EUR to MXN", amount: "100", from: "EUR", to: "MXN", want: "1987.42"},
		{name: "MXN to EUR", amount: "1987.42", from: "MXN", to: "EUR", want: "100.00"},
		{name: "cross rate USD to MXN", amount: "100", from: "USD", to: "MXN", want: "1831.72"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Convert(%s %s->%s) = %s, want %s", tt.amount, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTableConvertUnknownCurrency(t *testing.T) {
	table, err := parseTable([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parseTable() error = %v", err)
	}

	if _, err := table.Convert(decimal.NewFromInt(1), "EUR", "XXX"); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Convert() error = %v, want ErrUnknownCurrency", err)
	}
}
