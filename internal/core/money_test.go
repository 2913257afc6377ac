package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "dot separator", in: "12.34", want: "12.34"},
		{name: "comma separator", in: "12,34", want: "12.34"},
		{name: "integer", in: "500", want: "500"},
		{name: "surrounding whitespace", in: "  99.90  ", want: "99.9"},
		{name: "empty", in: "", wantErr: true},
		{name: "zero", in: "0", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "garbage", in: "doce pesos", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "pads to two places", in: "5", want: "5.00"},
		{name: "rounds half up", in: "2.345", want: "2.35"},
		{name: "truncates nothing below half", in: "2.344", want: "2.34"},
		{name: "negative balances format with sign", in: "-10.5", want: "-10.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("FormatAmount(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		part  string
		whole string
		want  string
	}{
		{name: "exact", part: "50", whole: "200", want: "25"},
		{name: "rounded", part: "1", whole: "3", want: "33.33"},
		{name: "over one hundred", part: "120", whole: "100", want: "120"},
		{name: "zero whole", part: "50", whole: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(decimal.RequireFromString(tt.part), decimal.RequireFromString(tt.whole))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Percent(%s, %s) = %s, want %s", tt.part, tt.whole, got, tt.want)
			}
		})
	}
}
