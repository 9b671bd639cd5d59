package currency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewFormatterRejectsBadLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale!"); err == nil {
		t.Error("NewFormatter must reject an unparsable locale")
	}
}

func TestFormatEnUS(t *testing.T) {
	f, err := NewFormatter("en-US")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "grouping and decimals", amount: "1234.5", want: "$1,234.50"},
		{name: "zero", amount: "0", want: "$0.00"},
		{name: "negative", amount: "-120.5", want: "-$120.50"},
		{name: "small fraction", amount: "0.01", want: "$0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format(decimal.RequireFromString(tt.amount))
			if got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatTrTRUsesLocalConventions(t *testing.T) {
	f, err := NewFormatter("tr-TR")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	got := f.Format(decimal.RequireFromString("1234.5"))
	// Turkish grouping uses "." and the decimal mark ",".
	if !strings.Contains(got, "1.234,50") {
		t.Errorf("Format(1234.5) = %q, want Turkish digit grouping", got)
	}
}
