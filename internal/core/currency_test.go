package core

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"usd trailing zero", 9.9, "USD", "$9.90"},
		{"usd two decimals", 15.99, "USD", "$15.99"},
		{"eur", 4.5, "EUR", "€4.50"},
		{"gbp", 12, "GBP", "£12.00"},
		{"ngn", 2500, "NGN", "₦2500.00"},
		{"unknown code falls back to code as symbol", 3.5, "XYZ", "XYZ3.50"},
		{"zero", 0, "USD", "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.amount, tt.code); got != tt.want {
				t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	if got := CurrencySymbol("USD"); got != "$" {
		t.Errorf("CurrencySymbol(USD) = %q, want $", got)
	}
	if got := CurrencySymbol("XYZ"); got != "XYZ" {
		t.Errorf("CurrencySymbol(XYZ) = %q, want the code itself", got)
	}
}

func TestKnownCurrency(t *testing.T) {
	for _, c := range SupportedCurrencies {
		if !KnownCurrency(c.Code) {
			t.Errorf("KnownCurrency(%q) = false for a supported currency", c.Code)
		}
	}
	if KnownCurrency("XYZ") {
		t.Error("KnownCurrency(XYZ) = true, want false")
	}
}
