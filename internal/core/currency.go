package core

import "fmt"

// Currency maps an ISO-like code to its display symbol and name.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// SupportedCurrencies is the static reference table, loaded once. Immutable.
var SupportedCurrencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira"},
	{Code: "GHS", Symbol: "₵", Name: "Ghana Cedi"},
}

// CurrencySymbol returns the display symbol for a currency code. Unknown
// codes fall back to the code itself.
func CurrencySymbol(code string) string {
	for _, c := range SupportedCurrencies {
		if c.Code == code {
			return c.Symbol
		}
	}
	return code
}

// KnownCurrency reports whether the code is in the reference table.
func KnownCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// FormatCurrency renders an amount with its currency symbol and exactly two
// decimal places: FormatCurrency(9.9, "USD") == "$9.90".
func FormatCurrency(amount float64, code string) string {
	return fmt.Sprintf("%s%.2f", CurrencySymbol(code), amount)
}
