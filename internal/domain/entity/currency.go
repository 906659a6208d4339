package entity

import "strings"

// Currency is a quote currency offered by the dashboard.
type Currency struct {
	Code   string `json:"name"`
	Symbol string `json:"symbol"`
}

var (
	USD = Currency{Code: "usd", Symbol: "$"}
	EUR = Currency{Code: "eur", Symbol: "€"}
	INR = Currency{Code: "inr", Symbol: "₹"}
)

var supportedCurrencies = []Currency{USD, EUR, INR}

// Currencies returns the supported quote currencies in display order.
func Currencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// ResolveCurrency maps a currency code to a supported Currency, falling back to USD.
func ResolveCurrency(code string) Currency {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, c := range supportedCurrencies {
		if c.Code == code {
			return c
		}
	}
	return USD
}

// ISO returns the upper-case ISO 4217 code.
func (c Currency) ISO() string { return strings.ToUpper(c.Code) }
