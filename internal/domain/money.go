package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in a single currency as sent by the booking service.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// IsUnset reports whether m was left out of the payload: no currency and a
// zero amount.
func (m Money) IsUnset() bool {
	return m.Currency == "" && m.Amount.IsZero()
}

// PriceInfo is the display structure the price components render.
type PriceInfo struct {
	Amount                    decimal.Decimal `json:"amount"`
	Currency                  string          `json:"currency"`
	CurrencyValueString       string          `json:"currencyValueString"`
	SignedCurrencyValueString string          `json:"signedCurrencyValueString"`
}

// NewPriceInfo derives the display strings for amount in currency.
// The strings carry the magnitude; the sign lives only in the signed variant.
func NewPriceInfo(amount decimal.Decimal, currency string) PriceInfo {
	sign := "+"
	if amount.IsNegative() {
		sign = "-"
	}
	value := currency + " " + amount.Abs().String()
	return PriceInfo{
		Amount:                    amount,
		Currency:                  currency,
		CurrencyValueString:       value,
		SignedCurrencyValueString: sign + value,
	}
}
