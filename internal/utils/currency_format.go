package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExponents lists ISO 4217 currencies whose minor unit is not 1/100.
var minorUnitExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// CurrencyPrecision returns the number of minor-unit digits of a currency (2 unless listed).
func CurrencyPrecision(currencyCode string) int32 {
	if exp, ok := minorUnitExponents[strings.ToUpper(currencyCode)]; ok {
		return exp
	}
	return 2
}

// MinorUnitsToDecimal converts an integer amount in minor units into an exact decimal.
// Example: -450 USD returns -4.50
func MinorUnitsToDecimal(amountMinor int64, currencyCode string) decimal.Decimal {
	return decimal.New(amountMinor, -CurrencyPrecision(currencyCode))
}

// FormatMinorUnits renders a minor-unit amount with the precision of its currency.
// Example: -450 USD returns "-4.50"
// Example: 1200 JPY returns "1200"
func FormatMinorUnits(amountMinor int64, currencyCode string) string {
	return MinorUnitsToDecimal(amountMinor, currencyCode).StringFixed(CurrencyPrecision(currencyCode))
}
