package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var usdScale = decimal.New(1, USDDecimals)

// ParseUSD converts a decimal USD string such as "1500.25" into base units.
func ParseUSD(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid USD amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid USD amount %q: negative", s)
	}
	scaled := d.Mul(usdScale)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("invalid USD amount %q: more than %d decimals", s, USDDecimals)
	}
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("invalid USD amount %q: out of range", s)
	}
	return bi.Uint64(), nil
}

// FormatUSD renders base units as a decimal string with two decimals
func FormatUSD(v uint64) string {
	return decimal.NewFromUint64(v).Shift(-USDDecimals).StringFixed(2)
}
