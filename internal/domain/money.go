package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Price is a backend money value. The backend is inconsistent about whether
// prices arrive as JSON numbers or strings, so the raw text is kept and parsed
// on demand.
type Price string

// UnmarshalJSON accepts both `"12.50"` and `12.5`.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if string(data) == "null" {
		*p = ""
		return nil
	}
	*p = Price(data)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(string(p))), nil
}

// Amount returns the numeric value of the price. Unparsable values count as
// zero so a bad catalog row never poisons a cart total.
func (p Price) Amount() float64 {
	v, err := strconv.ParseFloat(string(p), 64)
	if err != nil {
		return 0
	}
	return v
}

// Format renders the price for display.
func (p Price) Format() string {
	if p == "" {
		return "N/A"
	}
	if _, err := strconv.ParseFloat(string(p), 64); err != nil {
		return "Invalid Price"
	}
	return FormatAmount(p.Amount())
}

// FormatAmount renders a numeric amount in the display currency.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("₱%.2f", amount)
}
