package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexInt decodes a JSON number or numeric string. Anything else, including
// an absent field, decodes to 0. Fractions are truncated.
type FlexInt struct {
	Set   bool
	Value int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.Set = true
	f.Value = 0
	d, ok := flexDecimal(data)
	if ok {
		f.Value = int(d.IntPart())
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(f.Value)), nil
}

// Int returns the value or fallback when the field was absent.
func (f FlexInt) Int(fallback int) int {
	if !f.Set {
		return fallback
	}
	return f.Value
}

// FlexDecimal is FlexInt for signed money amounts.
type FlexDecimal struct {
	Set   bool
	Value decimal.Decimal
}

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	f.Set = true
	f.Value = decimal.Zero
	if d, ok := flexDecimal(data); ok {
		f.Value = d
	}
	return nil
}

func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

func flexDecimal(data []byte) (decimal.Decimal, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, false
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, false
		}
		raw = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
