package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MajorAmount holds a decimal amount in major units as supplied at the API
// boundary, where it may arrive as a JSON string ("123.45") or number
// (123.45). The core engine only ever sees integer minor units.
type MajorAmount string

func (a *MajorAmount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = MajorAmount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*a = MajorAmount(n.String())
	return nil
}

// ToMinorUnits converts the amount to integer minor units, rounding to the
// nearest unit. Amounts that do not round to a positive integer are rejected.
func (a MajorAmount) ToMinorUnits() (int64, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(string(a)), ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", string(a))
	}

	minor := int64(math.Round(value * 100))
	if minor <= 0 {
		return 0, fmt.Errorf("invalid amount %q", string(a))
	}
	return minor, nil
}

// FormatMinorUnits renders minor units as a two-decimal major unit string.
func FormatMinorUnits(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
