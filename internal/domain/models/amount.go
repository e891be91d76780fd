package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d*)(?:\.(\d*))?(?:[eE]([+-]?\d+))?`)

// maxMagnitude bounds the decimal exponent of a parsed amount. Anything larger
// reads as zero, anything smaller is rounded away, so sums never rescale huge
// numbers.
const maxMagnitude = 30

// ParseAmount reads the leading numeric part of s. Anything unparseable or out
// of range is zero and negative values are clamped to zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	m := numericPrefix.FindStringSubmatch(s)
	if m == nil || strings.HasPrefix(s, "-") {
		return decimal.Zero
	}

	intPart := strings.TrimLeft(m[1], "0")
	frac := m[2]
	if m[1] == "" && frac == "" {
		return decimal.Zero
	}

	exp := 0
	if m[3] != "" {
		e, err := strconv.Atoi(m[3])
		if err != nil || e > maxMagnitude || e < -maxMagnitude {
			return decimal.Zero
		}
		exp = e
	}
	if len(intPart)+exp > maxMagnitude {
		return decimal.Zero
	}
	if len(frac) > maxMagnitude {
		frac = frac[:maxMagnitude]
	}

	num := "0" + intPart
	if frac != "" {
		num += "." + frac
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	if exp != 0 {
		d = d.Shift(int32(exp))
	}
	return d
}

// Amount is a money value as the backend sends it: a string, a number or nothing.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		// numbers, booleans and anything else keep their literal text
		*a = Amount(b)
	}
	return nil
}

// Decimal is the tolerant parse of the amount.
func (a Amount) Decimal() decimal.Decimal {
	return ParseAmount(string(a))
}
