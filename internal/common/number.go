package common

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Number is a float64 that also accepts numeric strings in JSON input
// ("500000" and 500000 decode the same way). NaN and infinities are rejected.
type Number float64

// Float64 returns n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// NumberPtr converts an optional Number.
func NumberPtr(n *Number) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	kind := "number"
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		kind = "string"
	}
	f, err := ParseNumber(raw)
	if err != nil {
		return &json.UnmarshalTypeError{Value: kind + " " + raw, Type: reflect.TypeOf(float64(0))}
	}
	*n = Number(f)
	return nil
}

// ParseNumber parses a finite decimal number.
func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
