package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Pins grammar (layout constraints)
//
// Format: "pins=K=V:K=V:..."
// Keys:
//	L  leading   (to parent.leading)  constant in points
//	R  trailing  (to parent.trailing) constant, often negative for inset
//	T  top       (to parent.top)
//	B  bottom    (to parent.bottom)   often negative for inset
//	CX centerX   (to parent.centerX)
//	CY centerY   (to parent.centerY)
//	W  width     (constant)
//	H  height    (constant)

const pinsPrefix = "pins="

// PinKeys is the closed key set of the pins grammar.
var PinKeys = []string{"L", "R", "T", "B", "CX", "CY", "W", "H"}

var pinKeySet = func() map[string]bool {
	m := make(map[string]bool, len(PinKeys))
	for _, k := range PinKeys {
		m[k] = true
	}
	return m
}()

// Pin is a single key=value constraint.
type Pin struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Pins is an ordered constraint list. Order is preserved so that
// formatting a parsed string restores the original literal.
type Pins []Pin

// ParsePins parses "pins=L=0:R=-6:CY=0". It collects every problem in the
// string rather than stopping at the first, so a rejected patch names all
// offending parts at once.
func ParsePins(s string) (Pins, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &LayoutGrammarError{Pins: s, Problems: []string{"empty pins string"}}
	}
	if !strings.HasPrefix(trimmed, pinsPrefix) {
		return nil, &LayoutGrammarError{Pins: s, Problems: []string{`missing "pins=" prefix`}}
	}
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, pinsPrefix))
	if body == "" {
		return nil, &LayoutGrammarError{Pins: s, Problems: []string{"no key=value pairs"}}
	}

	var (
		out      Pins
		problems []string
		seen     = make(map[string]bool)
	)
	for _, part := range strings.Split(body, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, rawVal, ok := strings.Cut(part, "=")
		if !ok {
			problems = append(problems, fmt.Sprintf("part %q is not key=value", part))
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		rawVal = strings.TrimSpace(rawVal)
		if !pinKeySet[key] {
			problems = append(problems, fmt.Sprintf("unknown key %q", key))
			continue
		}
		val, err := strconv.ParseFloat(rawVal, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("bad value %s=%q", key, rawVal))
			continue
		}
		if seen[key] {
			continue // keep first occurrence
		}
		seen[key] = true
		out = append(out, Pin{Key: key, Value: val})
	}

	if len(problems) > 0 {
		return nil, &LayoutGrammarError{Pins: s, Problems: problems}
	}
	if len(out) == 0 {
		return nil, &LayoutGrammarError{Pins: s, Problems: []string{"no key=value pairs"}}
	}
	return out, nil
}

// String formats back to the literal grammar. Integral values print
// without a decimal part, matching the canonical form.
func (p Pins) String() string {
	parts := make([]string, 0, len(p))
	for _, pin := range p {
		parts = append(parts, pin.Key+"="+formatPinValue(pin.Value))
	}
	return pinsPrefix + strings.Join(parts, ":")
}

func formatPinValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
