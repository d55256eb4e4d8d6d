package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRule is returned when a rule definition cannot be parsed.
var ErrInvalidRule = errors.New("invalid price rule")

// ParseRules builds rules from a comma separated definition list, e.g.
// "flat:2.5,bogo:3:1.0". Supported kinds:
//
//	flat:<unitPrice>
//	bogo:<n>:<unitPrice>
func ParseRules(def string) ([]PriceRule, error) {
	if strings.TrimSpace(def) == "" {
		return nil, nil
	}
	parts := strings.Split(def, ",")
	rules := make([]PriceRule, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		rule, err := parseRule(trimmed)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseRule(def string) (PriceRule, error) {
	fields := strings.Split(def, ":")
	switch strings.ToLower(strings.TrimSpace(fields[0])) {
	case "flat":
		if len(fields) != 2 {
			return nil, fmt.Errorf("%q: flat expects 1 argument: %w", def, ErrInvalidRule)
		}
		price, err := parsePrice(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", def, err)
		}
		return FlatPerItem{UnitPrice: price}, nil
	case "bogo":
		if len(fields) != 3 {
			return nil, fmt.Errorf("%q: bogo expects 2 arguments: %w", def, ErrInvalidRule)
		}
		n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%q: threshold: %w", def, ErrInvalidRule)
		}
		price, err := parsePrice(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", def, err)
		}
		return BuyNGetOneFree{N: n, UnitPrice: price}, nil
	default:
		return nil, fmt.Errorf("%q: unknown kind: %w", def, ErrInvalidRule)
	}
}

func parsePrice(value string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || price < 0 {
		return 0, fmt.Errorf("unit price %q: %w", value, ErrInvalidRule)
	}
	return price, nil
}
