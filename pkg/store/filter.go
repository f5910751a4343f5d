package store

import (
	"strings"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

// matchesFilters reports whether a record satisfies every filter. A
// filter value that is itself a map is treated as an operator document
// ($eq, $ne, $gt, $gte, $lt, $lte, $in, $contains); anything else is a
// plain equality test. A record missing a filtered field never matches.
func matchesFilters(row models.Record, filters map[string]any) bool {
	for key, want := range filters {
		have, ok := row[key]
		if !ok {
			return false
		}
		ops, isOps := want.(map[string]any)
		if !isOps {
			if !looseEqual(have, want) {
				return false
			}
			continue
		}
		for op, operand := range ops {
			if !applyOperator(op, have, operand) {
				return false
			}
		}
	}
	return true
}

func applyOperator(op string, have, operand any) bool {
	switch op {
	case "$eq":
		return looseEqual(have, operand)
	case "$ne":
		return !looseEqual(have, operand)
	case "$gt":
		return compare(have, operand) > 0
	case "$gte":
		return compare(have, operand) >= 0
	case "$lt":
		return compare(have, operand) < 0
	case "$lte":
		return compare(have, operand) <= 0
	case "$in":
		list, ok := operand.([]any)
		if !ok {
			return false
		}
		for _, el := range list {
			if looseEqual(have, el) {
				return true
			}
		}
		return false
	case "$contains":
		needle := strings.ToLower(jsonutil.FlexibleString(operand))
		return strings.Contains(strings.ToLower(jsonutil.FlexibleString(have)), needle)
	default:
		return false
	}
}

// looseEqual compares numerically when both values coerce to numbers,
// by string rendering otherwise.
func looseEqual(a, b any) bool {
	fa, aok := jsonutil.FlexibleNumber(a)
	fb, bok := jsonutil.FlexibleNumber(b)
	if aok && bok {
		return fa == fb
	}
	if aok != bok {
		return false
	}
	return jsonutil.FlexibleString(a) == jsonutil.FlexibleString(b)
}

func compare(a, b any) int {
	fa, aok := jsonutil.FlexibleNumber(a)
	fb, bok := jsonutil.FlexibleNumber(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(jsonutil.FlexibleString(a), jsonutil.FlexibleString(b))
}
