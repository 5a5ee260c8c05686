package metadata

import (
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidFilter indicates a malformed filter expression or an
// unsupported operator.
type ErrInvalidFilter struct {
	Key      string
	Operator string
	Reason   string
}

func (e *ErrInvalidFilter) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("invalid metadata filter: key %q operator %q: %s", e.Key, e.Operator, e.Reason)
	}
	return fmt.Sprintf("invalid metadata filter: key %q: %s", e.Key, e.Reason)
}

// operators that take an array literal as operand.
var arrayOperandOps = map[Operator]bool{
	OpIn:    true,
	OpNotIn: true,
}

// ParseFilter converts a JSON-shaped filter expression into a FilterSet.
//
// Each top-level key maps to either a literal value (implicit equality)
// or an operator object such as {"$gte": 10}. Multiple keys AND together,
// and multiple operators under one key AND together as well:
//
//	{
//	    "agent":  "risk-scorer",            // implicit $eq
//	    "amount": {"$gte": 100, "$lt": 500},
//	    "region": {"$in": ["eu", "us"]},
//	    "flag":   {"$exists": false},
//	}
//
// Keys are processed in sorted order so the resulting FilterSet is
// deterministic for identical input.
func ParseFilter(expr map[string]any) (*FilterSet, error) {
	if len(expr) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(expr))
	for k := range expr {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fs := &FilterSet{}
	for _, key := range keys {
		filters, err := parseCondition(key, expr[key])
		if err != nil {
			return nil, err
		}
		fs.Filters = append(fs.Filters, filters...)
	}
	return fs, nil
}

func parseCondition(key string, raw any) ([]Filter, error) {
	opObj, ok := raw.(map[string]any)
	if !ok || !isOperatorObject(opObj) {
		// Literal value, implicit equality.
		v, err := FromAny(raw)
		if err != nil {
			return nil, &ErrInvalidFilter{Key: key, Reason: err.Error()}
		}
		return []Filter{{Key: key, Operator: OpEqual, Value: v}}, nil
	}

	ops := make([]string, 0, len(opObj))
	for op := range opObj {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	filters := make([]Filter, 0, len(ops))
	for _, name := range ops {
		op, err := parseOperator(key, name)
		if err != nil {
			return nil, err
		}
		operand, err := parseOperand(key, name, op, opObj[name])
		if err != nil {
			return nil, err
		}
		filters = append(filters, Filter{Key: key, Operator: op, Value: operand})
	}
	return filters, nil
}

// isOperatorObject reports whether every key of the object is $-prefixed.
// A map that mixes operators and plain keys is malformed and rejected by
// parseOperator; a map with no $-keys at all is a nested-object literal.
func isOperatorObject(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func parseOperator(key, name string) (Operator, error) {
	if !strings.HasPrefix(name, "$") {
		return "", &ErrInvalidFilter{Key: key, Operator: name, Reason: "operator must start with $"}
	}

	op := Operator(strings.TrimPrefix(name, "$"))
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterEqual,
		OpLessThan, OpLessEqual, OpIn, OpNotIn, OpExists, OpContains:
		return op, nil
	default:
		return "", &ErrInvalidFilter{Key: key, Operator: name, Reason: "unsupported operator"}
	}
}

func parseOperand(key, name string, op Operator, raw any) (Value, error) {
	v, err := FromAny(raw)
	if err != nil {
		return Value{}, &ErrInvalidFilter{Key: key, Operator: name, Reason: err.Error()}
	}

	if arrayOperandOps[op] && v.Kind != KindArray {
		return Value{}, &ErrInvalidFilter{Key: key, Operator: name, Reason: "operand must be an array"}
	}
	if op == OpExists && v.Kind != KindBool {
		return Value{}, &ErrInvalidFilter{Key: key, Operator: name, Reason: "operand must be a boolean"}
	}
	return v, nil
}
