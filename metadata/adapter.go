package metadata

import "fmt"

// FromAny converts a Go value into a typed Value.
//
// This is the adapter layer between JSON-shaped request payloads
// (map[string]any) and the typed document model.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > uint64(^uint64(0)>>1) {
			// Avoid silently wrapping large values.
			return Value{}, fmt.Errorf("metadata uint64 out of range: %d", x)
		}
		return Int(int64(x)), nil
	case []Value:
		return Array(x), nil
	case []any:
		arr := make([]Value, len(x))
		for i := range x {
			vv, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			arr[i] = vv
		}
		return Array(arr), nil
	case []string:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = String(x[i])
		}
		return Array(arr), nil
	case []int:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Int(int64(x[i]))
		}
		return Array(arr), nil
	case []float64:
		arr := make([]Value, len(x))
		for i := range x {
			arr[i] = Float(x[i])
		}
		return Array(arr), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, mv := range x {
			vv, err := FromAny(mv)
			if err != nil {
				return Value{}, err
			}
			m[k] = vv
		}
		return Map(m), nil
	case map[string]Value:
		return Map(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported metadata value type %T", v)
	}
}

// DocumentFromAny converts a map[string]any document to a typed Document.
func DocumentFromAny(m map[string]any) (Document, error) {
	d := make(Document, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, err
		}
		d[k] = vv
	}
	return d, nil
}

// ToAny converts a typed Value back into its JSON-shaped Go form.
//
// Integers stay int64 so numeric metadata survives a store/read
// round-trip without float coercion.
func ToAny(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindArray:
		arr := make([]any, len(v.A))
		for i := range v.A {
			arr[i] = ToAny(v.A[i])
		}
		return arr
	case KindMap:
		m := make(map[string]any, len(v.M))
		for k, mv := range v.M {
			m[k] = ToAny(mv)
		}
		return m
	default:
		return nil
	}
}

// DocumentToAny converts a typed Document back into a map[string]any.
//
// A nil document converts to an empty map: callers always see the
// metadata field, never a null.
func DocumentToAny(d Document) map[string]any {
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[k] = ToAny(v)
	}
	return m
}
