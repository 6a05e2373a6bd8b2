package registry

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// StructuralKey encodes a parameter's identity-bearing attributes in a fixed
// order. Numbers are compared by exact value, so 20 and 20.0 produce the same
// key while integers beyond float64 precision stay distinct.
func StructuralKey(kind ParamKind, label string, value any, unit string) string {
	canon := struct {
		Kind  ParamKind `json:"kind"`
		Label string    `json:"label"`
		Value string    `json:"value"`
		Unit  string    `json:"unit"`
	}{kind, label, canonicalValue(value), unit}

	b, err := json.Marshal(canon)
	if err != nil {
		// Only strings are marshalled; this cannot fail.
		panic(fmt.Sprintf("registry: encoding structural key: %v", err))
	}
	return string(b)
}

func canonicalValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + x
	case json.Number:
		return numberKey(x.String())
	case float64:
		return numberKey(strconv.FormatFloat(x, 'g', -1, 64))
	case float32:
		return numberKey(strconv.FormatFloat(float64(x), 'g', -1, 32))
	case int:
		return numberKey(strconv.Itoa(x))
	case int64:
		return numberKey(strconv.FormatInt(x, 10))
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

// numberKey reduces a decimal literal to its exact rational value.
func numberKey(lit string) string {
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return "n:" + lit
	}
	return "n:" + r.RatString()
}
