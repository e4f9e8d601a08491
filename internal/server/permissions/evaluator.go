package permissions

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/issuetracker/internal/common"
)

// Holder is anything carrying a permission vector, such as a credential.
type Holder interface {
	PermissionVector() Vector
}

// Can reports whether h may perform action.
func Can(h Holder, action Action) bool {
	if h == nil {
		return false
	}
	return h.PermissionVector().Has(action)
}

// Normalize validates a requested vector coming from a client and converts
// it to a Vector. It needs exactly Size elements, each one of: an integer
// or integral float equal to 0 or 1, a json.Number of the same, a bool, or
// one of the strings "0", "1", "true", "false".
func Normalize(requested []any) (Vector, error) {
	if len(requested) != Size {
		return 0, fmt.Errorf("%w: permissions must have exactly %d elements, got %d", common.ErrInvalidInput, Size, len(requested))
	}

	var v Vector
	for i, raw := range requested {
		bit, ok := coerceBit(raw)
		if !ok {
			return 0, fmt.Errorf("%w: permission %d must be 0 or 1, got %v", common.ErrInvalidInput, i, raw)
		}
		v = v.With(Action(i), bit)
	}
	return v, nil
}

func coerceBit(raw any) (bool, bool) {
	switch x := raw.(type) {
	case bool:
		return x, true
	case int:
		return intBit(int64(x))
	case int8:
		return intBit(int64(x))
	case int16:
		return intBit(int64(x))
	case int32:
		return intBit(int64(x))
	case int64:
		return intBit(x)
	case uint:
		return uintBit(uint64(x))
	case uint8:
		return uintBit(uint64(x))
	case uint16:
		return uintBit(uint64(x))
	case uint32:
		return uintBit(uint64(x))
	case uint64:
		return uintBit(x)
	case float32:
		return floatBit(float64(x))
	case float64:
		return floatBit(x)
	case json.Number:
		return numberBit(x)
	case string:
		return stringBit(x)
	default:
		return false, false
	}
}

func intBit(n int64) (bool, bool) {
	switch n {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

func uintBit(n uint64) (bool, bool) {
	if n > 1 {
		return false, false
	}
	return n == 1, true
}

func floatBit(f float64) (bool, bool) {
	switch f {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

// numberBit accepts integer literals and integral floats such as 1.0 or 1e0.
func numberBit(n json.Number) (bool, bool) {
	if i, err := n.Int64(); err == nil {
		return intBit(i)
	}
	f, err := n.Float64()
	if err != nil {
		return false, false
	}
	return floatBit(f)
}

func stringBit(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	n, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return false, false
	}
	return intBit(n)
}
