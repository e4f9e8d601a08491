package permissions

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/issuetracker/internal/common"
)

// Action is a gated operation. Its value is its bit index in a Vector.
type Action uint8

const (
	Create Action = 0
	Edit   Action = 1
	View   Action = 2
	Delete Action = 3
)

// Size is the number of bits in a Vector.
const Size = 4

var actionNames = [Size]string{
	Create: "create",
	Edit:   "edit",
	View:   "view",
	Delete: "delete",
}

// Actions lists every action in bit order.
func Actions() [Size]Action {
	return [Size]Action{Create, Edit, View, Delete}
}

func (a Action) String() string {
	if a >= Size {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return actionNames[a]
}

// ParseAction maps a lowercase action name to its Action.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown action %q", common.ErrInvalidInput, name)
}

// Vector holds the four permission bits in its low nibble; bit i of the
// integer is action i.
type Vector uint8

const mask Vector = 1<<Size - 1

// Default is assigned on signup: create and view.
var Default = Vector(0).With(Create, true).With(View, true)

// Has reports whether action a is allowed. Unknown actions are never allowed.
func (v Vector) Has(a Action) bool {
	if a >= Size {
		return false
	}
	return v&(1<<a) != 0
}

// With returns a copy of v with action a set to allowed.
func (v Vector) With(a Action, allowed bool) Vector {
	if a >= Size {
		return v
	}
	if allowed {
		return (v | 1<<a) & mask
	}
	return (v &^ (1 << a)) & mask
}

// Bools returns the vector in bit order.
func (v Vector) Bools() [Size]bool {
	var out [Size]bool
	for _, a := range Actions() {
		out[a] = v.Has(a)
	}
	return out
}

// Ints returns the vector in bit order as 0/1 values, the wire format.
func (v Vector) Ints() [Size]int {
	var out [Size]int
	for _, a := range Actions() {
		if v.Has(a) {
			out[a] = 1
		}
	}
	return out
}

// String renders the vector in BIT(4) form, index 0 first: Default is "1010".
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(Size)
	for _, a := range Actions() {
		if v.Has(a) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseVector is the inverse of String.
func ParseVector(s string) (Vector, error) {
	if len(s) != Size {
		return 0, fmt.Errorf("%w: permission bits must have length %d, got %q", common.ErrInvalidInput, Size, s)
	}
	var v Vector
	for i := 0; i < Size; i++ {
		switch s[i] {
		case '1':
			v = v.With(Action(i), true)
		case '0':
		default:
			return 0, fmt.Errorf("%w: permission bits must be 0 or 1, got %q", common.ErrInvalidInput, s)
		}
	}
	return v, nil
}
