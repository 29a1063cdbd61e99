package logger

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// InspectDepth bounds how deep nested values are expanded
const InspectDepth = 4

var inspector = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                InspectDepth,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Inspect renders one log argument. Strings are kept verbatim, scalars,
// errors and Stringers use their usual text, anything structured is
// dumped to at most InspectDepth levels.
func Inspect(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "<nil>"
	case error, fmt.Stringer:
		// fmt recovers from panics in nil receivers
		return fmt.Sprint(t)
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64, complex64, complex128:
		return fmt.Sprint(t)
	case []byte:
		return string(t)
	default:
		return strings.TrimRight(inspector.Sdump(t), "\n")
	}
}

// Render inspects every argument and joins them with ", "
func Render(args ...interface{}) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return Inspect(args[0])
	}

	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Inspect(arg)
	}
	return strings.Join(parts, ", ")
}
