package atomic

import (
	"errors"
	"fmt"
	"math"

	"github.com/Azizi-X/atomics/debug"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")

	debugger Reference[debug.Debugger]
)

// SetDebugger installs d to receive every rejected argument. Pass nil to stop
// reporting.
func SetDebugger(d *debug.Debugger) {
	debugger.Set(d)
}

func invalid(format string, args ...any) error {
	err := fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
	debugger.Get().Publish(err)
	return err
}

// MarkOf accepts only a bool. Nothing else is treated as truthy or falsy.
func MarkOf(v any) (bool, error) {
	mark, ok := v.(bool)
	if !ok {
		return false, invalid("mark must be bool, got %T", v)
	}
	return mark, nil
}

// IntegerOf builds an Integer from any Go integer kind that fits in an int64.
func IntegerOf(v any) (*Integer, error) {
	var n int64

	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, invalid("%d overflows int64", x)
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return nil, invalid("%d overflows int64", x)
		}
		n = int64(x)
	case uintptr:
		if uint64(x) > math.MaxInt64 {
			return nil, invalid("%d overflows int64", x)
		}
		n = int64(x)
	default:
		return nil, invalid("value must be an integer, got %T", v)
	}

	return NewInteger(n), nil
}

func referenceOf[T any](v any) (*T, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *T:
		return x, nil
	default:
		var want *T
		return nil, invalid("reference must be %T or nil, got %T", want, v)
	}
}

// ReferenceOf accepts nil or a *T.
func ReferenceOf[T any](v any) (*Reference[T], error) {
	ref, err := referenceOf[T](v)
	if err != nil {
		return nil, err
	}
	return NewReference(ref), nil
}

// MarkableReferenceOf accepts nil or a *T for ref, and a bool for mark.
func MarkableReferenceOf[T any](ref, mark any) (*MarkableReference[T], error) {
	r, err := referenceOf[T](ref)
	if err != nil {
		return nil, err
	}

	m, err := MarkOf(mark)
	if err != nil {
		return nil, err
	}

	return NewMarkableReference(r, m), nil
}
