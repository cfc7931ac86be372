package envelope

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Kind is one of the payload variants a response may carry.
type Kind uint8

const (
	KindNumber Kind = 1 << iota
	KindString
	KindBool
	KindList
)

// AnyKind permits every variant.
const AnyKind = KindNumber | KindString | KindBool | KindList

func (k Kind) String() string {
	var parts []string
	if k&KindNumber != 0 {
		parts = append(parts, "number")
	}
	if k&KindString != 0 {
		parts = append(parts, "string")
	}
	if k&KindBool != 0 {
		parts = append(parts, "boolean")
	}
	if k&KindList != 0 {
		parts = append(parts, "list")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Has reports whether every variant in other is also in k.
func (k Kind) Has(other Kind) bool {
	return other != 0 && k&other == other
}

// KindOf classifies v. Lists may only hold numbers and strings.
func KindOf(v any) (Kind, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: nil", ErrInvalidDataShape)
	}
	if _, ok := v.(json.Number); ok {
		return KindNumber, nil
	}
	rv := reflect.ValueOf(v)
	if isNonFinite(rv) {
		return 0, fmt.Errorf("%w: non-finite number %v", ErrInvalidDataShape, v)
	}
	if k, ok := scalarKind(rv); ok {
		return k, nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return 0, fmt.Errorf("%w: nil list", ErrInvalidDataShape)
		}
		// encoding/json writes byte slices as base64 strings.
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return 0, fmt.Errorf("%w: byte slice", ErrInvalidDataShape)
		}
		for i := 0; i < rv.Len(); i++ {
			if !isListItem(rv.Index(i)) {
				return 0, fmt.Errorf("%w: list item %d is %s", ErrInvalidDataShape, i, describe(rv.Index(i)))
			}
		}
		return KindList, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidDataShape, describe(rv))
}

func isNonFinite(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return math.IsNaN(f) || math.IsInf(f, 0)
	}
	return false
}

func scalarKind(rv reflect.Value) (Kind, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindNumber, true
	case reflect.Float32, reflect.Float64:
		return KindNumber, !isNonFinite(rv)
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	}
	return 0, false
}

func isListItem(rv reflect.Value) bool {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if _, ok := rv.Interface().(json.Number); ok {
		return true
	}
	k, ok := scalarKind(rv)
	return ok && (k == KindNumber || k == KindString)
}

func describe(rv reflect.Value) string {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "nil"
		}
		rv = rv.Elem()
	}
	return rv.Kind().String()
}
