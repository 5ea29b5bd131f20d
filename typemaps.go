package markup

import (
	"encoding"
	"reflect"

	"github.com/creachadair/mds/mapset"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	reflectTypeType     = reflect.TypeFor[reflect.Type]()
	anyType             = reflect.TypeFor[any]()

	// intKinds is the set of signed integer kinds with a built-in
	// literal conversion.
	intKinds = mapset.New(
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
	)

	// uintKinds is the set of unsigned integer kinds with a built-in
	// literal conversion.
	uintKinds = mapset.New(
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
	)

	// floatKinds is the set of floating point kinds with a built-in
	// literal conversion.
	floatKinds = mapset.New(
		reflect.Float32,
		reflect.Float64,
	)

	// nillableKinds is the set of kinds that {x:Null} can be assigned
	// to.
	nillableKinds = mapset.New(
		reflect.Pointer,
		reflect.Interface,
		reflect.Slice,
		reflect.Map,
	)

	// sysTypes maps the names of the "sys" namespace to the Go types
	// they denote.
	sysTypes = map[string]reflect.Type{
		"String":  reflect.TypeFor[string](),
		"Boolean": reflect.TypeFor[bool](),
		"Byte":    reflect.TypeFor[uint8](),
		"SByte":   reflect.TypeFor[int8](),
		"Int16":   reflect.TypeFor[int16](),
		"UInt16":  reflect.TypeFor[uint16](),
		"Int32":   reflect.TypeFor[int32](),
		"UInt32":  reflect.TypeFor[uint32](),
		"Int64":   reflect.TypeFor[int64](),
		"UInt64":  reflect.TypeFor[uint64](),
		"Single":  reflect.TypeFor[float32](),
		"Double":  reflect.TypeFor[float64](),
		"Object":  anyType,
	}
)

// assignable reports whether a value of type vt can be stored in a
// value of type t.
func assignable(vt, t reflect.Type) bool {
	return vt != nil && vt.AssignableTo(t)
}
