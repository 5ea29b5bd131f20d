package markup

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/danderson/markup/attr"
)

// A literalFunc converts a plain literal into a value of one specific
// type.
type literalFunc func(text string) (reflect.Value, error)

// A formatFunc converts a value of one specific type into a plain
// literal.
type formatFunc func(v reflect.Value) (string, error)

var (
	literals   cache[reflect.Type, literalFunc]
	formatters cache[reflect.Type, formatFunc]
)

// literalFor returns the literal converter for t, or an error if t
// has no string converter.
//
// The returned error is a plain description of why t is not
// convertible, callers attach the NoConverterAvailable kind and the
// offending token.
func literalFor(t reflect.Type) (ret literalFunc, err error) {
	if t == nil {
		return nil, errors.New("nil type")
	}
	if ret, err := literals.Get(t); err == nil {
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return nil, err
	}
	// Note, defer captures the type value before we mess with it
	// below.
	defer func(t reflect.Type) {
		if err != nil {
			literals.SetErr(t, err)
		} else {
			literals.Set(t, ret)
		}
	}(t)

	if t.Kind() != reflect.Pointer && implementsOwn(t, textUnmarshalerType) {
		return newTextLiteral(t), nil
	}
	if t == reflectTypeType {
		return nil, errors.New("types can only be given with {x:Type Name}")
	}

	k := t.Kind()
	switch {
	case k == reflect.Pointer:
		return newPtrLiteral(t)
	case k == reflect.Bool:
		return newBoolLiteral(t), nil
	case intKinds.Has(k):
		return newIntLiteral(t), nil
	case uintKinds.Has(k):
		return newUintLiteral(t), nil
	case floatKinds.Has(k):
		return newFloatLiteral(t), nil
	case k == reflect.String:
		return newStringLiteral(t), nil
	case k == reflect.Interface && t.NumMethod() == 0:
		return newAnyLiteral(t), nil
	}
	return nil, fmt.Errorf("%s has no string converter", t)
}

func newTextLiteral(t reflect.Type) literalFunc {
	return func(text string) (reflect.Value, error) {
		ret := reflect.New(t)
		if err := ret.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, err
		}
		return ret.Elem(), nil
	}
}

func newPtrLiteral(t reflect.Type) (literalFunc, error) {
	elem, err := literalFor(t.Elem())
	if err != nil {
		return nil, err
	}
	fn := func(text string) (reflect.Value, error) {
		v, err := elem(text)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(t.Elem())
		ret.Elem().Set(v)
		return ret, nil
	}
	return fn, nil
}

func newBoolLiteral(t reflect.Type) literalFunc {
	return func(text string) (reflect.Value, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(t).Elem()
		ret.SetBool(b)
		return ret, nil
	}
}

func newIntLiteral(t reflect.Type) literalFunc {
	bits := t.Bits()
	return func(text string) (reflect.Value, error) {
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, bits)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(t).Elem()
		ret.SetInt(i)
		return ret, nil
	}
}

func newUintLiteral(t reflect.Type) literalFunc {
	bits := t.Bits()
	return func(text string) (reflect.Value, error) {
		u, err := strconv.ParseUint(strings.TrimSpace(text), 10, bits)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(t).Elem()
		ret.SetUint(u)
		return ret, nil
	}
}

func newFloatLiteral(t reflect.Type) literalFunc {
	bits := t.Bits()
	return func(text string) (reflect.Value, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(text), bits)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(t).Elem()
		ret.SetFloat(f)
		return ret, nil
	}
}

func newStringLiteral(t reflect.Type) literalFunc {
	return func(text string) (reflect.Value, error) {
		ret := reflect.New(t).Elem()
		ret.SetString(attr.UnescapeLiteral(text))
		return ret, nil
	}
}

func newAnyLiteral(t reflect.Type) literalFunc {
	return func(text string) (reflect.Value, error) {
		ret := reflect.New(t).Elem()
		ret.Set(reflect.ValueOf(attr.UnescapeLiteral(text)))
		return ret, nil
	}
}

// formatterFor returns the literal formatter for t, or an error if t
// cannot be written as a plain literal.
func formatterFor(t reflect.Type) (ret formatFunc, err error) {
	if t == nil {
		return nil, errors.New("nil type")
	}
	if ret, err := formatters.Get(t); err == nil {
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return nil, err
	}
	defer func(t reflect.Type) {
		if err != nil {
			formatters.SetErr(t, err)
		} else {
			formatters.Set(t, ret)
		}
	}(t)

	if implementsOwn(t, textMarshalerType) {
		if t.Implements(textMarshalerType) {
			return newTextFormatter(), nil
		} else if t.Kind() != reflect.Pointer {
			return newAddrTextFormatter(t), nil
		}
	}

	k := t.Kind()
	switch {
	case k == reflect.Pointer:
		return newPtrFormatter(t)
	case k == reflect.Bool:
		return func(v reflect.Value) (string, error) {
			return strconv.FormatBool(v.Bool()), nil
		}, nil
	case intKinds.Has(k):
		return func(v reflect.Value) (string, error) {
			return strconv.FormatInt(v.Int(), 10), nil
		}, nil
	case uintKinds.Has(k):
		return func(v reflect.Value) (string, error) {
			return strconv.FormatUint(v.Uint(), 10), nil
		}, nil
	case floatKinds.Has(k):
		bits := t.Bits()
		return func(v reflect.Value) (string, error) {
			return strconv.FormatFloat(v.Float(), 'g', -1, bits), nil
		}, nil
	case k == reflect.String:
		return newStringFormatter(), nil
	}
	return nil, fmt.Errorf("%s has no string converter", t)
}

func newTextFormatter() formatFunc {
	return func(v reflect.Value) (string, error) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nullText, nil
		}
		bs, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", err
		}
		return string(bs), nil
	}
}

func newAddrTextFormatter(t reflect.Type) formatFunc {
	ptr := newTextFormatter()
	return func(v reflect.Value) (string, error) {
		if !v.CanAddr() {
			cp := reflect.New(t)
			cp.Elem().Set(v)
			v = cp.Elem()
		}
		return ptr(v.Addr())
	}
}

func newPtrFormatter(t reflect.Type) (formatFunc, error) {
	elem, err := formatterFor(t.Elem())
	if err != nil {
		return nil, err
	}
	fn := func(v reflect.Value) (string, error) {
		if v.IsNil() {
			return nullText, nil
		}
		return elem(v.Elem())
	}
	return fn, nil
}

// newStringFormatter returns a formatter that protects strings that
// would otherwise be mistaken for compact values with the "{}" escape
// prefix.
func newStringFormatter() formatFunc {
	return func(v reflect.Value) (string, error) {
		s := v.String()
		if strings.HasPrefix(strings.TrimSpace(s), "{") {
			return "{}" + s, nil
		}
		return s, nil
	}
}
