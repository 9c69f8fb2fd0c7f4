package wexpr

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
)

// Marshal reflects v (a struct or pointer to struct) into a Value tree and
// encodes it. It is the inverse of Unmarshal: it walks the struct's fields
// directly, applying the same field-naming and wexpr tag rules Unmarshal
// uses, writing instead of reading.
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, fmt.Errorf("wexpr: Marshal target is a nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("wexpr: Marshal target must be a struct or pointer to struct")
	}
	value, err := marshalStruct(val)
	if err != nil {
		return nil, err
	}
	text, err := Encode(value, false, nil)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func marshalStruct(s reflect.Value) (Value, error) {
	m := NewMap()
	ty := s.Type()
	for i := 0; i < ty.NumField(); i++ {
		field := ty.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("wexpr"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fv, err := marshalValue(s.Field(i))
		if err != nil {
			return Value{}, fmt.Errorf("wexpr: field %q: %w", name, err)
		}
		m.Map[StringKey(name)] = fv
	}
	return m, nil
}

func marshalValue(fv reflect.Value) (Value, error) {
	if fv.CanInterface() {
		if marshaler, ok := textMarshaler(fv); ok {
			text, err := marshaler.MarshalText()
			if err != nil {
				return Value{}, err
			}
			return String(string(text)), nil
		}
	}
	switch fv.Kind() {
	case reflect.Bool:
		return Bool(fv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(fv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(fv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(fv.Float()), nil
	case reflect.String:
		return String(fv.String()), nil
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary(append([]byte(nil), fv.Bytes()...)), nil
		}
		if fv.IsNil() {
			return NewArray(), nil
		}
		arr := NewArray()
		for i := 0; i < fv.Len(); i++ {
			elem, err := marshalValue(fv.Index(i))
			if err != nil {
				return Value{}, err
			}
			arr.Arr = append(arr.Arr, elem)
		}
		return arr, nil
	case reflect.Pointer:
		if fv.IsNil() {
			return Null(), nil
		}
		return marshalValue(fv.Elem())
	case reflect.Struct:
		return marshalStruct(fv)
	default:
		return Value{}, fmt.Errorf("unsupported field type %s", fv.Type())
	}
}

func textMarshaler(fv reflect.Value) (encoding.TextMarshaler, bool) {
	if u, ok := fv.Interface().(encoding.TextMarshaler); ok {
		return u, true
	}
	if fv.CanAddr() {
		if u, ok := fv.Addr().Interface().(encoding.TextMarshaler); ok {
			return u, true
		}
	}
	return nil, false
}
