package wexpr

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
)

// Unmarshal decodes wexpr source and reflects the resulting Value tree
// into v, which must be a non-nil pointer to a struct. This is a
// convenience layer built directly on Decode and the Value tree rather
// than reimplementing decode against Go types.
//
// A field's name is matched case-sensitively unless overridden with a
// struct tag: `wexpr:"field_name"`. A tag of "-" skips the field. If a
// field's type or its pointer implements encoding.TextUnmarshaler, a
// string value is decoded by calling UnmarshalText.
func Unmarshal(data []byte, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Type().Elem().Kind() != reflect.Struct {
		return fmt.Errorf("wexpr: Unmarshal target must be a non-nil pointer to a struct")
	}
	value, err := Decode(data, nil)
	if err != nil {
		return err
	}
	if value == nil || value.Kind != KindMap {
		return fmt.Errorf("wexpr: top-level document is not a map")
	}
	fields := make(map[structField]int)
	if err := fieldMap(fields, make(map[reflect.Type]bool), val.Type().Elem()); err != nil {
		return err
	}
	return unpackStruct(val.Elem(), fields, value.Map)
}

type structField struct {
	ty   reflect.Type
	name string
}

func fieldMap(out map[structField]int, seen map[reflect.Type]bool, s reflect.Type) error {
	if seen[s] {
		return nil
	}
	seen[s] = true
	for i := 0; i < s.NumField(); i++ {
		field := s.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldName := field.Name
		if tag, ok := field.Tag.Lookup("wexpr"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				fieldName = name
			}
		}
		if _, ok := out[structField{s, fieldName}]; ok {
			return fmt.Errorf("wexpr: multiple fields named %q in %s", fieldName, s)
		}
		out[structField{s, fieldName}] = i

		elem := field.Type
		if elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Slice {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			if err := fieldMap(out, seen, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

func unpackStruct(out reflect.Value, fields map[structField]int, m map[Key]Value) error {
	for key, val := range m {
		if key.Numeric {
			return fmt.Errorf("wexpr: numeric key %v cannot be unmarshaled into a struct field", key.Num)
		}
		idx, ok := fields[structField{out.Type(), key.Str}]
		if !ok {
			return fmt.Errorf("wexpr: no field named %q in %s", key.Str, out.Type())
		}
		if err := unpackValue(out.Field(idx), fields, val, key.Str); err != nil {
			return err
		}
	}
	return nil
}

func unpackValue(fieldVal reflect.Value, fields map[structField]int, val Value, fieldName string) error {
	if unmarshaler, ok := textUnmarshaler(fieldVal); ok && val.Kind == KindString {
		return unmarshaler.UnmarshalText([]byte(val.Str))
	}
	switch val.Kind {
	case KindNull:
		return nil
	case KindBool:
		switch fieldVal.Kind() {
		case reflect.Bool:
			fieldVal.SetBool(val.Bool)
		default:
			return fmt.Errorf("wexpr: field %q should have type bool", fieldName)
		}
	case KindNumber:
		switch fieldVal.Kind() {
		case reflect.Float32, reflect.Float64:
			fieldVal.SetFloat(val.Num)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fieldVal.SetInt(int64(val.Num))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fieldVal.SetUint(uint64(val.Num))
		default:
			return fmt.Errorf("wexpr: field %q should have numeric type", fieldName)
		}
	case KindString:
		switch {
		case fieldVal.Kind() == reflect.String:
			fieldVal.SetString(val.Str)
		case fieldVal.Kind() == reflect.Slice && fieldVal.Type().Elem().Kind() == reflect.Uint8:
			b, err := base64.StdEncoding.DecodeString(val.Str)
			if err != nil {
				return fmt.Errorf("wexpr: field %q: bad base64", fieldName)
			}
			fieldVal.SetBytes(b)
		default:
			return fmt.Errorf("wexpr: field %q should have type string (got %s)", fieldName, fieldVal.Type())
		}
	case KindBinary:
		if fieldVal.Kind() != reflect.Slice || fieldVal.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("wexpr: field %q should have type []byte", fieldName)
		}
		fieldVal.SetBytes(val.Bin)
	case KindMap:
		target := fieldVal
		if target.Kind() == reflect.Pointer {
			if target.IsNil() {
				target.Set(reflect.New(target.Type().Elem()))
			}
			target = target.Elem()
		}
		if target.Kind() != reflect.Struct {
			return fmt.Errorf("wexpr: field %q should have struct type (got %s)", fieldName, fieldVal.Type())
		}
		return unpackStruct(target, fields, val.Map)
	case KindArray:
		if fieldVal.Kind() != reflect.Slice {
			return fmt.Errorf("wexpr: field %q should have slice type (got %s)", fieldName, fieldVal.Type())
		}
		out := reflect.MakeSlice(fieldVal.Type(), len(val.Arr), len(val.Arr))
		for i, elem := range val.Arr {
			if err := unpackValue(out.Index(i), fields, elem, fieldName); err != nil {
				return err
			}
		}
		fieldVal.Set(out)
	}
	return nil
}

func textUnmarshaler(fieldVal reflect.Value) (encoding.TextUnmarshaler, bool) {
	if fieldVal.CanAddr() {
		if u, ok := fieldVal.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u, true
		}
	}
	if fieldVal.Kind() == reflect.Pointer {
		if fieldVal.IsNil() {
			fieldVal.Set(reflect.New(fieldVal.Type().Elem()))
		}
		if u, ok := fieldVal.Interface().(encoding.TextUnmarshaler); ok {
			return u, true
		}
	}
	return nil, false
}
