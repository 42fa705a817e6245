package compare

import (
	"reflect"
	"strings"
)

// Path returns a key extractor that walks a dotted field path by reflection.
// Each segment matches a struct field name (case-insensitive), its json tag,
// or a string map key. Missing segments yield nil.
func Path[T any](path string) KeyFunc[T] {
	segments := strings.Split(path, ".")
	return func(item T) any {
		v := reflect.ValueOf(item)
		for _, seg := range segments {
			v = indirect(v)
			if !v.IsValid() {
				return nil
			}
			v = lookup(v, seg)
		}
		v = indirect(v)
		if !v.IsValid() || !v.CanInterface() {
			return nil
		}
		return v.Interface()
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func lookup(v reflect.Value, name string) reflect.Value {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if strings.EqualFold(f.Name, name) || jsonName(f) == name {
				return v.Field(i)
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
	}
	return reflect.Value{}
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}
