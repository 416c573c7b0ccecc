package factory

import (
	"context"
	"reflect"
	"sync"

	"github.com/go-leo/gox/reflectx"
)

// StructGenerator produces fixtures from the defaults captured by BuildStruct.
type StructGenerator[T any] func(overrides ...T) T

// BuildStruct returns a StructGenerator for struct typed fixtures.
// An override is a partial T: each exported top-level field that is non-empty in the
// override replaces the default's field, every other field keeps the default's value.
// Nested structs are replaced wholesale, never merged.
// Unexported fields always keep the default's value.
//
// Every call returns a new container, also when T is a reference type:
//   - *struct: a newly allocated struct holding the default's fields, merged field by
//     field with non-nil overrides. A nil default yields a pointer to a zero struct.
//   - other pointers: a newly allocated value; a non-nil override replaces it.
//   - map: a new map holding the default's entries, overridden entry by entry.
//     A nil default yields an empty map.
//   - slice: a copy of the default; a non-empty override replaces it with a copy of its own.
//
// For any other T a non-empty override replaces the whole value.
// Copies are made by the static type T, a reference held in an interface is not copied.
//
// Empty means the zero value, or a non-nil but zero length slice, map or array.
// An interface holding a zero value, e.g. I: 0, is not empty and overrides; only a
// nil interface keeps the default.
// Use BuildFunc to override a field with an empty value.
func BuildStruct[T any](defaults T) StructGenerator[T] {
	copier, merger := fixtureFuncs(reflect.TypeOf((*T)(nil)).Elem())
	return func(overrides ...T) T {
		fixture := copyFixture(copier, defaults)
		if len(overrides) == 0 {
			return fixture
		}
		tgtVal := reflect.ValueOf(&fixture).Elem()
		for i := range overrides {
			merger(tgtVal, reflect.ValueOf(&overrides[i]).Elem())
		}
		return fixture
	}
}

// Create implements Factory.
func (g StructGenerator[T]) Create(_ context.Context, overrides T) (T, error) {
	return g(overrides), nil
}

// Build implements builder.Builder and returns a copy of the defaults.
func (g StructGenerator[T]) Build(_ context.Context) (T, error) {
	return g(), nil
}

// FuncGenerator produces fixtures from the defaults captured by BuildFunc.
type FuncGenerator[T any] func(overrides ...func(fixture *T)) T

// BuildFunc returns a FuncGenerator. Each override receives a pointer to a fresh copy
// of the defaults and may set any field, including to its zero value.
// Reference typed defaults are copied as described on BuildStruct.
func BuildFunc[T any](defaults T) FuncGenerator[T] {
	copier, _ := fixtureFuncs(reflect.TypeOf((*T)(nil)).Elem())
	return func(overrides ...func(fixture *T)) T {
		fixture := copyFixture(copier, defaults)
		for _, override := range overrides {
			if override == nil {
				continue
			}
			override(&fixture)
		}
		return fixture
	}
}

// Create implements Factory.
func (g FuncGenerator[T]) Create(_ context.Context, override func(fixture *T)) (T, error) {
	return g(override), nil
}

// Build implements builder.Builder and returns a copy of the defaults.
func (g FuncGenerator[T]) Build(_ context.Context) (T, error) {
	return g(), nil
}

// copierFunc stores a fresh copy of srcVal into tgtVal.
type copierFunc func(tgtVal, srcVal reflect.Value)

// mergerFunc applies the override srcVal onto the fixture tgtVal.
type mergerFunc func(tgtVal, srcVal reflect.Value)

func copyFixture[T any](copier copierFunc, defaults T) T {
	var fixture T
	copier(reflect.ValueOf(&fixture).Elem(), reflect.ValueOf(&defaults).Elem())
	return fixture
}

func fixtureFuncs(typ reflect.Type) (copierFunc, mergerFunc) {
	switch typ.Kind() {
	case reflect.Struct:
		return valueCopier, fieldsMerger(typ)
	case reflect.Pointer:
		return pointerFuncs(typ)
	case reflect.Map:
		return mapCopier, mapMerger
	case reflect.Slice:
		return sliceCopier, func(tgtVal, srcVal reflect.Value) {
			if isEmptyValue(srcVal) {
				return
			}
			sliceCopier(tgtVal, srcVal)
		}
	default:
		return valueCopier, valueMerger
	}
}

func valueCopier(tgtVal, srcVal reflect.Value) {
	tgtVal.Set(srcVal)
}

func valueMerger(tgtVal, srcVal reflect.Value) {
	if isEmptyValue(srcVal) {
		return
	}
	tgtVal.Set(srcVal)
}

func fieldsMerger(typ reflect.Type) mergerFunc {
	fields := cachedSettableFields(typ)
	return func(tgtVal, srcVal reflect.Value) {
		for _, index := range fields {
			srcFieldVal := srcVal.Field(index)
			if isEmptyValue(srcFieldVal) {
				continue
			}
			tgtVal.Field(index).Set(srcFieldVal)
		}
	}
}

func pointerFuncs(typ reflect.Type) (copierFunc, mergerFunc) {
	elemType := typ.Elem()
	copier := func(tgtVal, srcVal reflect.Value) {
		ptr := reflect.New(elemType)
		if !srcVal.IsNil() {
			ptr.Elem().Set(srcVal.Elem())
		}
		tgtVal.Set(ptr)
	}
	if elemType.Kind() == reflect.Struct {
		merger := fieldsMerger(elemType)
		return copier, func(tgtVal, srcVal reflect.Value) {
			if srcVal.IsNil() {
				return
			}
			merger(tgtVal.Elem(), srcVal.Elem())
		}
	}
	return copier, func(tgtVal, srcVal reflect.Value) {
		if srcVal.IsNil() {
			return
		}
		tgtVal.Elem().Set(srcVal.Elem())
	}
}

func mapCopier(tgtVal, srcVal reflect.Value) {
	m := reflect.MakeMapWithSize(tgtVal.Type(), srcVal.Len())
	iter := srcVal.MapRange()
	for iter.Next() {
		m.SetMapIndex(iter.Key(), iter.Value())
	}
	tgtVal.Set(m)
}

func mapMerger(tgtVal, srcVal reflect.Value) {
	iter := srcVal.MapRange()
	for iter.Next() {
		tgtVal.SetMapIndex(iter.Key(), iter.Value())
	}
}

func sliceCopier(tgtVal, srcVal reflect.Value) {
	if srcVal.IsNil() {
		tgtVal.Set(reflect.Zero(tgtVal.Type()))
		return
	}
	s := reflect.MakeSlice(tgtVal.Type(), srcVal.Len(), srcVal.Len())
	reflect.Copy(s, srcVal)
	tgtVal.Set(s)
}

func isEmptyValue(val reflect.Value) bool {
	// struct values are never empty to reflectx
	return val.IsZero() || reflectx.IsEmptyValue(val)
}

var settableFieldsCache sync.Map

// cachedSettableFields returns the indexes of the exported fields of the struct type typ.
func cachedSettableFields(typ reflect.Type) []int {
	if f, ok := settableFieldsCache.Load(typ); ok {
		return f.([]int)
	}
	f, _ := settableFieldsCache.LoadOrStore(typ, newSettableFields(typ))
	return f.([]int)
}

func newSettableFields(typ reflect.Type) []int {
	indexes := make([]int, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		// 忽略未导出字段
		if !typ.Field(i).IsExported() {
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}
