// Package types contains primitives shared by the threadcodec packages.
package types

import (
	"reflect"
)

// ObjectID is a unique identifier for an object.
type ObjectID uint64

type GetObjectIDer interface {
	GetObjectID() ObjectID
}

type Pointer[T any] interface {
	*T
}

// GetObjectID returns the identifier of the object pointed to by obj;
// it is stable for the lifetime of the object.
func GetObjectID[P Pointer[T], T any](obj P) ObjectID {
	if obj == nil {
		return ObjectID(0)
	}
	v := reflect.ValueOf(obj)
	if v.IsNil() {
		return ObjectID(0)
	}
	ptr := uintptr(v.UnsafePointer())
	if uintptr(uint64(ptr)) != ptr {
		panic("pointer value does not fit into uint64")
	}
	return ObjectID(uint64(ptr))
}
