// Package unsafeslice provides the one unsafe operation the memory-
// mapped RawMem backend needs: reinterpreting a raw byte region as a
// typed slice, in place, without copying.
//
// This is a narrow adaptation of the reinterpret-cast idiom in the
// teacher package's pkg/xunsafe (xunsafe.Cast / xunsafe.AddrOf), cut
// down to the single operation mem.Mapped needs instead of porting
// that package's full pointer-arithmetic surface.
package unsafeslice

import "unsafe"

// SizeOf returns the in-memory size of T in bytes.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Reinterpret views b as a []T, in place. len(b) must be a multiple of
// T's size; the caller is responsible for that invariant and for T
// being a fixed-size, pointer-free layout, exactly as callers of
// bytemuck::cast_slice are in the original implementation this module
// is ported from.
func Reinterpret[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}

	size := SizeOf[T]()
	n := len(b) / size

	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}
