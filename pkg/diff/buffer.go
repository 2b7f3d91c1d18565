package diff

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sdejongh/diffnorris/pkg/nifti"
)

// DefaultFloatTolerance is the absolute difference under which two
// floating-point elements are considered equal. It is deliberately tiny:
// a strict-equality substitute tolerating only lossless round-tripping,
// not a scientific closeness threshold.
const DefaultFloatTolerance = 1e-16

// CompareBytes returns the count of positions where left and right hold
// the same byte. The buffers must have equal length; violating that is a
// caller programming error since it can only happen when size checks were
// skipped.
func CompareBytes(left, right []byte) int64 {
	if len(left) != len(right) {
		panic(fmt.Sprintf("compare buffers must have equal length: left=%d right=%d",
			len(left), len(right)))
	}
	var matches int64
	for i := range left {
		if left[i] == right[i] {
			matches++
		}
	}
	return matches
}

// elementComparer counts matching fixed-width elements in two raw
// little-endian buffers of equal length
type elementComparer struct {
	width int
	count func(left, right []byte, tolerance float64) int64
}

// elementComparers maps NIfTI datatype codes to their typed comparison
// routines. The vocabulary lives here and nowhere else.
var elementComparers = map[nifti.Datatype]elementComparer{
	nifti.Int16:   {2, compareInt16},
	nifti.Int32:   {4, compareInt32},
	nifti.Float32: {4, compareFloat32},
	nifti.Float64: {8, compareFloat64},
	nifti.Uint16:  {2, compareUint16},
	nifti.Uint32:  {4, compareUint32},
	nifti.Int64:   {8, compareInt64},
	nifti.Uint64:  {8, compareUint64},
}

// comparerFor returns the comparison routine for a datatype code
func comparerFor(code nifti.Datatype) (elementComparer, error) {
	cmp, ok := elementComparers[code]
	if !ok {
		return elementComparer{}, &UnsupportedTypeError{Code: code}
	}
	return cmp, nil
}

func compareInt16(left, right []byte, _ float64) int64 {
	var matches int64
	for i := 0; i+2 <= len(left); i += 2 {
		a := int16(binary.LittleEndian.Uint16(left[i:]))
		b := int16(binary.LittleEndian.Uint16(right[i:]))
		if a == b {
			matches++
		}
	}
	return matches
}

func compareUint16(left, right []byte, _ float64) int64 {
	var matches int64
	for i := 0; i+2 <= len(left); i += 2 {
		if binary.LittleEndian.Uint16(left[i:]) == binary.LittleEndian.Uint16(right[i:]) {
			matches++
		}
	}
	return matches
}

func compareInt32(left, right []byte, _ float64) int64 {
	var matches int64
	for i := 0; i+4 <= len(left); i += 4 {
		a := int32(binary.LittleEndian.Uint32(left[i:]))
		b := int32(binary.LittleEndian.Uint32(right[i:]))
		if a == b {
			matches++
		}
	}
	return matches
}

func compareUint32(left, right []byte, _ float64) int64 {
	var matches int64
	for i := 0; i+4 <= len(left); i += 4 {
		if binary.LittleEndian.Uint32(left[i:]) == binary.LittleEndian.Uint32(right[i:]) {
			matches++
		}
	}
	return matches
}

func compareInt64(left, right []byte, _ float64) int64 {
	var matches int64
	for i := 0; i+8 <= len(left); i += 8 {
		a := int64(binary.LittleEndian.Uint64(left[i:]))
		b := int64(binary.LittleEndian.Uint64(right[i:]))
		if a == b {
			matches++
		}
	}
	return matches
}

func compareUint64(left, right []byte, _ float64) int64 {
	var matches int64
	for i := 0; i+8 <= len(left); i += 8 {
		if binary.LittleEndian.Uint64(left[i:]) == binary.LittleEndian.Uint64(right[i:]) {
			matches++
		}
	}
	return matches
}

func compareFloat32(left, right []byte, tolerance float64) int64 {
	var matches int64
	for i := 0; i+4 <= len(left); i += 4 {
		a := math.Float32frombits(binary.LittleEndian.Uint32(left[i:]))
		b := math.Float32frombits(binary.LittleEndian.Uint32(right[i:]))
		if math.Abs(float64(a)-float64(b)) < tolerance {
			matches++
		}
	}
	return matches
}

func compareFloat64(left, right []byte, tolerance float64) int64 {
	var matches int64
	for i := 0; i+8 <= len(left); i += 8 {
		a := math.Float64frombits(binary.LittleEndian.Uint64(left[i:]))
		b := math.Float64frombits(binary.LittleEndian.Uint64(right[i:]))
		if math.Abs(a-b) < tolerance {
			matches++
		}
	}
	return matches
}
