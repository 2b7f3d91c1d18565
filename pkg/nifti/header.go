// Package nifti reads just enough of the NIfTI-1 format to support
// voxel-level comparison: header geometry, element type, and the payload
// offset. It is not a general-purpose NIfTI library.
package nifti

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// headerSize is the fixed size of a NIfTI-1 header
const headerSize = 348

// ErrInvalidHeader indicates the bytes do not form a NIfTI-1 header.
// Distinct from I/O errors so callers can report "not a valid image"
// rather than a read failure.
var ErrInvalidHeader = errors.New("not a valid NIfTI-1 image")

// Datatype is the NIfTI element-type code
type Datatype int16

// NIfTI-1 datatype codes supported for comparison
const (
	Int16   Datatype = 4
	Int32   Datatype = 8
	Float32 Datatype = 16
	Float64 Datatype = 64
	Uint16  Datatype = 512
	Uint32  Datatype = 768
	Int64   Datatype = 1024
	Uint64  Datatype = 1280
)

// String returns the element type name for the code
func (d Datatype) String() string {
	switch d {
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	default:
		return fmt.Sprintf("unknown(%d)", int16(d))
	}
}

// ElementSize returns the width in bytes of one element, or 0 for an
// unrecognized code
func (d Datatype) ElementSize() int {
	switch d {
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Header holds the NIfTI-1 header fields needed for comparison
type Header struct {
	// Dim is the dimension vector; Dim[0] is the rank, Dim[1..7] the
	// extent of each axis
	Dim [8]int16

	// Datatype is the element-type code of the payload
	Datatype Datatype

	// Bitpix is the declared bits per element
	Bitpix int16

	// VoxOffset is the byte offset where the payload begins
	VoxOffset int64
}

// ElementCount returns the total number of elements in the payload.
// Non-positive dimension entries count as 1 so absent axes do not zero
// out the product.
func (h *Header) ElementCount() int64 {
	count := int64(1)
	for _, d := range h.Dim[1:] {
		if d > 0 {
			count *= int64(d)
		}
	}
	return count
}

// parseHeader decodes a raw 348-byte NIfTI-1 header
func parseHeader(buf []byte) (*Header, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: header truncated at %d bytes", ErrInvalidHeader, len(buf))
	}

	magic := string(buf[344:348])
	switch magic {
	case "n+1\x00":
		// Single-file image, payload follows the header
	case "ni1\x00":
		return nil, fmt.Errorf("%w: detached .hdr/.img pairs are not supported", ErrInvalidHeader)
	default:
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, magic)
	}

	if sz := binary.LittleEndian.Uint32(buf[0:4]); sz != headerSize {
		if binary.BigEndian.Uint32(buf[0:4]) == headerSize {
			return nil, fmt.Errorf("%w: big-endian images are not supported", ErrInvalidHeader)
		}
		return nil, fmt.Errorf("%w: sizeof_hdr = %d", ErrInvalidHeader, sz)
	}

	h := &Header{
		Datatype: Datatype(int16(binary.LittleEndian.Uint16(buf[70:72]))),
		Bitpix:   int16(binary.LittleEndian.Uint16(buf[72:74])),
	}
	for i := range h.Dim {
		h.Dim[i] = int16(binary.LittleEndian.Uint16(buf[40+2*i : 42+2*i]))
	}

	voxOffset := math.Float32frombits(binary.LittleEndian.Uint32(buf[108:112]))
	h.VoxOffset = int64(voxOffset)
	if h.VoxOffset < headerSize {
		return nil, fmt.Errorf("%w: vox_offset %d points inside the header", ErrInvalidHeader, h.VoxOffset)
	}

	return h, nil
}

// IsImagePath reports whether a filename carries a recognized NIfTI
// suffix, compressed or not
func IsImagePath(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".nii") || strings.HasSuffix(name, ".nii.gz")
}

// isCompressedPath reports whether the file is expected to be
// gzip-compressed
func isCompressedPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
