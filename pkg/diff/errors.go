package diff

import (
	"fmt"

	"github.com/sdejongh/diffnorris/pkg/nifti"
)

// NotFoundError indicates one of the two input paths does not exist
type NotFoundError struct {
	Side string // "left" or "right"
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s path does not exist: %s", e.Side, e.Path)
}

// KindMismatchError indicates one side is a directory and the other is not
type KindMismatchError struct {
	Left      string
	Right     string
	LeftKind  string
	RightKind string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("cannot compare %s (%s) with %s (%s)",
		e.Left, e.LeftKind, e.Right, e.RightKind)
}

// UnsupportedTypeError indicates an image declares an element type the
// engine has no comparator for
type UnsupportedTypeError struct {
	Code nifti.Datatype
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported data type: %d", int16(e.Code))
}

// DesyncError indicates the two streams went out of lock-step despite
// equal declared sizes. This proves a concurrent mutation of an input or
// a logic error and must never be tolerated silently, since it would
// corrupt the similarity count.
type DesyncError struct {
	Left   string
	Right  string
	Offset int64
	Detail string
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("streams desynchronized at byte %d comparing %s with %s: %s",
		e.Offset, e.Left, e.Right, e.Detail)
}
