package diff

import (
	"context"
	"fmt"

	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/nifti"
)

// diffImage compares two NIfTI-1 images voxel-by-voxel with type-correct
// numeric semantics. Shape and element-type checks short-circuit before
// any payload scan: a byte-identical payload under different type
// interpretations is not a meaningful match.
func (d *Differ) diffImage(ctx context.Context, res *Result) (*Result, error) {
	left, err := nifti.Open(res.Left)
	if err != nil {
		return nil, err
	}
	defer left.Close()

	right, err := nifti.Open(res.Right)
	if err != nil {
		return nil, err
	}
	defer right.Close()

	lh, rh := left.Header, right.Header

	if lh.Dim != rh.Dim {
		res.AdditionalInfo = fmt.Sprintf("image shapes differ: %v vs. %v",
			dimString(lh.Dim), dimString(rh.Dim))
		res.Report = fmt.Sprintf("%s vs %s: %s", res.Left, res.Right, res.AdditionalInfo)
		return res, nil
	}

	if lh.Datatype != rh.Datatype {
		res.AdditionalInfo = fmt.Sprintf("Shapes match, types diverge: %s vs. %s",
			lh.Datatype, rh.Datatype)
		res.Report = fmt.Sprintf("%s vs %s: %s", res.Left, res.Right, res.AdditionalInfo)
		return res, nil
	}

	cmp, err := comparerFor(lh.Datatype)
	if err != nil {
		return nil, err
	}

	totalElements := lh.ElementCount()
	totalBytes := totalElements * int64(cmp.width)

	matches, err := d.streamCompare(ctx, res, left, right, totalBytes, cmp)
	if err != nil {
		return nil, err
	}

	d.finalizeScan(res, matches, totalElements, fmt.Sprintf("%s elements", lh.Datatype))

	d.logger.Debug(ctx, "image comparison done", logging.Fields{
		"left":       res.Left,
		"right":      res.Right,
		"datatype":   lh.Datatype.String(),
		"elements":   totalElements,
		"similarity": res.Similarity,
	})
	return res, nil
}

// dimString renders the meaningful prefix of a dimension vector
func dimString(dim [8]int16) string {
	rank := int(dim[0])
	if rank < 1 || rank > 7 {
		return fmt.Sprintf("%v", dim)
	}
	return fmt.Sprintf("%v", dim[1:1+rank])
}
