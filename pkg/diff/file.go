package diff

import (
	"context"
	"fmt"
	"io"

	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/storage"
)

// diffFile compares two regular files byte-by-byte and fills in the
// result. File sizes are checked first: a size mismatch is cheaper and
// already proves inequality, so no byte scan runs.
func (d *Differ) diffFile(ctx context.Context, res *Result, linfo, rinfo *storage.FileInfo) (*Result, error) {
	if linfo.Size != rinfo.Size {
		res.AdditionalInfo = fmt.Sprintf("file sizes differ: %d vs. %d", linfo.Size, rinfo.Size)
		res.Report = fmt.Sprintf("%s vs %s: %s", res.Left, res.Right, res.AdditionalInfo)
		return res, nil
	}

	// Both empty: nothing to scan, match by convention
	if linfo.Size == 0 {
		res.Matches = true
		res.Similarity = 1
		return res, nil
	}

	leftReader, err := d.fs.Open(ctx, res.Left)
	if err != nil {
		return nil, err
	}
	defer leftReader.Close()

	rightReader, err := d.fs.Open(ctx, res.Right)
	if err != nil {
		return nil, err
	}
	defer rightReader.Close()

	totalMatches, err := d.streamCompare(ctx, res, leftReader, rightReader, linfo.Size, byteComparer())
	if err != nil {
		return nil, err
	}

	d.finalizeScan(res, totalMatches, linfo.Size, "bytes")

	d.logger.Debug(ctx, "file comparison done", logging.Fields{
		"left":       res.Left,
		"right":      res.Right,
		"similarity": res.Similarity,
	})
	return res, nil
}

// byteComparer adapts CompareBytes to the element comparer shape
func byteComparer() elementComparer {
	return elementComparer{
		width: 1,
		count: func(left, right []byte, _ float64) int64 {
			return CompareBytes(left, right)
		},
	}
}

// streamCompare reads both sides in lock-step chunks, counting matching
// elements. totalBytes is the exact number of payload bytes each side
// must yield; falling short or going out of step is a DesyncError.
func (d *Differ) streamCompare(ctx context.Context, res *Result, left, right io.Reader, totalBytes int64, cmp elementComparer) (int64, error) {
	if d.opts.ReaderWrapper != nil {
		left = d.opts.ReaderWrapper(left)
		right = d.opts.ReaderWrapper(right)
	}
	left = io.LimitReader(left, totalBytes)
	right = io.LimitReader(right, totalBytes)

	leftBufPtr := d.pool.Get().(*[]byte)
	defer d.pool.Put(leftBufPtr)
	rightBufPtr := d.pool.Get().(*[]byte)
	defer d.pool.Put(rightBufPtr)

	// Chunks must hold whole elements so typed decoding never straddles
	// a boundary
	chunk := d.opts.ChunkSize - d.opts.ChunkSize%cmp.width
	if chunk < cmp.width {
		chunk = cmp.width
	}
	leftBuf := (*leftBufPtr)[:chunk]
	rightBuf := (*rightBufPtr)[:chunk]

	var matches int64
	var offset int64

	for offset < totalBytes {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		ln, lerr := io.ReadFull(left, leftBuf)
		rn, rerr := io.ReadFull(right, rightBuf)

		if ln != rn {
			return 0, &DesyncError{
				Left:   res.Left,
				Right:  res.Right,
				Offset: offset,
				Detail: fmt.Sprintf("read %d bytes on the left but %d on the right", ln, rn),
			}
		}

		if ln > 0 {
			matches += cmp.count(leftBuf[:ln], rightBuf[:rn], d.opts.FloatTolerance)
			offset += int64(ln)

			if d.opts.Progress != nil {
				d.opts.Progress(res.Left, offset, totalBytes)
			}
		}

		if lerr == io.EOF && rerr == io.EOF {
			break
		}
		if lerr != nil && lerr != io.ErrUnexpectedEOF && lerr != io.EOF {
			return 0, fmt.Errorf("failed to read %s: %w", res.Left, lerr)
		}
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			return 0, fmt.Errorf("failed to read %s: %w", res.Right, rerr)
		}
		if ln == 0 {
			break
		}
	}

	if offset != totalBytes {
		return 0, &DesyncError{
			Left:   res.Left,
			Right:  res.Right,
			Offset: offset,
			Detail: fmt.Sprintf("streams ended after %d of %d expected bytes", offset, totalBytes),
		}
	}

	return matches, nil
}

// finalizeScan fills in match flag, similarity and report for a
// byte/element scan over total units
func (d *Differ) finalizeScan(res *Result, matches, total int64, unit string) {
	if total == 0 {
		res.Matches = true
		res.Similarity = 1
		return
	}

	res.Similarity = float64(matches) / float64(total)
	res.Matches = matches == total
	if !res.Matches {
		res.AdditionalInfo = fmt.Sprintf("%d of %d %s match (%.1f%%)",
			matches, total, unit, res.Similarity*100)
		res.Report = fmt.Sprintf("%s vs %s: %s", res.Left, res.Right, res.AdditionalInfo)
	}
}
