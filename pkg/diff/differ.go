package diff

import (
	"context"
	"io"
	"sync"

	"github.com/sdejongh/diffnorris/internal/platform"
	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/nifti"
	"github.com/sdejongh/diffnorris/pkg/storage"
)

// DefaultChunkSize is the read size for lock-step streaming comparison.
// 256 KiB balances syscall overhead against memory footprint; memory use
// stays constant regardless of file size.
const DefaultChunkSize = 256 * 1024

// ReaderWrapper wraps a reader, e.g. for rate limiting
type ReaderWrapper func(io.Reader) io.Reader

// ProgressFunc receives streaming progress for a single comparison
type ProgressFunc func(path string, current, total int64)

// Options configures a Differ
type Options struct {
	// ChunkSize is the streaming read size in bytes
	ChunkSize int

	// FloatTolerance is the absolute-difference threshold for
	// floating-point element equality
	FloatTolerance float64

	// MaxWorkers bounds parallel sibling comparisons inside a directory
	MaxWorkers int

	// Exclude holds glob patterns; matching entries are skipped on both
	// sides of a directory comparison
	Exclude []string

	// ContinueOnError records a failed subtree as an errored sub-result
	// instead of aborting the whole walk
	ContinueOnError bool

	// ReaderWrapper, when set, wraps every file reader (e.g. bandwidth
	// limiting)
	ReaderWrapper ReaderWrapper

	// Progress, when set, is called at chunk boundaries during byte and
	// element scans
	Progress ProgressFunc

	// Logger receives structured diagnostics; nil means no logging
	Logger logging.Logger
}

// Differ dispatches comparisons between two paths to the appropriate
// comparator and aggregates the results
type Differ struct {
	fs     storage.Backend
	opts   Options
	logger logging.Logger
	pool   *sync.Pool
}

// objectKind classifies a path for dispatch
type objectKind int

const (
	kindDirectory objectKind = iota
	kindImage
	kindFile
)

func (k objectKind) String() string {
	switch k {
	case kindDirectory:
		return "directory"
	case kindImage:
		return "image"
	default:
		return "file"
	}
}

// classify determines the comparator an object belongs to
func classify(info *storage.FileInfo) objectKind {
	if info.IsDir {
		return kindDirectory
	}
	if nifti.IsImagePath(info.Path) {
		return kindImage
	}
	return kindFile
}

// New creates a Differ over the given storage backend
func New(fs storage.Backend, opts Options) *Differ {
	if opts.ChunkSize < 4096 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.FloatTolerance <= 0 {
		opts.FloatTolerance = DefaultFloatTolerance
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	chunkSize := opts.ChunkSize
	return &Differ{
		fs:     fs,
		opts:   opts,
		logger: logger,
		pool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// Diff compares two paths and returns a unified result. Size, shape and
// type mismatches are encoded in the result; everything else comes back
// as an error.
func (d *Differ) Diff(ctx context.Context, left, right string) (*Result, error) {
	w := &walk{seen: make(map[string]struct{})}
	res, err := d.dispatch(ctx, left, right, w)
	if err != nil {
		return nil, err
	}
	d.logger.Info(ctx, "comparison complete", logging.Fields{
		"left":    left,
		"right":   right,
		"matches": res.Matches,
	})
	return res, nil
}

// dispatch decides which comparator applies to a pair of paths
func (d *Differ) dispatch(ctx context.Context, left, right string, w *walk) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	linfo, err := d.fs.Stat(ctx, left)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, &NotFoundError{Side: "left", Path: left}
		}
		return nil, err
	}

	rinfo, err := d.fs.Stat(ctx, right)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, &NotFoundError{Side: "right", Path: right}
		}
		return nil, err
	}

	lk, rk := classify(linfo), classify(rinfo)
	if (lk == kindDirectory) != (rk == kindDirectory) {
		return nil, &KindMismatchError{
			Left:      left,
			Right:     right,
			LeftKind:  lk.String(),
			RightKind: rk.String(),
		}
	}

	res := NewResult(left, right)
	switch lk {
	case kindDirectory:
		return d.diffDir(ctx, res, w)
	case kindImage:
		return d.diffImage(ctx, res)
	default:
		return d.diffFile(ctx, res, linfo, rinfo)
	}
}

// walk carries per-invocation traversal state, guarding directory
// recursion against symlink cycles
type walk struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// visit marks a canonical directory path as entered; it returns false if
// the path was already visited during this walk
func (w *walk) visit(path string) bool {
	canonical, err := platform.Canonical(path)
	if err != nil {
		canonical = path
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.seen[canonical]; ok {
		return false
	}
	w.seen[canonical] = struct{}{}
	return true
}
