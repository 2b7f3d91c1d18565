package diff

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/storage"
)

// diffDir compares two directories: partitions their entry names into
// left-only/right-only/common and recursively dispatches every common
// entry, folding the children into one aggregate result.
func (d *Differ) diffDir(ctx context.Context, res *Result, w *walk) (*Result, error) {
	if !w.visit(res.Left) {
		// Revisiting a canonical path means a symlink loop; recursing
		// would never terminate
		res.Err = fmt.Sprintf("symlink cycle detected at %s", res.Left)
		res.AdditionalInfo = res.Err
		res.Report = fmt.Sprintf("%s vs %s: %s", res.Left, res.Right, res.AdditionalInfo)
		return res, nil
	}

	leftEntries, err := d.fs.List(ctx, res.Left)
	if err != nil {
		return nil, err
	}
	rightEntries, err := d.fs.List(ctx, res.Right)
	if err != nil {
		return nil, err
	}

	leftEntries = d.filterExcluded(leftEntries)
	rightEntries = d.filterExcluded(rightEntries)

	// Hashed-set reconciliation keeps this O(n+m) over directory sizes
	rightSet := make(map[string]struct{}, len(rightEntries))
	for _, e := range rightEntries {
		rightSet[e.Name] = struct{}{}
	}
	leftSet := make(map[string]struct{}, len(leftEntries))
	for _, e := range leftEntries {
		leftSet[e.Name] = struct{}{}
	}

	for _, e := range leftEntries {
		if _, ok := rightSet[e.Name]; ok {
			res.Common = append(res.Common, e.Name)
		} else {
			res.LeftOnly = append(res.LeftOnly, e.Name)
		}
	}
	for _, e := range rightEntries {
		if _, ok := leftSet[e.Name]; !ok {
			res.RightOnly = append(res.RightOnly, e.Name)
		}
	}

	d.logger.Debug(ctx, "directory listed", logging.Fields{
		"left":       res.Left,
		"right":      res.Right,
		"common":     len(res.Common),
		"left_only":  len(res.LeftOnly),
		"right_only": len(res.RightOnly),
	})

	subs, err := d.diffCommon(ctx, res, w)
	if err != nil {
		return nil, err
	}
	res.SubDiffs = subs

	res.Matches = len(res.LeftOnly) == 0 && len(res.RightOnly) == 0
	for _, sub := range res.SubDiffs {
		if !sub.Matches {
			res.Matches = false
		}
	}

	if !res.Matches {
		res.Report = d.renderDirReport(res)
	}
	return res, nil
}

// diffCommon dispatches every common entry, in order. Siblings are fully
// independent, so they run on a bounded worker pool; the barrier join
// below guarantees all children are final before aggregation.
func (d *Differ) diffCommon(ctx context.Context, res *Result, w *walk) ([]*Result, error) {
	if len(res.Common) == 0 {
		return nil, nil
	}

	subs := make([]*Result, len(res.Common))
	sem := make(chan struct{}, d.opts.MaxWorkers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, name := range res.Common {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()

			childLeft := filepath.Join(res.Left, name)
			childRight := filepath.Join(res.Right, name)

			sub, err := d.dispatch(ctx, childLeft, childRight, w)
			if err != nil {
				if !d.opts.ContinueOnError {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				// Record the entry as errored: distinct from a mismatch,
				// but the parent still cannot match
				sub = NewResult(childLeft, childRight)
				sub.Err = err.Error()
				sub.AdditionalInfo = fmt.Sprintf("comparison failed: %v", err)
				sub.Report = fmt.Sprintf("%s vs %s: %s", childLeft, childRight, sub.AdditionalInfo)
				d.logger.Warn(ctx, "entry comparison failed", logging.Fields{
					"left":  childLeft,
					"right": childRight,
					"error": err.Error(),
				})
			}
			subs[i] = sub
		}(i, name)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return subs, nil
}

// renderDirReport builds the directory mismatch report bottom-up: a
// header, the exclusive entry lists, then every non-matching sub-report
// in order
func (d *Differ) renderDirReport(res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s:", res.Left, res.Right)
	if len(res.LeftOnly) > 0 {
		fmt.Fprintf(&b, "\n  only in %s: %s", res.Left, strings.Join(res.LeftOnly, ", "))
	}
	if len(res.RightOnly) > 0 {
		fmt.Fprintf(&b, "\n  only in %s: %s", res.Right, strings.Join(res.RightOnly, ", "))
	}
	for _, sub := range res.SubDiffs {
		if !sub.Matches && sub.Report != "" {
			b.WriteString("\n")
			b.WriteString(sub.Report)
		}
	}
	return b.String()
}

// filterExcluded drops entries matching any exclusion pattern
func (d *Differ) filterExcluded(entries []storage.Entry) []storage.Entry {
	if len(d.opts.Exclude) == 0 {
		return entries
	}
	kept := entries[:0]
	for _, e := range entries {
		if !shouldExclude(e.Name, e.IsDir, d.opts.Exclude) {
			kept = append(kept, e)
		}
	}
	return kept
}

// shouldExclude checks an entry name against exclusion patterns.
// Patterns support simple globs (*.tmp) and directory patterns with a
// trailing slash (.git/).
func shouldExclude(name string, isDir bool, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		if strings.HasSuffix(pattern, "/") {
			if isDir && name == strings.TrimSuffix(pattern, "/") {
				return true
			}
			continue
		}

		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
