package diff

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestDiffDirIdentical(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteFile("left/a.txt", []byte("alpha"))
	h.WriteFile("left/b.txt", []byte("beta"))
	h.WriteFile("right/a.txt", []byte("alpha"))
	h.WriteFile("right/b.txt", []byte("beta"))

	res, err := newTestDiffer(Options{}).Diff(context.Background(), h.Path("left"), h.Path("right"))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if !res.Matches {
		t.Error("Diff() Matches = false, want true")
	}
	if len(res.Common) != 2 {
		t.Errorf("Common = %v, want 2 entries", res.Common)
	}
	if len(res.LeftOnly) != 0 || len(res.RightOnly) != 0 {
		t.Errorf("exclusive entries = %v / %v, want none", res.LeftOnly, res.RightOnly)
	}
}

func TestDiffDirRightOnly(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteFile("left/a.txt", []byte("alpha"))
	h.WriteFile("left/b.txt", []byte("beta"))
	h.WriteFile("right/a.txt", []byte("alpha"))
	h.WriteFile("right/b.txt", []byte("beta"))
	h.WriteFile("right/c.txt", []byte("gamma"))

	res, err := newTestDiffer(Options{}).Diff(context.Background(), h.Path("left"), h.Path("right"))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if res.Matches {
		t.Error("Diff() Matches = true, want false")
	}
	if len(res.RightOnly) != 1 || res.RightOnly[0] != "c.txt" {
		t.Errorf("RightOnly = %v, want [c.txt]", res.RightOnly)
	}
	if len(res.LeftOnly) != 0 {
		t.Errorf("LeftOnly = %v, want none", res.LeftOnly)
	}
	wantLine := "only in " + h.Path("right") + ": c.txt"
	if !strings.Contains(res.Report, wantLine) {
		t.Errorf("Report = %q, want it to contain %q", res.Report, wantLine)
	}
}

func TestDiffDirPartition(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteFile("left/a.txt", []byte("x"))
	h.WriteFile("left/only-left.txt", []byte("x"))
	h.WriteFile("right/a.txt", []byte("x"))
	h.WriteFile("right/only-right.txt", []byte("x"))

	res, err := newTestDiffer(Options{}).Diff(context.Background(), h.Path("left"), h.Path("right"))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if len(res.Common) != 1 || res.Common[0] != "a.txt" {
		t.Errorf("Common = %v, want [a.txt]", res.Common)
	}
	if len(res.LeftOnly) != 1 || res.LeftOnly[0] != "only-left.txt" {
		t.Errorf("LeftOnly = %v, want [only-left.txt]", res.LeftOnly)
	}
	if len(res.RightOnly) != 1 || res.RightOnly[0] != "only-right.txt" {
		t.Errorf("RightOnly = %v, want [only-right.txt]", res.RightOnly)
	}
}

func TestDiffDirSubMismatchFlipsParent(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteFile("left/nested/data.bin", []byte{1, 2, 3, 4})
	h.WriteFile("right/nested/data.bin", []byte{1, 9, 3, 9})

	res, err := newTestDiffer(Options{}).Diff(context.Background(), h.Path("left"), h.Path("right"))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if res.Matches {
		t.Error("parent Matches = true, want false when a descendant mismatches")
	}
	if len(res.SubDiffs) != 1 {
		t.Fatalf("SubDiffs = %d entries, want 1", len(res.SubDiffs))
	}
	nested := res.SubDiffs[0]
	if nested.Matches {
		t.Error("nested directory should not match")
	}
	if !strings.Contains(res.Report, "2 of 4 bytes match (50.0%)") {
		t.Errorf("Report = %q, want nested file mismatch folded in", res.Report)
	}
}

func TestDiffDirParallelWorkers(t *testing.T) {
	h := NewTestHelper(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		h.WriteFile("left/"+name, []byte(name))
		h.WriteFile("right/"+name, []byte(name))
	}

	res, err := newTestDiffer(Options{MaxWorkers: 4}).Diff(context.Background(), h.Path("left"), h.Path("right"))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if !res.Matches {
		t.Error("Diff() Matches = false, want true")
	}
	if len(res.SubDiffs) != 8 {
		t.Fatalf("SubDiffs = %d entries, want 8", len(res.SubDiffs))
	}
	// Results must land in listing order regardless of worker scheduling
	for i, name := range res.Common {
		if res.SubDiffs[i] == nil {
			t.Fatalf("SubDiffs[%d] is nil", i)
		}
		if !strings.HasSuffix(res.SubDiffs[i].Left, name) {
			t.Errorf("SubDiffs[%d].Left = %q, want suffix %q", i, res.SubDiffs[i].Left, name)
		}
	}
}

func TestDiffDirExclude(t *testing.T) {
	h := NewTestHelper(t)
	h.WriteFile("left/keep.txt", []byte("x"))
	h.WriteFile("left/skip.tmp", []byte("left junk"))
	h.WriteFile("left/.git/config", []byte("left repo"))
	h.WriteFile("right/keep.txt", []byte("x"))
	h.WriteFile("right/skip.tmp", []byte("right junk"))
	h.WriteFile("right/.git/config", []byte("right repo"))

	opts := Options{Exclude: []string{"*.tmp", ".git/"}}
	res, err := newTestDiffer(opts).Diff(context.Background(), h.Path("left"), h.Path("right"))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if !res.Matches {
		t.Errorf("Diff() Matches = false, want true; report: %s", res.Report)
	}
	if len(res.Common) != 1 || res.Common[0] != "keep.txt" {
		t.Errorf("Common = %v, want [keep.txt]", res.Common)
	}
}

func TestDiffDirSymlinkCycle(t *testing.T) {
	h := NewTestHelper(t)
	left := h.Mkdir("left")
	right := h.Mkdir("right")
	if err := os.Symlink(left, h.Path("left/loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(right, h.Path("right/loop")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	res, err := newTestDiffer(Options{}).Diff(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if res.Matches {
		t.Error("a cyclic tree should not report a clean match")
	}
	if len(res.SubDiffs) != 1 {
		t.Fatalf("SubDiffs = %d entries, want 1", len(res.SubDiffs))
	}
	if !strings.Contains(res.SubDiffs[0].Err, "symlink cycle detected") {
		t.Errorf("sub Err = %q, want symlink cycle", res.SubDiffs[0].Err)
	}
}

func TestDiffDirContinueOnError(t *testing.T) {
	h := NewTestHelper(t)
	// A .nii name with garbage content fails to parse, producing a
	// comparison error for that entry
	h.WriteFile("left/broken.nii", []byte("not an image"))
	h.WriteFile("right/broken.nii", []byte("not an image"))
	h.WriteFile("left/ok.txt", []byte("same"))
	h.WriteFile("right/ok.txt", []byte("same"))

	t.Run("Enabled", func(t *testing.T) {
		opts := Options{ContinueOnError: true}
		res, err := newTestDiffer(opts).Diff(context.Background(), h.Path("left"), h.Path("right"))
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if res.Matches {
			t.Error("parent Matches = true, want false when an entry errored")
		}

		var errored *Result
		for _, sub := range res.SubDiffs {
			if sub.Err != "" {
				errored = sub
			}
		}
		if errored == nil {
			t.Fatal("no errored sub-result recorded")
		}
		if !strings.Contains(errored.AdditionalInfo, "comparison failed") {
			t.Errorf("AdditionalInfo = %q, want comparison failure", errored.AdditionalInfo)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		opts := Options{ContinueOnError: false}
		_, err := newTestDiffer(opts).Diff(context.Background(), h.Path("left"), h.Path("right"))
		if err == nil {
			t.Fatal("Diff() expected error with fail-fast behavior")
		}
	})
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		isDir    bool
		patterns []string
		want     bool
	}{
		{"GlobMatch", "cache.tmp", false, []string{"*.tmp"}, true},
		{"GlobNoMatch", "cache.txt", false, []string{"*.tmp"}, false},
		{"DirPattern", ".git", true, []string{".git/"}, true},
		{"DirPatternOnFile", ".git", false, []string{".git/"}, false},
		{"ExactName", "Thumbs.db", false, []string{"Thumbs.db"}, true},
		{"EmptyPattern", "anything", false, []string{""}, false},
		{"NoPatterns", "anything", false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldExclude(tt.entry, tt.isDir, tt.patterns); got != tt.want {
				t.Errorf("shouldExclude(%q) = %v, want %v", tt.entry, got, tt.want)
			}
		})
	}
}
