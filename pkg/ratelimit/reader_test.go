package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil")
		}
		if NewLimiter(-1) != nil {
			t.Error("NewLimiter(-1) should return nil")
		}
	})

	t.Run("BucketFloor", func(t *testing.T) {
		l := NewLimiter(1000)
		if l.bucketSize != 65536 {
			t.Errorf("bucketSize = %d, want 65536 floor", l.bucketSize)
		}
	})

	t.Run("BucketScales", func(t *testing.T) {
		l := NewLimiter(1 << 20)
		if l.bucketSize != 1<<20 {
			t.Errorf("bucketSize = %d, want %d", l.bucketSize, 1<<20)
		}
	})
}

func TestNewReader(t *testing.T) {
	t.Run("NilLimiterPassthrough", func(t *testing.T) {
		src := strings.NewReader("data")
		r := NewReader(context.Background(), src, nil)
		if r != io.Reader(src) {
			t.Error("nil limiter should return the reader unchanged")
		}
	})

	t.Run("ReadsAllData", func(t *testing.T) {
		content := bytes.Repeat([]byte("x"), 4096)
		r := NewReader(context.Background(), bytes.NewReader(content), NewLimiter(1<<30))

		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("read %d bytes, want %d unchanged", len(got), len(content))
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := NewReader(ctx, strings.NewReader("data"), NewLimiter(1024))
		if _, err := r.Read(make([]byte, 4)); err != context.Canceled {
			t.Errorf("Read() error = %v, want context.Canceled", err)
		}
	})
}

func TestLimiterThrottles(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-sensitive")
	}

	// 64KB burst allowance plus 64KB more at 64KB/s: reading 128KB must
	// take roughly a second
	limiter := NewLimiter(65536)
	content := bytes.Repeat([]byte("y"), 2*65536)
	r := NewReader(context.Background(), bytes.NewReader(content), limiter)

	start := time.Now()
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 500*time.Millisecond {
		t.Errorf("read finished in %v, expected throttling near 1s", elapsed)
	}
}
