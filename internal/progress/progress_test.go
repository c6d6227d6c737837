package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/nconklindev/diffcheck/internal/types"
)

func TestTrackerMonotonic(t *testing.T) {
	var got []int
	tr := New(context.Background(), func(p int) error {
		got = append(got, p)
		return nil
	})

	for _, p := range []int{1, 5, 5, 3, 30, 150, 99} {
		if err := tr.Report(p); err != nil {
			t.Fatalf("Report(%d) = %v", p, err)
		}
	}

	expected := []int{1, 5, 30, 100}
	if len(got) != len(expected) {
		t.Fatalf("reported %v; want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("reported %v; want %v", got, expected)
		}
	}
}

func TestTrackerAbort(t *testing.T) {
	stop := errors.New("user cancelled")
	tr := New(context.Background(), func(p int) error {
		if p >= 30 {
			return stop
		}
		return nil
	})

	if err := tr.Report(10); err != nil {
		t.Fatalf("Report(10) = %v", err)
	}
	err := tr.Report(30)
	if !errors.Is(err, types.ErrAborted) || !errors.Is(err, stop) {
		t.Errorf("Report(30) = %v; want ErrAborted wrapping callback error", err)
	}
}

func TestTrackerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := New(ctx, nil)
	cancel()

	if err := tr.Report(1); !errors.Is(err, context.Canceled) {
		t.Errorf("Report after cancel = %v; want context.Canceled", err)
	}
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	if err := tr.Report(50); err != nil {
		t.Errorf("nil tracker Report = %v", err)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		from, to, i, total, expected int
	}{
		{30, 90, 0, 10, 30},
		{30, 90, 5, 10, 60},
		{30, 90, 10, 10, 90},
		{30, 90, 0, 0, 30},
	}
	for _, tt := range tests {
		if got := Scale(tt.from, tt.to, tt.i, tt.total); got != tt.expected {
			t.Errorf("Scale(%d, %d, %d, %d) = %d; want %d", tt.from, tt.to, tt.i, tt.total, got, tt.expected)
		}
	}
}

func TestChannelNeverBlocks(t *testing.T) {
	ch := make(chan float64, 1)
	fn := Channel(ch)
	fn(10)
	fn(20)
	if got := <-ch; got != 0.1 {
		t.Errorf("first value = %v; want 0.1", got)
	}
}
