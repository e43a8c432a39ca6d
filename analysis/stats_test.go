package analysis

import (
	"testing"
	"time"
)

func TestPercentileInterpolation(t *testing.T) {
	t.Parallel()

	xs := []float64{4, 1, 3, 2}
	if got := percentile(xs, 50); got != 2.5 {
		t.Fatalf("percentile(50)=%v, want 2.5", got)
	}
	if got := percentile(xs, 0); got != 1 {
		t.Fatalf("percentile(0)=%v, want 1", got)
	}
	if got := percentile(xs, 100); got != 4 {
		t.Fatalf("percentile(100)=%v, want 4", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Fatalf("percentile(nil)=%v, want 0", got)
	}
}

func TestStatsEmptyInputs(t *testing.T) {
	t.Parallel()

	if got := mean(nil); got != 0 {
		t.Fatalf("mean(nil)=%v, want 0", got)
	}
	if got := stdDev([]float64{5}); got != 0 {
		t.Fatalf("stdDev of one value=%v, want 0", got)
	}
	if min, max := minMax(nil); min != 0 || max != 0 {
		t.Fatalf("minMax(nil)=%v,%v, want 0,0", min, max)
	}
	if got := pct(3, 0); got != 0 {
		t.Fatalf("pct(3, 0)=%v, want 0", got)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{4*time.Minute + 30*time.Second, "4m 30s"},
		{5 * time.Minute, "5m"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{3*24*time.Hour + 2*time.Hour, "3d 2h"},
		{-30 * time.Second, "30s"},
	}
	for _, c := range cases {
		if got := formatDuration(c.d); got != c.want {
			t.Fatalf("formatDuration(%v)=%q, want %q", c.d, got, c.want)
		}
	}
}
