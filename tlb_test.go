package archprobe

import (
	"testing"
)

func stepTLBCurve(breachAtPages int) tlbSampler {
	return func(numPages int) (float64, bool) {
		if numPages >= breachAtPages {
			return 2.0, true
		}
		return 1.0, true
	}
}

func TestTLBSweepBreachReportsHalf(t *testing.T) {
	cases := []struct {
		breachAt int
		want     int
	}{
		{32, 16},
		{256, 128},
		{1024, 512},
	}
	for _, tc := range cases {
		if got := tlbSweep(stepTLBCurve(tc.breachAt)); got != tc.want {
			t.Errorf("tlbSweep with breach at %d pages = %d, want %d",
				tc.breachAt, got, tc.want)
		}
	}
}

func TestTLBSweepNoBreachYieldsDefault(t *testing.T) {
	flat := func(int) (float64, bool) { return 1.0, true }
	if got := tlbSweep(flat); got != defaultTLBEntries {
		t.Errorf("tlbSweep flat curve = %d, want default %d", got, defaultTLBEntries)
	}
}

func TestTLBSweepSkipsFailedSteps(t *testing.T) {
	sample := func(numPages int) (float64, bool) {
		if numPages < 64 {
			return 0, false // first steps skipped, baseline moves to 64
		}
		if numPages >= 512 {
			return 2.0, true
		}
		return 1.0, true
	}
	if got := tlbSweep(sample); got != 256 {
		t.Errorf("tlbSweep = %d, want 256", got)
	}
}

func TestTLBDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping hardware probe in short mode")
	}
	got := TLBSizeDetection()
	valid := map[float64]bool{8: true, 16: true, 32: true, 64: true,
		128: true, 256: true, 512: true}
	if !valid[got] {
		t.Errorf("TLBSizeDetection() = %v, not a reachable estimate", got)
	}
}
