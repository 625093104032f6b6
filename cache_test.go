package archprobe

import (
	"testing"
)

// syntheticCurve builds a cacheSampler from a latency function over the
// parameter, with an optional failure predicate for skipped steps.
func syntheticCurve(latency func(size int) float64, fails func(size int) bool) cacheSampler {
	return func(_, size int) (float64, bool) {
		if fails != nil && fails(size) {
			return 0, false
		}
		return latency(size), true
	}
}

func TestL1SweepPicksMinimumLatency(t *testing.T) {
	// 64/128/192KB sit outside the override tolerances so the raw minimum
	// at 48KB decides
	curve := syntheticCurve(func(sizeKB int) float64 {
		switch sizeKB {
		case 16:
			return 1.0
		case 48:
			return 0.8
		case 64, 128, 192:
			return 1.5
		default:
			return 1.2
		}
	}, nil)
	if got := l1Sweep(320, curve); got != 48 {
		t.Errorf("l1Sweep = %d, want 48", got)
	}
}

func TestL1SweepAlwaysReturnsCandidate(t *testing.T) {
	curves := []cacheSampler{
		syntheticCurve(func(sizeKB int) float64 { return float64(sizeKB) }, nil),
		syntheticCurve(func(sizeKB int) float64 { return 1.0 / float64(sizeKB) }, nil),
		syntheticCurve(func(sizeKB int) float64 { return 1.0 }, nil),
		syntheticCurve(func(sizeKB int) float64 { return float64(sizeKB % 7) }, nil),
	}
	candidates := map[int]bool{}
	for _, c := range l1CandidateSizesKB {
		candidates[c] = true
	}
	for i, curve := range curves {
		got := l1Sweep(320, curve)
		if !candidates[got] {
			t.Errorf("curve %d: l1Sweep = %d, not a candidate size", i, got)
		}
	}
}

func TestL1SweepPlatformOverride192(t *testing.T) {
	// A flat curve keeps 192KB within tolerance of baseline, which is the
	// asymmetric big.LITTLE signature the override encodes
	flat := syntheticCurve(func(int) float64 { return 1.0 }, nil)
	if got := l1Sweep(320, flat); got != 192 {
		t.Errorf("l1Sweep flat curve = %d, want the 192KB override", got)
	}
}

func TestL1SweepSkipsFailedSteps(t *testing.T) {
	curve := syntheticCurve(
		func(sizeKB int) float64 {
			if sizeKB == 96 {
				return 0.5
			}
			return 1.0
		},
		func(sizeKB int) bool { return sizeKB < 64 },
	)
	if got := l1Sweep(96, curve); got != 96 {
		t.Errorf("l1Sweep = %d, want 96 with early steps skipped", got)
	}
}

func TestL1SweepAllStepsFailedYieldsDefault(t *testing.T) {
	curve := syntheticCurve(nil, func(int) bool { return true })
	if got := l1Sweep(320, curve); got != defaultL1SizeKB {
		t.Errorf("l1Sweep with total failure = %d, want default %d", got, defaultL1SizeKB)
	}
}

func TestL2SweepBreachReportsHalf(t *testing.T) {
	cases := []struct {
		stepAtKB int
		want     int
	}{
		{3072, 1536},
		{1280, 640},
		{4096, 2048},
	}
	for _, tc := range cases {
		curve := syntheticCurve(func(sizeKB int) float64 {
			if sizeKB >= tc.stepAtKB {
				return 2.0
			}
			return 1.0
		}, nil)
		got := l2Sweep(l2SweepCapKB, curve, func(int) bool { return true })
		if got != tc.want {
			t.Errorf("l2Sweep with step at %dKB = %d, want %d", tc.stepAtKB, got, tc.want)
		}
	}
}

func TestL2SweepNeverBelowFloor(t *testing.T) {
	curves := []func(int) float64{
		func(int) float64 { return 1.0 },
		func(sizeKB int) float64 { return float64(sizeKB) },
		func(sizeKB int) float64 { return 100.0 },
	}
	for i, latency := range curves {
		got := l2Sweep(l2SweepCapKB, syntheticCurve(latency, nil), func(int) bool { return false })
		if got < 256 {
			t.Errorf("curve %d: l2Sweep = %d, below the 256KB floor", i, got)
		}
	}
}

func TestL2SweepLargeCacheConfirmation(t *testing.T) {
	// Latency stays near baseline through the 8-16MB window, triggering
	// the large-cache rule
	flat := syntheticCurve(func(int) float64 { return 1.0 }, nil)

	got := l2Sweep(l2SweepCapKB, flat, func(sizeKB int) bool { return true })
	if got != l2LargeCeilKB {
		t.Errorf("l2Sweep confirmed large cache = %d, want %d", got, l2LargeCeilKB)
	}

	// A failed re-confirmation falls back to the conservative estimate
	got = l2Sweep(l2SweepCapKB, flat, func(sizeKB int) bool { return false })
	if got != l2ConservativeKB {
		t.Errorf("l2Sweep rejected large cache = %d, want fallback %d", got, l2ConservativeKB)
	}
}

func TestL2SweepSkipsFailedSteps(t *testing.T) {
	curve := syntheticCurve(
		func(sizeKB int) float64 {
			if sizeKB >= 2048 {
				return 2.0
			}
			return 1.0
		},
		func(sizeKB int) bool { return sizeKB == 512 }, // baseline step fails
	)
	// Baseline moves to the first successful step (1024KB); the breach at
	// 2048KB still resolves
	got := l2Sweep(l2SweepCapKB, curve, func(int) bool { return true })
	if got != 1024 {
		t.Errorf("l2Sweep = %d, want 1024", got)
	}
}

func TestL3SweepBreach(t *testing.T) {
	curve := syntheticCurve(func(sizeMB int) float64 {
		if sizeMB >= 6 {
			return 3.0
		}
		return 1.0
	}, nil)
	if got := l3Sweep(16, curve); got != 5 {
		t.Errorf("l3Sweep with step at 6MB = %d, want 5", got)
	}
}

func TestL3SweepNoBreachYieldsDefault(t *testing.T) {
	flat := syntheticCurve(func(int) float64 { return 1.0 }, nil)
	if got := l3Sweep(16, flat); got != defaultL3SizeMB {
		t.Errorf("l3Sweep flat curve = %d, want default %d", got, defaultL3SizeMB)
	}
}

func TestCacheLineSweepPicksLowestRatio(t *testing.T) {
	// Simulated hardware with 128-byte lines: the misaligned/aligned cost
	// ratio bottoms out at the true line size
	sample := func(lineSize int) (float64, float64, bool) {
		switch lineSize {
		case 32:
			return 100, 250, true
		case 64:
			return 100, 220, true
		default:
			return 100, 150, true
		}
	}
	if got := cacheLineSweep(sample); got != 128 {
		t.Errorf("cacheLineSweep = %d, want 128", got)
	}
}

func TestCacheLineSweepDefaultOnTotalFailure(t *testing.T) {
	sample := func(int) (float64, float64, bool) { return 0, 0, false }
	if got := cacheLineSweep(sample); got != defaultCacheLineSize {
		t.Errorf("cacheLineSweep = %d, want default %d", got, defaultCacheLineSize)
	}
}

func TestL1DetectionReturnsCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping hardware probe in short mode")
	}
	got := L1CacheSizeDetection(64)
	valid := map[float64]bool{16: true, 32: true, 48: true, 64: true}
	if !valid[got] {
		t.Errorf("L1CacheSizeDetection(64) = %v, not a candidate within bound", got)
	}
}

func TestL2DetectionRespectsBound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping hardware probe in short mode")
	}
	// With the sweep bounded at 1MB no breach can be reported, so the
	// engine must fall back to its default
	if got := L2CacheSizeDetection(1024); got != defaultL2SizeKB {
		t.Errorf("L2CacheSizeDetection(1024) = %v, want default %d", got, defaultL2SizeKB)
	}
}

func TestCacheLineDetectionReturnsCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping hardware probe in short mode")
	}
	got := CacheLineSizeDetection()
	if got != 32 && got != 64 && got != 128 {
		t.Errorf("CacheLineSizeDetection() = %v, not in {32, 64, 128}", got)
	}
}

func TestCacheDetectionRejectsBadBounds(t *testing.T) {
	if got := L1CacheSizeDetection(0); got != ProbeFailure {
		t.Errorf("L1CacheSizeDetection(0) = %v, want %v", got, ProbeFailure)
	}
	if got := L2CacheSizeDetection(-512); got != ProbeFailure {
		t.Errorf("L2CacheSizeDetection(-512) = %v, want %v", got, ProbeFailure)
	}
	if got := L3CacheSizeDetection(0); got != ProbeFailure {
		t.Errorf("L3CacheSizeDetection(0) = %v, want %v", got, ProbeFailure)
	}
}
