package archprobe

import (
	"go.uber.org/zap"
)

// TLB reach inference. The sweep doubles the page count from 16 to 1024,
// touching each page exactly once per iteration so the working set is one
// translation per page. When the cost breaches baseline * 1.5 the
// translation cache has been exceeded and the previous page count (half
// the breaching one) is the estimate.

// tlbSampler measures the per-page access cost for one page count.
type tlbSampler func(numPages int) (costPerPage float64, ok bool)

func tlbSweep(sample tlbSampler) int {
	baseline := 0.0
	baselineSet := false
	entries := defaultTLBEntries

	for pages := tlbSweepMinPages; pages <= tlbSweepMaxPages; pages *= 2 {
		cost, ok := sample(pages)
		if !ok {
			logStepSkipped("tlb", pages, nil)
			continue
		}
		if !baselineSet {
			baseline = cost
			baselineSet = true
		}
		if cost > baseline*tlbBreachMultiplier {
			entries = pages / 2
			break
		}
	}
	return entries
}

func sampleTLB(numPages int) (float64, bool) {
	buf, err := acquireBuffer(numPages * probePageSize)
	if err != nil {
		return 0, false
	}
	defer buf.release()
	buf.fill(1)

	data := buf.data
	var sum int64
	for iter := 0; iter < tlbProbeIterations; iter++ {
		for page := 0; page < numPages; page++ {
			sum += int64(data[page*probePageSize])
		}
	}
	return float64(sum) / float64(tlbProbeIterations*numPages), true
}

// TLBSizeDetection estimates the number of data TLB entries, assuming 4 KiB
// pages.
func TLBSizeDetection() float64 {
	entries := tlbSweep(sampleTLB)
	logger().Debug("tlb sweep finished", zap.Int("entries", entries))
	return float64(entries)
}
