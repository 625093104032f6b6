package archprobe

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// HostFeatures reports the ISA extensions the host advertises. The timing
// probes infer structure sizes the hardware does not advertise; this is the
// complementary surface for the same fingerprinting consumer, covering what
// the hardware does advertise.
type HostFeatures struct {
	HasSSE4    bool
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool

	HasNEON   bool // ARM64 ASIMD
	HasSVE    bool
	HasAtomic bool // ARM64 LSE atomics
}

// DetectHostFeatures queries the host's CPU feature flags.
func DetectHostFeatures() HostFeatures {
	return HostFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
		HasNEON:    cpu.ARM64.HasASIMD,
		HasSVE:     cpu.ARM64.HasSVE,
		HasAtomic:  cpu.ARM64.HasATOMICS,
	}
}

// String returns a compact comma-separated list of the detected features.
func (f HostFeatures) String() string {
	var features []string
	if f.HasSSE4 {
		features = append(features, "SSE4")
	}
	if f.HasAVX {
		features = append(features, "AVX")
	}
	if f.HasAVX2 {
		features = append(features, "AVX2")
	}
	if f.HasAVX512F {
		features = append(features, "AVX512F")
	}
	if f.HasFMA {
		features = append(features, "FMA")
	}
	if f.HasNEON {
		features = append(features, "NEON")
	}
	if f.HasSVE {
		features = append(features, "SVE")
	}
	if f.HasAtomic {
		features = append(features, "LSE")
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ",")
}
