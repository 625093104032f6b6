package archprobe

import (
	"fmt"
	"sort"
)

// The registry is the external boundary of the probe suite: a table of
// named entry points, each accepting only numeric arguments and returning
// one float64. The table is built once at init and never mutated, so
// lookups and calls are safe from any number of independent call sites.

// Probe describes one named entry point.
type Probe struct {
	Name string   // stable wire name of the probe
	Args []string // argument names, in call order
	Fn   func(args []float64) float64
}

// Arity returns the number of arguments the probe takes.
func (p Probe) Arity() int { return len(p.Args) }

var probeTable = map[string]Probe{}

func register(name string, args []string, fn func([]float64) float64) {
	probeTable[name] = Probe{Name: name, Args: args, Fn: fn}
}

func init() {
	// Memory access probes
	register("sequential_access_test", []string{"size_kb", "iterations"},
		func(a []float64) float64 { return SequentialAccessTest(int(a[0]), int(a[1])) })
	register("random_access_test", []string{"size_kb", "iterations"},
		func(a []float64) float64 { return RandomAccessTest(int(a[0]), int(a[1])) })
	register("stride_access_test", []string{"size_kb", "stride", "iterations"},
		func(a []float64) float64 { return StrideAccessTest(int(a[0]), int(a[1]), int(a[2])) })
	register("allocation_pattern_test", []string{"num_allocs", "alloc_size"},
		func(a []float64) float64 { return AllocationPatternTest(int(a[0]), int(a[1])) })
	register("alignment_sensitivity_test", []string{"size_kb", "offset"},
		func(a []float64) float64 { return AlignmentSensitivityTest(int(a[0]), int(a[1])) })
	register("bulk_memory_test", []string{"size_kb"},
		func(a []float64) float64 { return BulkMemoryTest(int(a[0])) })

	// Cache hierarchy inference
	register("l1_cache_size_detection", []string{"max_size_kb"},
		func(a []float64) float64 { return L1CacheSizeDetection(int(a[0])) })
	register("l2_cache_size_detection", []string{"max_size_kb"},
		func(a []float64) float64 { return L2CacheSizeDetection(int(a[0])) })
	register("l3_cache_size_detection", []string{"max_size_mb"},
		func(a []float64) float64 { return L3CacheSizeDetection(int(a[0])) })
	register("cache_line_size_detection", nil,
		func(a []float64) float64 { return CacheLineSizeDetection() })
	register("tlb_size_detection", nil,
		func(a []float64) float64 { return TLBSizeDetection() })

	// Compute kernels
	register("float_precision_test", []string{"iterations"},
		func(a []float64) float64 { return FloatPrecisionTest(int(a[0])) })
	register("transcendental_test", []string{"input", "iterations"},
		func(a []float64) float64 { return TranscendentalTest(a[0], int(a[1])) })
	register("integer_optimization_test", []string{"iterations"},
		func(a []float64) float64 { return IntegerOptimizationTest(int(a[0])) })
	register("branch_prediction_test", []string{"iterations"},
		func(a []float64) float64 { return BranchPredictionTest(int(a[0])) })
	register("vector_computation_test", []string{"iterations"},
		func(a []float64) float64 { return VectorComputationTest(int(a[0])) })
	register("numerical_stability_test", []string{"base", "iterations"},
		func(a []float64) float64 { return NumericalStabilityTest(a[0], int(a[1])) })
	register("compute_memory_ratio_test", []string{"size_kb", "compute_intensity"},
		func(a []float64) float64 { return ComputeMemoryRatioTest(int(a[0]), int(a[1])) })
	register("cache_behavior_test", []string{"size_kb", "access_pattern"},
		func(a []float64) float64 { return CacheBehaviorTest(int(a[0]), int(a[1])) })

	// Branch predictor structures
	register("btb_size_detection", []string{"max_branches"},
		func(a []float64) float64 { return BTBSizeDetection(int(a[0])) })
	register("branch_history_depth_test", []string{"max_pattern_length"},
		func(a []float64) float64 { return BranchHistoryDepthTest(int(a[0])) })
	register("indirect_branch_predictor_test", []string{"num_targets"},
		func(a []float64) float64 { return IndirectBranchPredictorTest(int(a[0])) })
	register("loop_branch_predictor_test", []string{"max_loop_depth"},
		func(a []float64) float64 { return LoopBranchPredictorTest(int(a[0])) })
	register("return_stack_depth_test", []string{"max_call_depth"},
		func(a []float64) float64 { return ReturnStackDepthTest(int(a[0])) })
}

// Probes returns every registered probe, sorted by name.
func Probes() []Probe {
	out := make([]Probe, 0, len(probeTable))
	for _, p := range probeTable {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a probe by name.
func Lookup(name string) (Probe, bool) {
	p, ok := probeTable[name]
	return p, ok
}

// Call invokes a probe by name. Unknown names and arity mismatches are the
// only error conditions; the probe itself always returns a number.
func Call(name string, args ...float64) (float64, error) {
	p, ok := probeTable[name]
	if !ok {
		return ProbeFailure, NewRegistryError("Call",
			fmt.Sprintf("unknown probe %q", name))
	}
	if len(args) != p.Arity() {
		return ProbeFailure, NewRegistryError("Call",
			fmt.Sprintf("probe %q takes %d argument(s) %v, got %d",
				name, p.Arity(), p.Args, len(args)))
	}
	return p.Fn(args), nil
}
