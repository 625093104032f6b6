package archprobe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var allProbeNames = []string{
	"sequential_access_test",
	"random_access_test",
	"stride_access_test",
	"allocation_pattern_test",
	"alignment_sensitivity_test",
	"bulk_memory_test",
	"l1_cache_size_detection",
	"l2_cache_size_detection",
	"l3_cache_size_detection",
	"cache_line_size_detection",
	"tlb_size_detection",
	"float_precision_test",
	"transcendental_test",
	"integer_optimization_test",
	"branch_prediction_test",
	"vector_computation_test",
	"numerical_stability_test",
	"compute_memory_ratio_test",
	"cache_behavior_test",
	"btb_size_detection",
	"branch_history_depth_test",
	"indirect_branch_predictor_test",
	"loop_branch_predictor_test",
	"return_stack_depth_test",
}

func TestRegistryCompleteness(t *testing.T) {
	probes := Probes()
	assert.Len(t, probes, len(allProbeNames))

	for _, name := range allProbeNames {
		p, ok := Lookup(name)
		require.True(t, ok, "probe %q not registered", name)
		assert.Equal(t, name, p.Name)
		assert.Equal(t, len(p.Args), p.Arity())
	}
}

func TestRegistrySorted(t *testing.T) {
	probes := Probes()
	for i := 1; i < len(probes); i++ {
		assert.Less(t, probes[i-1].Name, probes[i].Name)
	}
}

func TestCallUnknownProbe(t *testing.T) {
	v, err := Call("no_such_probe")
	assert.Equal(t, ProbeFailure, v)
	require.Error(t, err)

	var perr *ProbeError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrTypeRegistry, perr.Type)
}

func TestCallArityMismatch(t *testing.T) {
	v, err := Call("sequential_access_test", 64) // needs size_kb and iterations
	assert.Equal(t, ProbeFailure, v)
	require.Error(t, err)

	v, err = Call("cache_line_size_detection", 1, 2, 3)
	assert.Equal(t, ProbeFailure, v)
	require.Error(t, err)
}

func TestCallSentinelOnBadSizes(t *testing.T) {
	v, err := Call("l1_cache_size_detection", -5)
	require.NoError(t, err, "bad sizes are sentinel results, not dispatch errors")
	assert.Equal(t, ProbeFailure, v)
}

func TestConcurrentCalls(t *testing.T) {
	// Probes share no state, so independent call sites may overlap
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Call("sequential_access_test", 4, 2)
			assert.NoError(t, err)
			assert.Equal(t, sequentialOracle(4, 2), v)
		}()
	}
	wg.Wait()
}

func TestSetLogger(t *testing.T) {
	SetLogger(zaptest.NewLogger(t))
	defer SetLogger(nil)

	// Exercise a skipped-step log path: every allocation past the guard
	// fails, so zero bytes commit
	v := AllocationPatternTest(2, maxWorkloadBytes+1)
	assert.Equal(t, 0.0, v)
}
