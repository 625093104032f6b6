package archprobe

import (
	"testing"
)

// acquireOrFail allocates a workload buffer and fails the test if unsuccessful
func acquireOrFail(t testing.TB, size int) *workloadBuffer {
	t.Helper()
	buf, err := acquireBuffer(size)
	if err != nil {
		t.Fatalf("Failed to acquire %d byte workload buffer: %v", size, err)
	}
	return buf
}

// callOrFail invokes a registered probe and fails the test on dispatch errors
func callOrFail(t testing.TB, name string, args ...float64) float64 {
	t.Helper()
	v, err := Call(name, args...)
	if err != nil {
		t.Fatalf("Probe %q dispatch failed: %v", name, err)
	}
	return v
}
