package archprobe

import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

// workloadBuffer is a contiguous scratch region owned by exactly one probe
// invocation. The owning probe acquires it on entry, touches it before any
// measured access so the backing pages are committed, and releases it on
// every exit path.
type workloadBuffer struct {
	data []byte
}

// workloadArena tracks live workload memory across probe invocations. The
// counters are diagnostic only; buffers are never shared or pooled, so each
// probe's working set stays private to its call.
type workloadArena struct {
	mu      sync.Mutex
	current int64
	peak    int64
}

var arena workloadArena

func (a *workloadArena) grow(n int) {
	a.mu.Lock()
	a.current += int64(n)
	if a.current > a.peak {
		a.peak = a.current
	}
	a.mu.Unlock()
}

func (a *workloadArena) shrink(n int) {
	a.mu.Lock()
	a.current -= int64(n)
	a.mu.Unlock()
}

// WorkloadStats returns the current and peak number of live workload bytes.
func WorkloadStats() (current, peak int64) {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	return arena.current, arena.peak
}

// acquireBuffer allocates a workload buffer of size bytes. Requests that are
// non-positive or past the workload guard fail with a structured error; the
// probe boundary converts that into the -1 sentinel or a skipped sweep step.
func acquireBuffer(size int) (*workloadBuffer, error) {
	if size <= 0 {
		return nil, NewInvalidArgError("acquireBuffer",
			fmt.Sprintf("non-positive workload size %d", size))
	}
	if size > maxWorkloadBytes {
		return nil, NewAllocationError("acquireBuffer",
			fmt.Sprintf("workload size %d exceeds guard %d", size, maxWorkloadBytes))
	}
	buf := &workloadBuffer{data: make([]byte, size)}
	arena.grow(size)
	return buf, nil
}

// touch writes the deterministic pattern index & 0xFF into every byte so the
// backing pages are committed before measurement begins. The pattern doubles
// as the reference oracle for the sequential probe's checksum.
func (b *workloadBuffer) touch() {
	for i := range b.data {
		b.data[i] = byte(i)
	}
}

// fill writes a constant byte into the whole buffer.
func (b *workloadBuffer) fill(v byte) {
	for i := range b.data {
		b.data[i] = v
	}
}

// release frees the buffer. Idempotent; any use after release is a no-op
// view over an empty region rather than a fault.
func (b *workloadBuffer) release() {
	if b == nil || b.data == nil {
		return
	}
	arena.shrink(len(b.data))
	b.data = nil
}

// float64s returns a float64 view over the buffer. The view aliases the
// buffer's bytes and shares its lifetime.
func (b *workloadBuffer) float64s() []float64 {
	n := len(b.data) / 8
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), n)
}

// int32s returns an int32 view over the buffer.
func (b *workloadBuffer) int32s() []int32 {
	n := len(b.data) / 4
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&b.data[0])), n)
}

// logStepSkipped records an allocation failure inside a sweep. The sweep
// continues with the next parameter.
func logStepSkipped(engine string, param int, err error) {
	logger().Debug("sweep step skipped",
		zap.String("engine", engine),
		zap.Int("param", param),
		zap.Error(err))
}
