// Package archprobe infers physical characteristics of the host CPU and
// memory subsystem through behavioral side channels measured from plain
// user-space code, without any privileged introspection API.
//
// The package is a suite of inference probes: parameterized access-pattern
// generators paired with threshold-based decision logic that turns a sweep
// of measured costs into a single structural estimate, such as "L1 size is
// 64 KiB" or "the TLB covers 128 pages". Covered structures include the
// L1/L2/L3 data cache sizes, the cache line size, TLB reach, branch target
// buffer capacity, branch history depth, indirect-branch prediction
// behavior, and return-address-stack depth, plus a set of pure-compute
// kernels for characterizing floating point and integer execution.
//
// Probes do not measure time themselves. Each one returns a workload-derived
// cost proxy (or a structural estimate) as a float64; wall-clock timing is
// the caller's job, wrapped around the call boundary. A return of -1 signals
// that a required allocation failed. Every probe is total over its input
// domain: bad parameters and allocation pressure degrade to sentinel or
// default results, never to a panic or an error return.
//
// Typical use:
//
//	l1 := archprobe.L1CacheSizeDetection(512) // candidate sizes up to 512 KiB
//	line := archprobe.CacheLineSizeDetection()
//
// Or through the registry boundary, which exposes every probe as a named
// entry point taking only numeric arguments:
//
//	v, err := archprobe.Call("tlb_size_detection")
//
// Probes are single-threaded and run to completion; independent calls are
// safe to issue concurrently since no state is shared between invocations.
package archprobe
