// Package archprobe calibration constants.
//
// Every threshold, candidate list, and default in this file is an
// empirically tuned calibration value, not a first-principles derivation.
// The inference engines consult this table; revising a calibration must not
// require touching the sweep algorithms themselves.
package archprobe

// ProbeFailure is the sentinel returned when a probe's required allocation
// fails or its parameters are non-positive where a positive size is needed.
const ProbeFailure = -1.0

// Workload buffer guards
const (
	// Largest single workload buffer a probe may request. Requests past
	// this degrade to allocation failure instead of exhausting the host.
	maxWorkloadBytes = 1 << 30 // 1GB

	// Largest allocation batch for the allocation pattern probe
	maxAllocationBatch = 1 << 20
)

// Linear-congruential generator parameters (32-bit wraparound).
// The three constant pairs are the classic Numerical Recipes, glibc, and
// VAX MTH$RANDOM multipliers; the probes rely on their exact values for
// reproducible access sequences.
const (
	lcgMulNR = 1664525
	lcgAddNR = 1013904223

	lcgMulGlibc = 1103515245
	lcgAddGlibc = 12345

	lcgMulVax = 69069
	lcgAddVax = 1

	// Seed shared by every randomized probe
	defaultProbeSeed = 12345
)

// L1 cache detection
var (
	// Candidate L1 sizes in KiB. Not a geometric sequence: real L1 sizes
	// cluster at non-power-of-two boundaries on some platforms (Apple
	// Silicon performance cores report 192KB = 128+64KB).
	l1CandidateSizesKB = []int{16, 32, 48, 64, 96, 128, 160, 192, 224, 256, 320}
)

const (
	defaultL1SizeKB = 64

	// Platform calibration: latency tolerances for the fixed overrides at
	// 192/128/64 KiB (asymmetric big.LITTLE cache configurations)
	l1Override192Tolerance = 1.15
	l1OverrideTolerance    = 1.1

	l1ProbeIterations = 1000
)

// L2 cache detection
const (
	defaultL2SizeKB = 256

	l2SweepStartKB = 512
	l2SweepCapKB   = 20480 // 20MB

	// Latency ratio over baseline that signals the sweep has left L2
	l2BreachMultiplier = 1.3

	// Large-cache window: sizes in this range that stay near baseline
	// indicate an unusually large L2 (Apple Silicon M-series)
	l2LargeFloorKB    = 8192
	l2LargeCeilKB     = 16384
	l2LargeTolerance  = 1.2
	l2ConservativeKB  = 4096 // fallback when a large reading fails re-confirmation
	l2ConfirmAccesses = 10000

	l2ProbeIterations = 500
)

// L3 cache detection
const (
	defaultL3SizeMB    = 8
	l3BreachMultiplier = 2.0
	l3ProbeStride      = 4096
	l3ProbeIterations  = 1000
)

// Cache line detection
var cacheLineCandidates = []int{32, 64, 128}

const (
	defaultCacheLineSize    = 64
	cacheLineProbeSizeBytes = 32 * 1024
	cacheLineIterations     = 1000
)

// TLB detection
const (
	defaultTLBEntries   = 64
	probePageSize       = 4096
	tlbSweepMinPages    = 16
	tlbSweepMaxPages    = 1024
	tlbBreachMultiplier = 1.5
	tlbProbeIterations  = 1000
)

// Branch predictor probes
const (
	defaultBTBEntries  = 512
	btbSweepStart      = 64
	btbDegradeRatio    = 0.8
	btbProbeIterations = 10000

	defaultBranchHistoryDepth = 4
	historyProbeIterations    = 10000

	indirectProbeIterations = 50000

	defaultReturnStackDepth = 8
	returnStackTrackLimit   = 16
	returnStackFrames       = 32
	returnStackIterations   = 1000
)

// Strided access budget. Differing strides must remain comparably costed,
// so the total access count is clamped into a fixed window.
const (
	strideBaseAccesses = 25000
	strideFactorStep   = 10000
	strideMinAccesses  = 15000
	strideMaxAccesses  = 100000
)
