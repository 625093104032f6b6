package archprobe

import (
	"math"
)

// Pure-arithmetic compute kernels. These probes have no memory-latency
// dependency; they characterize floating point rounding drift,
// transcendental function cost, integer ALU behavior, and fixed-width
// vector arithmetic. Every kernel clamps non-finite or runaway
// intermediates back into a safe range: a pathological input must never
// produce NaN, Inf, or an unbounded result.

// finiteOr returns v unless it is NaN or Inf, in which case it returns the
// fallback.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// FloatPrecisionTest accumulates rounding error through a repeated
// add/scale/sqrt/square chain. The drift of the result across platforms
// reflects the host's floating point rounding and fusion behavior.
func FloatPrecisionTest(iterations int) float64 {
	result := 1.0
	increment := 1.0 / 3.0 // non-representable, forces rounding each step
	for i := 0; i < iterations; i++ {
		result += increment
		result *= 0.9999
		if result > 0 {
			result = math.Sqrt(result)
			result = result * result
		}
	}
	return finiteOr(result, 1.0)
}

// TranscendentalTest chains sin, cos, log, and exp with damping factors
// that keep every intermediate in a small positive range.
func TranscendentalTest(input float64, iterations int) float64 {
	result := math.Abs(input)
	if result == 0 {
		result = 1.0
	}
	for i := 0; i < iterations; i++ {
		result = math.Sin(result*0.1) + 1.1
		result = math.Cos(result*0.1) + 1.1
		result = math.Abs(result)
		if result > 10.0 {
			result = result / 10.0
		}
		result = math.Log(result + 1.0)
		result = math.Exp(result * 0.1)
		if math.IsNaN(result) || math.IsInf(result, 0) {
			result = 1.0
		}
	}
	return finiteOr(result, 1.0)
}

// IntegerOptimizationTest runs a mixed multiply/shift/xor chain over int64
// with clamps that keep the value inside a bounded window. The result is a
// deterministic function of the iteration count.
func IntegerOptimizationTest(iterations int) float64 {
	result := int64(12345)
	for i := 1; i <= iterations; i++ {
		result = (result*3 + int64(i)) / 2
		result ^= (result << 1) ^ (result >> 1)
		if i&1 == 1 {
			result += int64(i)
		} else {
			result += int64(i / 2)
		}
		if result > 1000000 || result < -1000000 {
			result = result%1000000 + 1000
		}
		if result == 0 {
			result = int64(i + 1000)
		}
	}
	return float64(result)
}

// BranchPredictionTest mixes a strictly periodic four-way branch pattern
// with a pseudo-random one, exercising both the pattern-history and the
// hashed components of the host's conditional branch predictor.
func BranchPredictionTest(iterations int) float64 {
	var result int64
	for i := 0; i < iterations; i++ {
		switch i % 4 {
		case 0:
			result += int64(i) * 2
		case 1:
			result -= int64(i)
		case 2:
			result += int64(i / 2)
		default:
			result = int64(float64(result) * 1.01)
		}

		// 32-bit wraparound keeps the pseudo-random stream identical on
		// every host
		pseudoRand := int((int32(i) * 314159) % 1000)
		switch {
		case pseudoRand < 250:
			result += int64(pseudoRand)
		case pseudoRand < 500:
			result -= int64(pseudoRand / 2)
		case pseudoRand < 750:
			result *= 2
		default:
			if result != 0 {
				result /= 2
			}
		}

		if result > 1000000000 || result < -1000000000 {
			result = result % 1000000000
		}
	}
	return float64(result)
}

// VectorComputationTest runs 8-lane fixed-width arithmetic (add, multiply,
// dot product, then a sqrt/sin/cos shuffle) the way a SIMD unit would see
// it. Lanes that go non-finite or out of range reset to a lane-dependent
// default so the workload never diverges.
func VectorComputationTest(iterations int) float64 {
	vecA := [8]float64{1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0}
	vecB := [8]float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5}
	var result [8]float64

	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < 8; i++ {
			result[i] = vecA[i] + vecB[i]
		}
		for i := 0; i < 8; i++ {
			result[i] *= vecA[i]
		}

		dotProduct := 0.0
		for i := 0; i < 8; i++ {
			dotProduct += result[i] * vecB[i]
		}

		for i := 0; i < 8; i++ {
			result[i] = math.Sqrt(math.Abs(result[i])) + math.Sin(vecA[i]*0.1)
			result[i] = result[i]*math.Cos(vecB[i]*0.1) + 1.0
		}

		for i := 0; i < 8; i++ {
			vecA[i] = result[i] * 0.9
			vecB[i] = dotProduct*0.001 + float64(i+1)

			if math.IsNaN(vecA[i]) || math.IsInf(vecA[i], 0) || math.Abs(vecA[i]) > 1000 {
				vecA[i] = float64(i + 1)
			}
			if math.IsNaN(vecB[i]) || math.IsInf(vecB[i], 0) || math.Abs(vecB[i]) > 1000 {
				vecB[i] = float64(i+1) * 0.5
			}
		}
	}

	finalResult := 0.0
	for i := 0; i < 8; i++ {
		if !math.IsNaN(result[i]) && !math.IsInf(result[i], 0) {
			finalResult += result[i]
		}
	}
	return finiteOr(finalResult, 1.0)
}

// NumericalStabilityTest iterates an operation sequence that is prone to
// catastrophic cancellation and domain errors (sqrt of a near-zero sum,
// log-exp round trips, asin near the domain edge, pow with an exponent just
// past 1). On any sign of divergence the value resets to the caller's base.
func NumericalStabilityTest(base float64, iterations int) float64 {
	result := math.Abs(base)
	if result == 0 {
		result = 1.0
	}
	for i := 0; i < iterations; i++ {
		if result > 0 {
			result = math.Sqrt(result*result + 1e-10)
		}
		if result > 0 {
			result = math.Log(math.Exp(result*0.01)*0.99 + 0.01)
		}
		if result > -10 && result < 10 {
			temp := math.Sin(result)
			if math.Abs(temp) < 0.99 {
				result = math.Asin(temp * 0.99)
			}
		}
		if result > 0 {
			result = math.Pow(result, 1.0+1e-6)
		}
		if math.IsNaN(result) || math.IsInf(result, 0) || result <= 0 || result > 100 {
			result = base
		}
	}
	return finiteOr(result, 1.0)
}

// ComputeMemoryRatioTest streams a float64 buffer through a per-element
// transcendental chain whose depth is set by computeIntensity, blending
// memory pressure with compute pressure in a caller-controlled ratio.
func ComputeMemoryRatioTest(sizeKB, computeIntensity int) float64 {
	if sizeKB <= 0 {
		return ProbeFailure
	}
	buf, err := acquireBuffer(sizeKB * 1024)
	if err != nil {
		return ProbeFailure
	}
	defer buf.release()

	data := buf.float64s()
	count := len(data)
	for i := 0; i < count; i++ {
		data[i] = float64(i) / float64(count)
	}

	result := 0.0
	for i := 0; i < count; i++ {
		value := data[i]
		for j := 0; j < computeIntensity; j++ {
			value = math.Sin(value*0.1) + math.Cos(value*0.1)
			if math.IsNaN(value) || math.IsInf(value, 0) {
				value = 0.5
			}
		}
		result += value
		data[i] = value // write back, keeps the store stream live
	}
	return finiteOr(result, 0.0)
}

// CacheBehaviorTest sums an int32 buffer either sequentially (pattern 0,
// cache friendly) or at a fixed 256-element stride (cache hostile), giving
// the caller a direct friendly-vs-hostile cost pair across two calls.
func CacheBehaviorTest(sizeKB, accessPattern int) float64 {
	if sizeKB <= 0 {
		return ProbeFailure
	}
	buf, err := acquireBuffer(sizeKB * 1024)
	if err != nil {
		return ProbeFailure
	}
	defer buf.release()

	data := buf.int32s()
	for i := range data {
		data[i] = int32(i)
	}

	var sum int64
	if accessPattern == 0 {
		for i := 0; i < len(data); i++ {
			sum += int64(data[i])
		}
	} else {
		const stride = 256
		for i := 0; i < len(data); i += stride {
			sum += int64(data[i])
		}
	}
	return float64(sum)
}
