package archprobe

// Branch predictor structure probes: branch target buffer capacity, branch
// history depth, indirect-branch prediction behavior, loop nesting, and
// return-address-stack depth. These follow the same sweep-and-threshold
// shape as the cache engines, but over branch-pattern parameters instead of
// buffer sizes, and their workloads are synthetic index spaces rather than
// memory regions.

// BTBSizeDetection sweeps the number of distinct branch targets (doubling
// from 64) through an indirect-jump-plus-conditional workload. The score at
// 64 targets is the reference; the first target count whose score degrades
// past the calibrated ratio exceeds the branch target buffer, and half that
// count is reported.
func BTBSizeDetection(maxBranches int) float64 {
	if maxBranches <= 0 {
		return ProbeFailure
	}
	var reference int64
	best := defaultBTBEntries

	for numBranches := btbSweepStart; numBranches <= maxBranches; numBranches *= 2 {
		targets := btbTargets(numBranches)

		var sum int64
		for iter := 0; iter < btbProbeIterations; iter++ {
			for i := 0; i < numBranches; i++ {
				// Indirect target selection, then a three-way data-dependent
				// conditional
				targetIndex := (i * 7) % numBranches
				sum += targets[targetIndex]

				switch sum % 3 {
				case 0:
					sum += int64(i)
				case 1:
					sum -= int64(i)
				default:
					sum *= 2
				}
			}
		}

		predictionScore := float64(sum) / float64(btbProbeIterations*numBranches)
		if numBranches == btbSweepStart {
			reference = int64(predictionScore)
		} else if predictionScore < float64(reference)*btbDegradeRatio {
			best = numBranches / 2
			break
		}
	}
	return float64(best)
}

// btbTargets builds the branch target table for n branches. The index
// product wraps at 32 bits, so entries past i=17 fold over and can go
// negative.
func btbTargets(n int) []int64 {
	targets := make([]int64, n)
	for i := range targets {
		targets[i] = int64(int32(i)*123456789) % 1000000
	}
	return targets
}

// BranchHistoryDepthTest sweeps the periodic pattern length from 2 bits up
// to maxPatternLength. Each iteration classifies indices against an N-bit
// mask to pick one of two updates, with a secondary nested branch fired
// when the accumulator crosses a power-of-two boundary; the pattern length
// with the best normalized score is the history depth estimate.
func BranchHistoryDepthTest(maxPatternLength int) float64 {
	if maxPatternLength <= 0 {
		return ProbeFailure
	}
	bestScore := 0.0
	optimal := defaultBranchHistoryDepth

	for patternLen := 2; patternLen <= maxPatternLength; patternLen++ {
		var sum int64
		patternMask := (1 << patternLen) - 1

		for iter := 0; iter < historyProbeIterations; iter++ {
			pattern := iter & patternMask
			for i := 0; i < patternLen*100; i++ {
				taken := (i & patternMask) == pattern
				if taken {
					sum += int64(i) * 3
				} else {
					sum -= int64(i)
				}

				// Nested branch keyed to the same history window
				if sum%int64(1<<patternLen) == 0 {
					if taken {
						sum += int64(patternLen)
					} else {
						sum -= int64(patternLen)
					}
				}
			}
		}

		truncated := int32(sum)
		if truncated < 0 {
			truncated = -truncated
		}
		score := float64(truncated) / float64(historyProbeIterations*patternLen*100)
		if score > bestScore {
			bestScore = score
			optimal = patternLen
		}
	}
	return float64(optimal)
}

// The indirect-call table. Four numeric transforms dispatched through a
// randomized index each step, exercising indirect-branch prediction as the
// call count scales.
var indirectTransforms = [4]func(int64) int64{
	func(x int64) int64 { return x * 2 },
	func(x int64) int64 { return x + 1 },
	func(x int64) int64 { return x / 2 },
	func(x int64) int64 { return x - 1 },
}

// IndirectBranchPredictorTest dispatches numTargets randomized indirect
// calls per iteration through the fixed transform table and returns the
// normalized accumulated value.
func IndirectBranchPredictorTest(numTargets int) float64 {
	if numTargets <= 0 {
		return ProbeFailure
	}
	var sum int64
	seed := lcg(defaultProbeSeed)

	for iter := 0; iter < indirectProbeIterations; iter++ {
		for i := 0; i < numTargets; i++ {
			funcIndex := seed.next() % 4
			sum += indirectTransforms[funcIndex](int64(iter + i))
		}
	}
	return float64(sum) / float64(indirectProbeIterations*numTargets)
}

// LoopBranchPredictorTest runs nested counted loops at depths 1 through
// maxLoopDepth (nesting saturates at four levels) and reports the deepest
// depth whose score beat the running best.
func LoopBranchPredictorTest(maxLoopDepth int) float64 {
	if maxLoopDepth <= 0 {
		return ProbeFailure
	}
	var sum int64
	best := 0.0

	for depth := 1; depth <= maxLoopDepth; depth++ {
		iterations := 1000 / depth
		if iterations < 1 {
			iterations = 1
		}

		for iter := 0; iter < iterations; iter++ {
			var tempSum int64
			for i1 := 0; i1 < 10; i1++ {
				if depth > 1 {
					for i2 := 0; i2 < 10; i2++ {
						if depth > 2 {
							for i3 := 0; i3 < 10; i3++ {
								if depth > 3 {
									for i4 := 0; i4 < 10; i4++ {
										tempSum += int64(i1 + i2 + i3 + i4)
									}
								} else {
									tempSum += int64(i1 + i2 + i3)
								}
							}
						} else {
							tempSum += int64(i1 + i2)
						}
					}
				} else {
					tempSum += int64(i1)
				}
			}
			sum += tempSum
		}

		score := float64(sum) / float64(iterations)
		if score > best {
			best = float64(depth)
		}
	}
	return best
}

// ReturnStackDepthTest emulates call/return pairs against a bounded frame
// array at target depths from 2 to maxCallDepth, walking down then back up
// so every push is matched by a pop in reverse order. Depths up to the
// tracking limit that complete with a live accumulator advance the
// estimate.
func ReturnStackDepthTest(maxCallDepth int) float64 {
	if maxCallDepth <= 0 {
		return ProbeFailure
	}
	optimal := defaultReturnStackDepth

	for targetDepth := 2; targetDepth <= maxCallDepth; targetDepth++ {
		var recursiveSum int64

		for iter := 0; iter < returnStackIterations; iter++ {
			var callStack [returnStackFrames]int64
			currentDepth := 0

			// Walk down
			for i := 0; i < targetDepth && currentDepth < returnStackFrames; i++ {
				callStack[currentDepth] = int64(iter + i)
				currentDepth++
				recursiveSum += callStack[currentDepth-1]
			}
			// Return back up
			for currentDepth > 0 {
				currentDepth--
				recursiveSum += callStack[currentDepth]
			}
		}

		callEfficiency := float64(recursiveSum) / float64(returnStackIterations*targetDepth*2)
		if targetDepth <= returnStackTrackLimit && callEfficiency > 0 {
			optimal = targetDepth
		}
	}
	return float64(optimal)
}
