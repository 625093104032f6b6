package archprobe

// Memory access pattern probes. Each one allocates its own workload buffer,
// touches it so the pages are resident, runs a deliberately shaped access
// pattern, and returns the accumulated sum. The sum's absolute value is
// meaningless; it exists to keep the workload observable and to give the
// caller a reproducible cost proxy. Wall-clock timing happens outside the
// call boundary.

// SequentialAccessTest reads the buffer at cache-line granularity, three
// passes per iteration, touching two offsets inside each line and writing a
// derived byte back. The write creates a read-after-write dependency chain
// so consecutive iterations cannot be collapsed or reordered away.
func SequentialAccessTest(sizeKB, iterations int) float64 {
	if sizeKB <= 0 {
		return ProbeFailure
	}
	size := sizeKB * 1024
	buf, err := acquireBuffer(size)
	if err != nil {
		return ProbeFailure
	}
	defer buf.release()
	buf.touch()

	data := buf.data
	var sum, dummy int64
	for iter := 0; iter < iterations; iter++ {
		for pass := 0; pass < 3; pass++ {
			for i := 0; i < size; i += 64 {
				sum += int64(data[i])
				sum += int64(data[i+32]) // second offset in the same line
				dummy = sum & 0xFF
				data[i] = byte(dummy)
			}
		}
	}
	return float64(sum)
}

// RandomAccessTest issues wide randomized accesses designed to miss: each
// step picks a 2-4KB stride and three indices (two stride-quantized, one
// page-aligned), reads all three, and writes two derived bytes back. The
// index streams come from three distinct LCG constant sets so they stay
// decorrelated.
func RandomAccessTest(sizeKB, iterations int) float64 {
	if sizeKB <= 0 {
		return ProbeFailure
	}
	size := sizeKB * 1024
	buf, err := acquireBuffer(size)
	if err != nil {
		return ProbeFailure
	}
	defer buf.release()
	buf.touch()

	data := buf.data
	var sum, dummy int64
	seed := lcg(defaultProbeSeed)

	for iter := 0; iter < iterations; iter++ {
		for pass := 0; pass < 3; pass++ {
			accessCount := size / 64
			for i := 0; i < accessCount; i++ {
				s := seed.next()
				stride := 2048 + int(s%2048)
				slots := size / stride
				if slots < 1 {
					slots = 1
				}
				index1 := int(s%uint32(slots)) * stride

				// Second index, guaranteed off the first line
				s = seed.nextAlt()
				index2 := (int(s%uint32(slots))*stride + 512) % size

				// Third index on a page boundary
				s = seed.nextVax()
				pages := size / probePageSize
				if pages < 1 {
					pages = 1
				}
				index3 := int(s%uint32(pages)) * probePageSize

				sum += int64(data[index1])
				sum += int64(data[index2])
				sum += int64(data[index3])

				dummy = sum & 0xFF
				data[index1] = byte(dummy)
				data[index2] = byte(dummy + 1)
			}
		}
	}
	return float64(sum)
}

// StrideAccessTest walks the buffer at the caller's stride with a small
// pseudo-random sub-stride perturbation (0-7 bytes) that defeats simple
// stream prefetchers. Strides of 256 bytes and up get a second "far" access
// at stride/2 plus a drifting offset to raise miss pressure. The total
// access count is clamped into a fixed budget window so differing strides
// stay comparably costed, and that count is the return value.
func StrideAccessTest(sizeKB, stride, iterations int) float64 {
	if sizeKB <= 0 || stride <= 0 || iterations <= 0 {
		return ProbeFailure
	}
	size := sizeKB * 1024
	buf, err := acquireBuffer(size)
	if err != nil {
		return ProbeFailure
	}
	defer buf.release()
	buf.touch()

	data := buf.data
	var sum, accessCount int64

	strideFactor := 1
	if stride >= 64 {
		strideFactor = stride / 64
	}
	adjustedMax := strideBaseAccesses + strideFactor*strideFactorStep
	if adjustedMax > strideMaxAccesses {
		adjustedMax = strideMaxAccesses
	}
	if adjustedMax < strideMinAccesses {
		adjustedMax = strideMinAccesses
	}

	accessesPerRound := size / stride
	if accessesPerRound < 1 {
		accessesPerRound = 1
	}
	targetRounds := adjustedMax / accessesPerRound
	if targetRounds < 1 {
		targetRounds = 1
	}
	if targetRounds > iterations*10 {
		targetRounds = iterations * 10
	}

	total := 0
	for iter := 0; iter < targetRounds && total < adjustedMax; iter++ {
		for i := 0; i < size; i += stride {
			if total >= adjustedMax {
				break
			}
			shift := (iter*17 + total*7) % 8
			index := (i + shift) % size
			sum += int64(data[index])
			data[index] = byte(sum & 0xFF)
			total++
			accessCount++

			if stride >= 256 && total < adjustedMax {
				farOffset := stride/2 + (iter*23)%(stride/4)
				farIndex := (i + farOffset) % size
				sum += int64(data[farIndex])
				data[farIndex] = byte((sum >> 8) & 0xFF)
				total++
				accessCount++
			}
		}
	}
	return float64(accessCount)
}

// AllocationPatternTest acquires numAllocs buffers of allocSize bytes each,
// initializes every one, and releases them all. The return value is the
// total number of bytes successfully committed, so a run where every
// allocation succeeds returns exactly numAllocs * allocSize and any failure
// shows up as a smaller multiple of allocSize.
func AllocationPatternTest(numAllocs, allocSize int) float64 {
	if numAllocs <= 0 || allocSize <= 0 || numAllocs > maxAllocationBatch {
		return ProbeFailure
	}
	buffers := make([]*workloadBuffer, 0, numAllocs)
	var totalBytes int64
	for i := 0; i < numAllocs; i++ {
		buf, err := acquireBuffer(allocSize)
		if err != nil {
			logStepSkipped("allocation_pattern", i, err)
			continue
		}
		buf.fill(byte(i))
		totalBytes += int64(allocSize)
		buffers = append(buffers, buf)
	}
	for _, buf := range buffers {
		buf.release()
	}
	return float64(totalBytes)
}

// AlignmentSensitivityTest reads 8-byte-spaced positions through a view that
// starts offset%64 bytes into the allocation, exposing the cost of
// line-straddling accesses relative to aligned ones.
func AlignmentSensitivityTest(sizeKB, offset int) float64 {
	if sizeKB <= 0 || offset < 0 {
		return ProbeFailure
	}
	size := sizeKB * 1024
	buf, err := acquireBuffer(size + 64) // slack for the offset view
	if err != nil {
		return ProbeFailure
	}
	defer buf.release()

	view := buf.data[offset%64 : offset%64+size]
	for i := range view {
		view[i] = 1
	}

	var sum int64
	accessCount := size / 8
	for i := 0; i < accessCount; i++ {
		sum += int64(view[i*8])
	}
	return float64(sum)
}

// BulkMemoryTest copies one buffer into another and checksums the copy at
// line granularity, giving the caller a bandwidth-dominated cost proxy.
func BulkMemoryTest(sizeKB int) float64 {
	if sizeKB <= 0 {
		return ProbeFailure
	}
	size := sizeKB * 1024
	src, err := acquireBuffer(size)
	if err != nil {
		return ProbeFailure
	}
	defer src.release()
	dst, err := acquireBuffer(size)
	if err != nil {
		return ProbeFailure
	}
	defer dst.release()

	src.touch()
	copy(dst.data, src.data)

	var sum int64
	for i := 0; i < size; i += 64 {
		sum += int64(dst.data[i])
	}
	return float64(sum)
}
