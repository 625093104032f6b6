package archprobe

// lcg is the access-state generator behind every randomized probe: a 32-bit
// linear-congruential generator with wraparound semantics. Deterministic
// given its seed, local to one probe call, never shared.
type lcg uint32

// next advances with the Numerical Recipes constants and returns the new
// state. This is the primary stream used for stride and index selection.
func (r *lcg) next() uint32 {
	*r = *r*lcgMulNR + lcgAddNR
	return uint32(*r)
}

// nextAlt advances with the glibc constants. Used for the second access of
// a random-wide step so the two indices decorrelate.
func (r *lcg) nextAlt() uint32 {
	*r = *r*lcgMulGlibc + lcgAddGlibc
	return uint32(*r)
}

// nextVax advances with the VAX MTH$RANDOM constants. Used for the
// page-aligned third access of a random-wide step.
func (r *lcg) nextVax() uint32 {
	*r = *r*lcgMulVax + lcgAddVax
	return uint32(*r)
}
