package blend

// div255 divides x by 255 exactly for x in [0, 65535] without a division,
// using Alvy Ray Smith's formula ((x + 1) + ((x + 1) >> 8)) >> 8.
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 returns round-toward-zero a*b/255.
func mulDiv255(a, b uint8) uint8 {
	return uint8(div255(uint32(a) * uint32(b)))
}

// mix returns the exact rounded value of (o*a + u*(255-a)) / 255.
func mix(o, u, a uint8) uint8 {
	return uint8((uint32(o)*uint32(a) + uint32(u)*uint32(255-a) + 127) / 255)
}
