// Package blend implements the pixel compositing used by the frame
// renderer. All destination buffers are opaque RGBA: the canvas is opaque,
// and overlays are blended onto it, so the result stays opaque.
//
// The overlay formula is the standard "over" operator for an opaque
// destination:
//
//	out = overlay*a + under*(1-a)
//
// applied per color channel.
package blend

// Over blends a straight-alpha color onto the opaque pixel dst[0:4].
func Over(dst []byte, r, g, b, a uint8) {
	d := dst[:4:4]
	switch a {
	case 0:
		return
	case 255:
		d[0], d[1], d[2], d[3] = r, g, b, 255
		return
	}
	d[0] = mix(r, d[0], a)
	d[1] = mix(g, d[1], a)
	d[2] = mix(b, d[2], a)
	d[3] = 255
}

// OverPremul blends a premultiplied color onto the opaque pixel dst[0:4]:
// out = src + under*(1-a). With src = overlay*a this is the same formula
// as Over.
func OverPremul(dst []byte, r, g, b, a uint8) {
	d := dst[:4:4]
	switch a {
	case 0:
		return
	case 255:
		d[0], d[1], d[2], d[3] = r, g, b, 255
		return
	}
	inv := 255 - a
	d[0] = addClamp(r, mulDiv255(d[0], inv))
	d[1] = addClamp(g, mulDiv255(d[1], inv))
	d[2] = addClamp(b, mulDiv255(d[2], inv))
	d[3] = 255
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}
