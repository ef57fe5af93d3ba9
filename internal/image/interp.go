package image

import "math"

// SampleBilinear filters the four texels around the continuous pixel
// coordinate (fx, fy), where texel (x, y) covers [x, x+1) x [y, y+1).
// Coordinates outside the image clamp to the edge.
//
// Colors are weighted by alpha before filtering, so transparent texels do
// not bleed their color into opaque neighbours. The result is
// premultiplied.
func SampleBilinear(img *Buf, fx, fy float64) (r, g, b, a uint8) {
	w, h := img.Bounds()

	fx -= 0.5
	fy -= 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clamp(x0+1, 0, w-1)
	y1 := clamp(y0+1, 0, h-1)
	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)

	var acc [4]float64
	accumulate := func(x, y int, wt float64) {
		if wt == 0 {
			return
		}
		i := (y*w + x) * 4
		p := img.pix[i : i+4 : i+4]
		pa := float64(p[3]) * wt
		acc[0] += float64(p[0]) * pa
		acc[1] += float64(p[1]) * pa
		acc[2] += float64(p[2]) * pa
		acc[3] += pa
	}
	accumulate(x0, y0, (1-tx)*(1-ty))
	accumulate(x1, y0, tx*(1-ty))
	accumulate(x0, y1, (1-tx)*ty)
	accumulate(x1, y1, tx*ty)

	return round8(acc[0] / 255), round8(acc[1] / 255), round8(acc[2] / 255), round8(acc[3])
}

// SampleNearest returns the premultiplied texel containing (fx, fy).
func SampleNearest(img *Buf, fx, fy float64) (r, g, b, a uint8) {
	w, h := img.Bounds()
	x := clamp(int(math.Floor(fx)), 0, w-1)
	y := clamp(int(math.Floor(fy)), 0, h-1)
	i := (y*w + x) * 4
	p := img.pix[i : i+4 : i+4]
	return premul(p[0], p[3]), premul(p[1], p[3]), premul(p[2], p[3]), p[3]
}

func premul(c, a uint8) uint8 {
	return uint8((uint16(c)*uint16(a) + 127) / 255)
}

func round8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
