package parallel

// MinBandRows is the smallest band height handed to a worker.
// Thinner bands cost more in scheduling than they save in balance.
const MinBandRows = 8

// Band is a half-open range of output rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits height rows into contiguous, disjoint bands.
//
// The split targets four bands per worker so stealing has something to
// balance, but never produces bands thinner than MinBandRows (except the
// last one). The result depends only on height and workers, so a given
// frame size is always partitioned the same way.
func Bands(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}

	rows := (height + workers*4 - 1) / (workers * 4)
	rows = max(rows, MinBandRows)

	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{Y0: y, Y1: min(y+rows, height)})
	}
	return bands
}
