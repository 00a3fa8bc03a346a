package grid

// Bounds returns the clipped 3x3 neighbourhood window of cell (r, c) in an
// n x n field as half-open row and column ranges. Edge cells get a smaller
// window; there is no wraparound and no padding.
func Bounds(n, r, c int) (r0, r1, c0, c1 int) {
	r0, r1 = r-1, r+2
	c0, c1 = c-1, c+2
	if r0 < 0 {
		r0 = 0
	}
	if c0 < 0 {
		c0 = 0
	}
	if r1 > n {
		r1 = n
	}
	if c1 > n {
		c1 = n
	}
	return r0, r1, c0, c1
}

// NeighborhoodMean returns the mean of the clipped 3x3 neighbourhood of
// cell (r, c) in the n x n row-major field values.
func NeighborhoodMean(values []float64, n, r, c int) float64 {
	r0, r1, c0, c1 := Bounds(n, r, c)

	sum := 0.0
	for i := r0; i < r1; i++ {
		row := values[i*n : i*n+n]
		for j := c0; j < c1; j++ {
			sum += row[j]
		}
	}
	return sum / float64((r1-r0)*(c1-c0))
}

// NeighborhoodVariance returns the population variance of the clipped 3x3
// neighbourhood of cell (r, c) in the n x n row-major field values.
func NeighborhoodVariance(values []float64, n, r, c int) float64 {
	r0, r1, c0, c1 := Bounds(n, r, c)
	mean := NeighborhoodMean(values, n, r, c)

	sum := 0.0
	for i := r0; i < r1; i++ {
		row := values[i*n : i*n+n]
		for j := c0; j < c1; j++ {
			d := row[j] - mean
			sum += d * d
		}
	}
	return sum / float64((r1-r0)*(c1-c0))
}

// MaxNeighborhoodVariance scans every cell and returns the largest local
// variance together with its position. Ties keep the first cell in
// row-major order. An empty field returns (0, 0, 0).
func MaxNeighborhoodVariance(values []float64, n int) (value float64, row, col int) {
	if n <= 0 || len(values) < n*n {
		return 0, 0, 0
	}

	value = -1
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := NeighborhoodVariance(values, n, r, c)
			if v > value {
				value, row, col = v, r, c
			}
		}
	}
	return value, row, col
}
