package field

// Metrics is a snapshot of global field statistics.
type Metrics struct {
	// Entropy is the Shannon entropy in bits of the 20-bin value histogram
	// over [0,1].
	Entropy float64 `json:"entropia"`

	// Variance is the population variance of all cells.
	Variance float64 `json:"varianza"`

	// Maximum is the largest cell value.
	Maximum float64 `json:"maximo"`
}
