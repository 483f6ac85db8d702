package fingerprint

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Entropy returns the Shannon entropy in bits of the class-size
// distribution. An empty input has entropy 0.
func Entropy[H any](classes []Class[H]) float64 {
	sizes := make([]int, len(classes))
	for i, c := range classes {
		sizes[i] = c.Size()
	}
	return EntropyOfSizes(sizes)
}

// EntropyOfSizes computes -Σ p·log2(p) with p = size/total. Zero sizes
// contribute nothing.
func EntropyOfSizes(sizes []int) float64 {
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total == 0 {
		return 0
	}

	p := make([]float64, len(sizes))
	for i, s := range sizes {
		p[i] = float64(s) / float64(total)
	}

	// stat.Entropy works in nats.
	h := stat.Entropy(p) / math.Ln2
	if h <= 0 {
		return 0
	}
	return h
}

// MaxEntropy is log2(n), the entropy of n singleton classes.
func MaxEntropy(n int) float64 {
	if n <= 1 {
		return 0
	}
	return math.Log2(float64(n))
}
