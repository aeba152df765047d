// Package scoring computes the semantic match score between a job description and a resume.
package scoring

import "math"

// Cosine returns the cosine similarity of a and b over their shared-length prefix.
// It returns 0 when either prefix has zero norm.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ToMatchScore maps a similarity to an integer score in [0, 100].
func ToMatchScore(c float64) int {
	if math.IsNaN(c) {
		return 0
	}
	s := int(math.Round(c * 100))
	return max(0, min(100, s))
}
