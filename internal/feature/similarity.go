// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feature

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cosine returns the cosine similarity of two equal-length vectors. An
// all-zero vector on either side yields 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (na * nb)
	// Floating error can nudge the ratio past 1.
	return math.Max(0, math.Min(1, sim))
}
