// Public domain.

package popfit

// clipLike computes the per-galaxy likelihood to use from the Monte Carlo
// average p.  Values below the floor are raised to it; NaN passes through.
func clipLike(p, floor float64) float64 {
	if p < floor {
		return floor
	}
	return p
}
