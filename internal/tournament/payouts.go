package tournament

// SharePool splits a prize pool across payout fractions, one per finishing
// rank starting from the champion. Shares floor to whole units and the
// rounding remainder goes to first place, so the shares always sum to the
// pool exactly.
func SharePool(pool int, fractions []float64) []int {
	if pool <= 0 || len(fractions) == 0 {
		return nil
	}
	shares := make([]int, len(fractions))
	paid := 0
	for i, f := range fractions {
		shares[i] = int(float64(pool) * f)
		paid += shares[i]
	}
	shares[0] += pool - paid
	return shares
}

// truncateFractions clips a payout table to at most n places and scales the
// kept fractions back up to sum to one, for fields smaller than the table.
func truncateFractions(fractions []float64, n int) []float64 {
	if len(fractions) <= n {
		return fractions
	}
	kept := fractions[:n]
	sum := 0.0
	for _, f := range kept {
		sum += f
	}
	scaled := make([]float64, n)
	for i, f := range kept {
		scaled[i] = f / sum
	}
	return scaled
}
