package scheduler

// DiminishingReturns sums base·multiplier^(i-1) for i in 1..count so each
// additional unit is worth less than the one before it. Non-positive counts
// score zero.
func DiminishingReturns(count int, base, multiplier float64) float64 {
	var (
		total float64
		step  = base
	)
	for i := 0; i < count; i++ {
		total += step
		step *= multiplier
	}
	return total
}
