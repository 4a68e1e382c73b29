package project

// Attempt is the outcome of one recorded handoff submission.
type Attempt struct {
	Valid bool
}

// DetectStalled reports whether the last threshold submissions were all
// rejected.
func DetectStalled(attempts []Attempt, threshold int) bool {
	if threshold <= 0 || len(attempts) < threshold {
		return false
	}

	for _, a := range attempts[len(attempts)-threshold:] {
		if a.Valid {
			return false
		}
	}
	return true
}

// Progress returns the number of accepted submissions and the total.
func Progress(attempts []Attempt) (accepted, total int) {
	total = len(attempts)
	for _, a := range attempts {
		if a.Valid {
			accepted++
		}
	}
	return accepted, total
}

// AcceptanceRate is the share of accepted submissions over the most recent
// window attempts.
func AcceptanceRate(attempts []Attempt, window int) float64 {
	if window <= 0 || len(attempts) == 0 {
		return 0
	}
	if window > len(attempts) {
		window = len(attempts)
	}
	accepted, total := Progress(attempts[len(attempts)-window:])
	return float64(accepted) / float64(total)
}
