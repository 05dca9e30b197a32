package loot

import (
	"gonum.org/v1/gonum/mathext"
)

// NegBinomial is the number of trials needed to collect Successes drops when
// each trial drops with probability P.
type NegBinomial struct {
	Successes int
	P         float64
}

// CDF returns the probability that Successes drops have been collected
// within k trials.
func (nb NegBinomial) CDF(k int) float64 {
	if nb.Successes <= 0 {
		if k < 0 {
			return 0
		}
		return 1
	}
	if k < nb.Successes {
		return 0
	}
	if nb.P <= 0 {
		return 0
	}
	if nb.P >= 1 {
		return 1
	}
	// P(trials <= k) == P(failures <= k-n) == I_p(n, k-n+1)
	failures := k - nb.Successes
	return mathext.RegIncBeta(float64(nb.Successes), float64(failures+1), nb.P)
}

// PMF returns the probability that the last required drop lands on trial k.
func (nb NegBinomial) PMF(k int) float64 {
	return nb.CDF(k) - nb.CDF(k-1)
}
