package loot

import (
	"errors"
	"fmt"
	"math"
)

// MaxLevel is the level at which a set slot is complete.
const MaxLevel = 100

// maxTrials bounds the quantile search. It leaves headroom for one more
// doubling step without overflowing int on any GOARCH.
const maxTrials = math.MaxInt >> 2

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNoConvergence    = errors.New("quantile search did not converge")
)

// Quantiler answers "how many kills for probability q" queries.
type Quantiler interface {
	PPF(q float64) (int, error)
}

// Completion is the distribution of kills needed until every slot of a set
// reaches MaxLevel. Slots are assumed to progress independently, so the CDF is
// the product of the per-slot CDFs.
type Completion struct {
	slots []NegBinomial
}

// Build constructs the completion distribution for a set whose slots are at
// the given levels. baseProb is the chance that any set item drops on a
// qualifying kill; it is split evenly across all slots, including completed
// ones.
func Build(baseProb float64, levels []int) (*Completion, error) {
	if err := validateProb(baseProb); err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: at least one set level is required", ErrInvalidParameter)
	}

	pItem := baseProb / float64(len(levels))
	c := &Completion{}
	for i, level := range levels {
		if level < 0 || level > MaxLevel {
			return nil, fmt.Errorf("%w: level[%d]=%d must be in [0,%d]", ErrInvalidParameter, i, level, MaxLevel)
		}
		if level == MaxLevel {
			continue
		}
		c.slots = append(c.slots, NegBinomial{Successes: MaxLevel - level, P: pItem})
	}

	return c, nil
}

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 || p > 1 {
		return fmt.Errorf("%w: base probability %v must be in (0,1]", ErrInvalidParameter, p)
	}
	return nil
}

// Slots returns the per-slot distributions of the incomplete slots.
func (c *Completion) Slots() []NegBinomial {
	return append([]NegBinomial(nil), c.slots...)
}

// CDF returns the probability that the whole set is complete within k kills.
func (c *Completion) CDF(k int) float64 {
	if k < 0 {
		return 0
	}
	cdf := 1.0
	for _, nb := range c.slots {
		cdf *= nb.CDF(k)
		if cdf == 0 {
			return 0
		}
	}
	return cdf
}

// PMF returns the probability that the set completes exactly on kill k.
func (c *Completion) PMF(k int) float64 {
	return c.CDF(k) - c.CDF(k-1)
}

// PPF returns the smallest kill count k with CDF(k) >= q.
func (c *Completion) PPF(q float64) (int, error) {
	if math.IsNaN(q) || q <= 0 || q >= 1 {
		return 0, fmt.Errorf("%w: quantile %v must be in (0,1)", ErrInvalidParameter, q)
	}

	// Every slot needs at least Successes kills, so the CDF is zero below the
	// largest requirement.
	need := 0
	for _, nb := range c.slots {
		if nb.Successes > need {
			need = nb.Successes
		}
	}
	if need == 0 {
		return 0, nil
	}

	// invariant: CDF(lo) < q <= CDF(hi)
	lo, hi, step := need-1, need, need
	for c.CDF(hi) < q {
		lo = hi
		hi += step
		step *= 2
		if hi > maxTrials {
			return 0, fmt.Errorf("%w: q=%v", ErrNoConvergence, q)
		}
	}
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if c.CDF(mid) >= q {
			hi = mid
		} else {
			lo = mid
		}
	}

	return hi, nil
}

// Quantiles evaluates PPF for each q in order.
func (c *Completion) Quantiles(qs []float64) ([]int, error) {
	kills := make([]int, len(qs))
	for i, q := range qs {
		k, err := c.PPF(q)
		if err != nil {
			return nil, err
		}
		kills[i] = k
	}
	return kills, nil
}
