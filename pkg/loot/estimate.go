package loot

import (
	"fmt"
	"math"
)

const secondsPerHour = 3600

// DefaultQuantiles are the completion odds reported when none are requested.
var DefaultQuantiles = []float64{0.5, 0.9, 0.99}

// Estimate is the play time needed to finish a set with a given probability.
type Estimate struct {
	Quantile float64 `json:"quantile"`
	Kills    int     `json:"kills"`
	Hours    float64 `json:"hours"`
}

// EstimateHours converts kill-count quantiles into hours of play.
// ttk is the average seconds per kill and bossChance is the fraction of kills
// that can drop set items.
func EstimateHours(dist Quantiler, quantiles []float64, ttk, bossChance float64) ([]Estimate, error) {
	if math.IsNaN(ttk) || math.IsInf(ttk, 0) || ttk <= 0 {
		return nil, fmt.Errorf("%w: ttk %v must be > 0", ErrInvalidParameter, ttk)
	}
	if math.IsNaN(bossChance) || bossChance <= 0 || bossChance > 1 {
		return nil, fmt.Errorf("%w: boss chance %v must be in (0,1]", ErrInvalidParameter, bossChance)
	}

	estimates := make([]Estimate, 0, len(quantiles))
	for _, q := range quantiles {
		kills, err := dist.PPF(q)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, Estimate{
			Quantile: q,
			Kills:    kills,
			Hours:    float64(kills) * ttk / bossChance / secondsPerHour,
		})
	}

	return estimates, nil
}

// Hours extracts the hour values in order.
func Hours(estimates []Estimate) []float64 {
	hours := make([]float64, len(estimates))
	for i, e := range estimates {
		hours[i] = e.Hours
	}
	return hours
}

// FormatEstimate renders the one-line report for an estimate.
func FormatEstimate(e Estimate) string {
	return fmt.Sprintf("%.0f%% chance to get set in %.2f hours", e.Quantile*100, e.Hours)
}

// Params is a full set-completion query.
type Params struct {
	Levels     []int
	BaseProb   float64
	TTK        float64
	BossChance float64
	Quantiles  []float64
}

// DefaultParams returns the defaults for everything except Levels.
func DefaultParams() Params {
	return Params{
		BaseProb:   1.0,
		TTK:        10,
		BossChance: 0.25,
		Quantiles:  DefaultQuantiles,
	}
}

// Run builds the completion distribution for p and converts its quantiles
// into hour estimates. Empty Quantiles fall back to DefaultQuantiles.
func (p Params) Run() ([]Estimate, error) {
	dist, err := Build(p.BaseProb, p.Levels)
	if err != nil {
		return nil, err
	}
	qs := p.Quantiles
	if len(qs) == 0 {
		qs = DefaultQuantiles
	}
	return EstimateHours(dist, qs, p.TTK, p.BossChance)
}
