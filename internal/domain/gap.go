package domain

import "time"

// TimeGap is a maximal sub-interval of a query window not covered by any
// closed activity interval. Gaps are computed fresh on every detection pass
// and never persisted.
type TimeGap struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the gap.
func (g TimeGap) Duration() time.Duration {
	return g.End.Sub(g.Start)
}
