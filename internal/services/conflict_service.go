package services

import (
	"sort"
	"strings"

	"time-reconciler/internal/config"
	"time-reconciler/internal/domain"
)

// conflictServiceImpl implements the ConflictService interface
type conflictServiceImpl struct {
	config *config.Config
}

// NewConflictService creates a new ConflictService instance
func NewConflictService(cfg *config.Config) ConflictService {
	return &conflictServiceImpl{config: cfg}
}

// DetectConflicts sweeps the closed intervals by start time, classifies every
// pair of simultaneously active intervals, and unions overlapping pairs into
// connected components so a multi-way conflict is resolved once, not pairwise.
func (c *conflictServiceImpl) DetectConflicts(intervals []domain.ActivityInterval) []domain.ConflictGroup {
	candidates := closedIntervals(intervals)
	sortIntervals(candidates)

	uf := newUnionFind(len(candidates))
	pairsByMember := make([][]domain.ConflictPair, len(candidates))

	var active []int
	for i, cur := range candidates {
		// Retain only intervals still active at cur.Start. Half-open
		// semantics: an interval ending exactly at cur.Start is done.
		retained := active[:0]
		for _, j := range active {
			if candidates[j].End.After(cur.Start) {
				retained = append(retained, j)
			}
		}
		active = retained

		for _, j := range active {
			pair, ok := c.classifyPair(candidates[j], cur)
			if !ok {
				continue
			}
			pairsByMember[j] = append(pairsByMember[j], pair)
			uf.union(i, j)
		}

		active = append(active, i)
	}

	return c.buildGroups(candidates, uf, pairsByMember)
}

// classifyPair computes the overlap ratio for two concurrent intervals and
// classifies the pair. First match wins: duplicate, then overlap.
func (c *conflictServiceImpl) classifyPair(a, b domain.ActivityInterval) (domain.ConflictPair, bool) {
	overlapStart := a.Start
	if b.Start.After(overlapStart) {
		overlapStart = b.Start
	}
	overlapEnd := *a.End
	if b.End.Before(overlapEnd) {
		overlapEnd = *b.End
	}

	overlap := overlapEnd.Sub(overlapStart)
	if overlap <= 0 {
		return domain.ConflictPair{}, false
	}

	shorter := a.Duration()
	if b.Duration() < shorter {
		shorter = b.Duration()
	}
	ratio := float64(overlap) / float64(shorter)

	conflictType := domain.ConflictOverlap
	if a.Ref.Source == b.Ref.Source &&
		ratio >= c.config.Detection.DuplicateOverlapRatio &&
		c.LabelSimilarity(a.Label, b.Label) >= c.config.Detection.LabelSimilarityThreshold {
		conflictType = domain.ConflictDuplicate
	}

	return domain.ConflictPair{
		A:            a.Ref,
		B:            b.Ref,
		OverlapRatio: ratio,
		Type:         conflictType,
		Severity:     c.severityFor(ratio),
	}, true
}

// severityFor grades an overlap ratio against the configured cutoffs.
func (c *conflictServiceImpl) severityFor(ratio float64) domain.Severity {
	switch {
	case ratio >= c.config.Detection.HighSeverityRatio:
		return domain.SeverityHigh
	case ratio >= c.config.Detection.MediumSeverityRatio:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// LabelSimilarity scores two labels: 1.0 for a case-insensitive exact match,
// 0.8 when one label contains the other, 0 otherwise. Empty labels never
// match anything. This is a tunable heuristic, not language understanding.
func (c *conflictServiceImpl) LabelSimilarity(a, b string) float64 {
	left := strings.ToLower(strings.TrimSpace(a))
	right := strings.ToLower(strings.TrimSpace(b))

	if left == "" || right == "" {
		return 0
	}
	if left == right {
		return 1.0
	}
	if strings.Contains(left, right) || strings.Contains(right, left) {
		return 0.8
	}
	return 0
}

// buildGroups assembles connected components into conflict groups, ordered by
// earliest member start so repeated detection over an unchanged snapshot is
// byte-for-byte identical.
func (c *conflictServiceImpl) buildGroups(candidates []domain.ActivityInterval, uf *unionFind, pairsByMember [][]domain.ConflictPair) []domain.ConflictGroup {
	members := make(map[int][]int)
	for i := range candidates {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	var groups []domain.ConflictGroup
	for _, indices := range members {
		if len(indices) < 2 {
			continue
		}

		sort.Ints(indices)
		group := domain.ConflictGroup{
			Type:     domain.ConflictDuplicate,
			Severity: domain.SeverityLow,
		}
		for _, i := range indices {
			group.Intervals = append(group.Intervals, candidates[i])
			for _, pair := range pairsByMember[i] {
				group.Pairs = append(group.Pairs, pair)
				if pair.Type == domain.ConflictOverlap {
					group.Type = domain.ConflictOverlap
				}
				if severityRank(pair.Severity) > severityRank(group.Severity) {
					group.Severity = pair.Severity
				}
			}
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return lessInterval(groups[i].Intervals[0], groups[j].Intervals[0])
	})

	return groups
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityHigh:
		return 2
	case domain.SeverityMedium:
		return 1
	default:
		return 0
	}
}

// closedIntervals filters to the intervals that participate in conflict
// detection: closed, non-degenerate, structurally valid.
func closedIntervals(intervals []domain.ActivityInterval) []domain.ActivityInterval {
	var out []domain.ActivityInterval
	for _, interval := range intervals {
		if interval.IsClosed() && !interval.IsDegenerate() && interval.IsValid() {
			out = append(out, interval)
		}
	}
	return out
}

// sortIntervals orders intervals by start, end, then record ref, which is the
// canonical ordering every detection pass uses.
func sortIntervals(intervals []domain.ActivityInterval) {
	sort.Slice(intervals, func(i, j int) bool {
		return lessInterval(intervals[i], intervals[j])
	})
}

func lessInterval(a, b domain.ActivityInterval) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	if a.End != nil && b.End != nil && !a.End.Equal(*b.End) {
		return a.End.Before(*b.End)
	}
	return lessRef(a.Ref, b.Ref)
}

func lessRef(a, b domain.RecordRef) bool {
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.ID < b.ID
}

// unionFind is an index-based disjoint set over interval positions.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	if ri != rj {
		// Anchor on the smaller index to keep grouping deterministic.
		if ri < rj {
			u.parent[rj] = ri
		} else {
			u.parent[ri] = rj
		}
	}
}
