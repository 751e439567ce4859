// Package taxa implements the family-to-observations resolution pipeline:
// resolve a free-text family name to a canonical taxon, aggregate
// research-grade photographed observations under it, and normalize them into
// a stable response shape.
package taxa

import "context"

const (
	MinCount     = 1
	MaxCount     = 20
	DefaultCount = 5
)

// ClampCount forces a requested count into [MinCount, MaxCount]. Out-of-range
// values are silently clamped, never rejected.
func ClampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// Service composes the resolver and aggregator into the full pipeline. The
// two upstream calls are sequential: aggregation needs the resolved taxon id.
type Service struct {
	Resolver   *Resolver
	Aggregator *Aggregator
}

func (s *Service) FamilyObservations(ctx context.Context, name string, count int) (ResultSet, error) {
	count = ClampCount(count)
	taxon, err := s.Resolver.Resolve(ctx, name)
	if err != nil {
		return ResultSet{}, err
	}
	return s.Aggregator.Aggregate(ctx, taxon, count)
}
