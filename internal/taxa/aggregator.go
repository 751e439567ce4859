package taxa

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yourorg/taxa-api/inat"
	"github.com/yourorg/taxa-api/internal/metrics"
)

// ObservationSearcher is the upstream observation search capability the
// aggregator needs.
type ObservationSearcher interface {
	SearchObservations(ctx context.Context, taxonID, perPage, page int) ([]byte, error)
}

// ResultSet is the normalized response for one family query. Ordering is
// ranking order, not upstream arrival order.
type ResultSet struct {
	FamilyName   string             `json:"family_name"`
	FamilyID     int                `json:"family_id"`
	TotalFound   int                `json:"total_found"`
	Observations []inat.Observation `json:"observations"`
}

const (
	oversampleFactor = 4
	upstreamPageCap  = 200
	defaultMaxPages  = 3
)

type Aggregator struct {
	api      ObservationSearcher
	maxPages int
	log      *slog.Logger
}

func NewAggregator(api ObservationSearcher, maxPages int, log *slog.Logger) *Aggregator {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{api: api, maxPages: maxPages, log: log}
}

// Aggregate fetches research-grade photographed observations under the taxon,
// ranks them deterministically, applies diversity selection, and truncates to
// count. The caller has already clamped count. Zero survivors is a valid
// empty result, not an error.
func (a *Aggregator) Aggregate(ctx context.Context, taxon inat.Taxon, count int) (ResultSet, error) {
	rs := ResultSet{
		FamilyName:   taxon.Name,
		FamilyID:     taxon.ID,
		Observations: make([]inat.Observation, 0, count),
	}

	perPage := oversampleFactor * count
	if perPage > upstreamPageCap {
		perPage = upstreamPageCap
	}

	var candidates []inat.Observation
	total := 0
	for page := 1; page <= a.maxPages; page++ {
		raw, err := a.api.SearchObservations(ctx, taxon.ID, perPage, page)
		if err != nil {
			return ResultSet{}, upstreamErr("aggregate", err)
		}
		mapped, err := inat.MapObservationsPayload(raw)
		if err != nil {
			return ResultSet{}, upstreamErr("aggregate", err)
		}
		if mapped.Skipped > 0 {
			a.log.Warn("skipped malformed observation records",
				"taxon_id", taxon.ID, "page", page, "skipped", mapped.Skipped)
		}
		total = mapped.Total
		for _, o := range mapped.Observations {
			if len(o.Photos) == 0 {
				continue
			}
			candidates = append(candidates, o)
		}
		// Last page, or enough material to rank and diversify from.
		if len(mapped.Observations) < perPage || len(candidates) >= perPage {
			break
		}
	}

	rankObservations(candidates)
	rs.Observations = selectDiverse(candidates, count)
	if len(rs.Observations) > 0 {
		rs.TotalFound = total
	}
	metrics.CountObservationsServed(len(rs.Observations))
	return rs, nil
}

// rankObservations sorts by vote score descending, most recent observation
// date next, ascending id last for full determinism.
func rankObservations(obs []inat.Observation) {
	sort.Slice(obs, func(i, j int) bool {
		if obs[i].VoteScore != obs[j].VoteScore {
			return obs[i].VoteScore > obs[j].VoteScore
		}
		ti, tj := observedTime(obs[i]), observedTime(obs[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return obs[i].ID < obs[j].ID
	})
}

func observedTime(o inat.Observation) time.Time {
	if o.ObservedOn == nil {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", *o.ObservedOn)
	if err != nil {
		return time.Time{}
	}
	return t
}

// selectDiverse walks the ranked slice taking at most one observation per
// species, deferring same-genus records to a second pass that fills whatever
// slots remain. Both passes preserve ranking order.
func selectDiverse(ranked []inat.Observation, count int) []inat.Observation {
	picked := make([]inat.Observation, 0, count)
	seenSpecies := make(map[string]bool)
	seenGenus := make(map[string]bool)
	var deferred []inat.Observation

	for _, o := range ranked {
		if len(picked) == count {
			return picked
		}
		sci := strVal(o.ScientificName)
		if sci != "" && seenSpecies[sci] {
			continue
		}
		if g := genusOf(sci); g != "" && seenGenus[g] {
			deferred = append(deferred, o)
			continue
		}
		picked = take(picked, o, seenSpecies, seenGenus)
	}
	for _, o := range deferred {
		if len(picked) == count {
			break
		}
		sci := strVal(o.ScientificName)
		if sci != "" && seenSpecies[sci] {
			continue
		}
		picked = take(picked, o, seenSpecies, seenGenus)
	}
	return picked
}

func take(picked []inat.Observation, o inat.Observation, seenSpecies, seenGenus map[string]bool) []inat.Observation {
	if sci := strVal(o.ScientificName); sci != "" {
		seenSpecies[sci] = true
		if g := genusOf(sci); g != "" {
			seenGenus[g] = true
		}
	}
	return append(picked, o)
}

func genusOf(scientificName string) string {
	if scientificName == "" {
		return ""
	}
	if i := strings.IndexByte(scientificName, ' '); i > 0 {
		return scientificName[:i]
	}
	return scientificName
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
