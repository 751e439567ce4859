package taxa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/taxa-api/inat"
	"github.com/yourorg/taxa-api/internal/metrics"
)

// TaxaSearcher is the upstream taxonomy search capability the resolver needs.
type TaxaSearcher interface {
	SearchTaxa(ctx context.Context, q string, ranks []string, iconicTaxon string, perPage int) ([]byte, error)
}

// Cache is an injectable name -> taxon lookaside. Implementations own TTL and
// eviction; the resolver only asks and tells. A nil Cache is a no-op.
type Cache interface {
	Lookup(ctx context.Context, name string) (inat.Taxon, bool, error)
	Store(ctx context.Context, name string, t inat.Taxon) error
	LookupMiss(ctx context.Context, name string) (bool, error)
	StoreMiss(ctx context.Context, name string) error
}

const taxaSearchPageSize = 5

type Resolver struct {
	api         TaxaSearcher
	cache       Cache
	ranks       []string
	iconicTaxon string
	log         *slog.Logger
}

func NewResolver(api TaxaSearcher, cache Cache, ranks []string, iconicTaxon string, log *slog.Logger) *Resolver {
	if len(ranks) == 0 {
		ranks = []string{"family"}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{api: api, cache: cache, ranks: ranks, iconicTaxon: iconicTaxon, log: log}
}

// Resolve turns a free-text family name into a canonical taxon. Candidates
// whose scientific name matches the input case-insensitively win; otherwise
// the highest-relevance candidate in upstream order is used.
func (r *Resolver) Resolve(ctx context.Context, name string) (inat.Taxon, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		metrics.CountResolve("invalid")
		return inat.Taxon{}, fmt.Errorf("%w: empty family name", ErrInvalidInput)
	}
	key := strings.ToLower(name)

	if r.cache != nil {
		if t, ok, err := r.cache.Lookup(ctx, key); err != nil {
			r.log.Warn("taxon cache lookup failed", "name", name, "err", err)
		} else if ok {
			metrics.CountResolve("ok")
			return t, nil
		}
		if miss, err := r.cache.LookupMiss(ctx, key); err == nil && miss {
			metrics.CountResolve("not_found")
			return inat.Taxon{}, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
	}

	raw, err := r.api.SearchTaxa(ctx, name, r.ranks, r.iconicTaxon, taxaSearchPageSize)
	if err != nil {
		metrics.CountResolve("upstream_error")
		return inat.Taxon{}, upstreamErr("resolve "+name, err)
	}
	candidates, err := inat.MapTaxaPayload(raw)
	if err != nil {
		metrics.CountResolve("upstream_error")
		return inat.Taxon{}, upstreamErr("resolve "+name, err)
	}
	if len(candidates) == 0 {
		if r.cache != nil {
			if err := r.cache.StoreMiss(ctx, key); err != nil {
				r.log.Warn("taxon miss cache store failed", "name", name, "err", err)
			}
		}
		metrics.CountResolve("not_found")
		return inat.Taxon{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	taxon := candidates[0]
	for _, c := range candidates {
		if strings.EqualFold(c.Name, name) {
			taxon = c
			break
		}
	}

	if r.cache != nil {
		if err := r.cache.Store(ctx, key, taxon); err != nil {
			r.log.Warn("taxon cache store failed", "name", name, "err", err)
		}
	}
	metrics.CountResolve("ok")
	return taxon, nil
}
