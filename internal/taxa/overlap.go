package taxa

import (
	"fmt"
	"strconv"
	"strings"
)

// TaxonInfo is the caller-supplied identity of a taxon for overlap checks:
// its id plus the slash-joined ancestor id chain from upstream.
type TaxonInfo struct {
	Name     string `json:"taxon_name"`
	ID       int    `json:"taxon_id"`
	Rank     string `json:"rank"`
	Ancestry string `json:"ancestry"`
}

type OverlapResult struct {
	Overlap          bool   `json:"overlap"`
	OverlappingTaxon string `json:"overlapping_taxon,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// CheckOverlap reports whether the candidate taxon and any existing taxon are
// related by ancestry, i.e. one contains the other. Two disjoint families
// never overlap; a family always overlaps its order.
func CheckOverlap(candidate TaxonInfo, existing []TaxonInfo) OverlapResult {
	candSet := ancestrySet(candidate)
	candID := strconv.Itoa(candidate.ID)

	for _, ex := range existing {
		exSet := ancestrySet(ex)
		if exSet[candID] {
			return OverlapResult{
				Overlap:          true,
				OverlappingTaxon: ex.Name,
				Reason:           fmt.Sprintf("%s (%s) is a parent/ancestor of %s", candidate.Name, candidate.Rank, ex.Name),
			}
		}
		if candSet[strconv.Itoa(ex.ID)] {
			return OverlapResult{
				Overlap:          true,
				OverlappingTaxon: ex.Name,
				Reason:           fmt.Sprintf("%s is a parent/ancestor of %s (%s)", ex.Name, candidate.Name, candidate.Rank),
			}
		}
	}
	return OverlapResult{}
}

func ancestrySet(t TaxonInfo) map[string]bool {
	set := make(map[string]bool)
	if t.Ancestry != "" {
		for _, id := range strings.Split(t.Ancestry, "/") {
			if id != "" {
				set[id] = true
			}
		}
	}
	set[strconv.Itoa(t.ID)] = true
	return set
}
