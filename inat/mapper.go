package inat

import (
	"encoding/json"
	"fmt"
)

// MapTaxaPayload maps a /taxa response to Taxon values. Individual records
// that fail to decode are skipped; only a malformed envelope is an error.
func MapTaxaPayload(raw []byte) ([]Taxon, error) {
	var root struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("taxa payload: %w", err)
	}

	type tRecord struct {
		ID                  int    `json:"id"`
		Name                string `json:"name"`
		Rank                string `json:"rank"`
		PreferredCommonName string `json:"preferred_common_name"`
		Ancestry            string `json:"ancestry"`
	}

	out := make([]Taxon, 0, len(root.Results))
	for _, msg := range root.Results {
		var rec tRecord
		if err := json.Unmarshal(msg, &rec); err != nil || rec.ID == 0 || rec.Name == "" {
			continue
		}
		out = append(out, Taxon{
			ID:         rec.ID,
			Name:       rec.Name,
			Rank:       rec.Rank,
			CommonName: optString(rec.PreferredCommonName),
			Ancestry:   rec.Ancestry,
		})
	}
	return out, nil
}

// MapObservationsPayload maps an /observations response to normalized
// Observation cards. The upstream shape varies per record; map defensively and
// isolate failures per record so one bad entry never fails the page.
func MapObservationsPayload(raw []byte) (ObservationPage, error) {
	var root struct {
		TotalResults int               `json:"total_results"`
		Results      []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return ObservationPage{}, fmt.Errorf("observations payload: %w", err)
	}

	type oPhoto struct {
		URL         string `json:"url"`
		LargeURL    string `json:"large_url"`
		MediumURL   string `json:"medium_url"`
		OriginalURL string `json:"original_url"`
		Attribution string `json:"attribution"`
	}
	type oTaxon struct {
		Name                string `json:"name"`
		PreferredCommonName string `json:"preferred_common_name"`
	}
	type oRecord struct {
		ID               int      `json:"id"`
		SpeciesGuess     string   `json:"species_guess"`
		ObservedOn       string   `json:"observed_on"`
		PlaceGuess       string   `json:"place_guess"`
		URI              string   `json:"uri"`
		CachedVotesTotal int      `json:"cached_votes_total"`
		FavesCount       int      `json:"faves_count"`
		Taxon            *oTaxon  `json:"taxon"`
		User             struct {
			Login string `json:"login"`
		} `json:"user"`
		Photos []oPhoto `json:"photos"`
	}

	page := ObservationPage{
		Total:        root.TotalResults,
		Observations: make([]Observation, 0, len(root.Results)),
	}
	for _, msg := range root.Results {
		var rec oRecord
		if err := json.Unmarshal(msg, &rec); err != nil || rec.ID == 0 {
			page.Skipped++
			continue
		}

		photos := make([]Photo, 0, len(rec.Photos))
		for _, p := range rec.Photos {
			if ph, ok := buildPhoto(p.URL, p.LargeURL, p.MediumURL, p.OriginalURL, p.Attribution); ok {
				photos = append(photos, ph)
			}
		}

		obs := Observation{
			ID:           rec.ID,
			SpeciesGuess: optString(rec.SpeciesGuess),
			ObservedOn:   optString(rec.ObservedOn),
			Location:     optString(rec.PlaceGuess),
			User:         optString(rec.User.Login),
			Photos:       photos,
			URL:          permalink(rec.URI, rec.ID),
			VoteScore:    rec.CachedVotesTotal + rec.FavesCount,
		}
		if rec.Taxon != nil {
			obs.ScientificName = optString(rec.Taxon.Name)
			obs.CommonName = optString(rec.Taxon.PreferredCommonName)
		}
		page.Observations = append(page.Observations, obs)
	}
	return page, nil
}

func permalink(uri string, id int) string {
	if uri != "" {
		return uri
	}
	return fmt.Sprintf("https://www.inaturalist.org/observations/%d", id)
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
