package inat

import (
	"testing"
)

const taxaPayload = `{
  "total_results": 2,
  "results": [
    {"id": 47336, "name": "Formicidae", "rank": "family", "preferred_common_name": "Ants", "ancestry": "48460/1/47120/372739"},
    {"id": 47221, "name": "Apidae", "rank": "family", "ancestry": "48460/1/47120"}
  ]
}`

func TestMapTaxaPayload(t *testing.T) {
	taxa, err := MapTaxaPayload([]byte(taxaPayload))
	if err != nil {
		t.Fatalf("MapTaxaPayload error: %v", err)
	}
	if len(taxa) != 2 {
		t.Fatalf("got %d taxa, want 2", len(taxa))
	}
	if taxa[0].ID != 47336 || taxa[0].Name != "Formicidae" || taxa[0].Rank != "family" {
		t.Errorf("unexpected first taxon: %+v", taxa[0])
	}
	if taxa[0].CommonName == nil || *taxa[0].CommonName != "Ants" {
		t.Errorf("want common name Ants, got %v", taxa[0].CommonName)
	}
	if taxa[1].CommonName != nil {
		t.Errorf("want nil common name for Apidae, got %q", *taxa[1].CommonName)
	}
}

func TestMapTaxaPayloadSkipsBrokenRecords(t *testing.T) {
	raw := `{"results": [
		{"id": 1, "name": "Formicidae", "rank": "family"},
		"not an object",
		{"id": 0, "name": "missing id"},
		{"name": "Apidae"}
	]}`
	taxa, err := MapTaxaPayload([]byte(raw))
	if err != nil {
		t.Fatalf("MapTaxaPayload error: %v", err)
	}
	if len(taxa) != 1 || taxa[0].Name != "Formicidae" {
		t.Fatalf("want only Formicidae to survive, got %+v", taxa)
	}
}

func TestMapTaxaPayloadMalformedEnvelope(t *testing.T) {
	if _, err := MapTaxaPayload([]byte(`{"results": "nope"`)); err == nil {
		t.Fatal("want error for malformed envelope")
	}
}

func TestMapObservationsPayload(t *testing.T) {
	raw := `{
	  "total_results": 412,
	  "results": [
	    {
	      "id": 99,
	      "species_guess": "carpenter ant",
	      "observed_on": "2023-06-10",
	      "place_guess": "Austin, TX",
	      "uri": "https://www.inaturalist.org/observations/99",
	      "cached_votes_total": 7,
	      "faves_count": 2,
	      "user": {"login": "antfan"},
	      "taxon": {"name": "Camponotus pennsylvanicus", "preferred_common_name": "Eastern Carpenter Ant"},
	      "photos": [{"url": "https://static.example/photos/1/square.jpeg", "attribution": "(c) antfan, CC BY-NC"}]
	    },
	    {
	      "id": 100,
	      "photos": []
	    }
	  ]
	}`
	page, err := MapObservationsPayload([]byte(raw))
	if err != nil {
		t.Fatalf("MapObservationsPayload error: %v", err)
	}
	if page.Total != 412 {
		t.Errorf("total = %d, want 412", page.Total)
	}
	if page.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", page.Skipped)
	}
	if len(page.Observations) != 2 {
		t.Fatalf("got %d observations, want 2", len(page.Observations))
	}

	o := page.Observations[0]
	if o.ID != 99 || o.VoteScore != 9 {
		t.Errorf("id/votes = %d/%d, want 99/9", o.ID, o.VoteScore)
	}
	if o.ScientificName == nil || *o.ScientificName != "Camponotus pennsylvanicus" {
		t.Errorf("unexpected scientific name: %v", o.ScientificName)
	}
	if o.User == nil || *o.User != "antfan" {
		t.Errorf("unexpected user: %v", o.User)
	}
	if len(o.Photos) != 1 || o.Photos[0].URL != "https://static.example/photos/1/large.jpeg" {
		t.Errorf("unexpected photos: %+v", o.Photos)
	}
	if o.Photos[0].MediumURL != "https://static.example/photos/1/medium.jpeg" {
		t.Errorf("unexpected medium url: %q", o.Photos[0].MediumURL)
	}

	// Second record has no taxon and no photos; fields stay absent.
	o2 := page.Observations[1]
	if o2.ScientificName != nil || o2.ObservedOn != nil || o2.Location != nil || o2.User != nil {
		t.Errorf("want absent optional fields, got %+v", o2)
	}
	if len(o2.Photos) != 0 {
		t.Errorf("want no photos, got %+v", o2.Photos)
	}
	if o2.URL != "https://www.inaturalist.org/observations/100" {
		t.Errorf("want constructed permalink, got %q", o2.URL)
	}
}

func TestMapObservationsPayloadIsolatesBrokenRecords(t *testing.T) {
	raw := `{"total_results": 3, "results": [
		{"id": 1, "photos": [{"url": "https://x/square.jpg"}]},
		42,
		{"id": 0}
	]}`
	page, err := MapObservationsPayload([]byte(raw))
	if err != nil {
		t.Fatalf("MapObservationsPayload error: %v", err)
	}
	if page.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", page.Skipped)
	}
	if len(page.Observations) != 1 || page.Observations[0].ID != 1 {
		t.Fatalf("want one surviving observation, got %+v", page.Observations)
	}
}
