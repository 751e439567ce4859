package inat

// Taxon is a resolved node in the iNaturalist taxonomy.
type Taxon struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Rank       string  `json:"rank"`
	CommonName *string `json:"common_name"`
	Ancestry   string  `json:"ancestry"`
}

// Observation is the normalized record served to clients. Optional upstream
// fields are pointers so absence is an explicit null, never an empty string.
type Observation struct {
	ID             int     `json:"id"`
	SpeciesGuess   *string `json:"species_guess"`
	ScientificName *string `json:"scientific_name"`
	CommonName     *string `json:"common_name"`
	ObservedOn     *string `json:"observed_on"`
	Location       *string `json:"location"`
	User           *string `json:"user"`
	Photos         []Photo `json:"photos"`
	URL            string  `json:"url"`

	// VoteScore is the upstream community vote signal used for ranking.
	VoteScore int `json:"-"`
}

type Photo struct {
	URL         string `json:"url"`
	MediumURL   string `json:"medium_url"`
	Attribution string `json:"attribution"`
}

// ObservationPage is one mapped page of upstream results.
type ObservationPage struct {
	Total        int // upstream total_results for the filtered query
	Skipped      int // records dropped because they failed to decode
	Observations []Observation
}
