package httpapi

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/taxa-api/internal/taxa"
)

type QuizDeps struct {
	Svc *taxa.Service
	Log *slog.Logger

	// PickIndex selects the quiz family; overridden in tests. Defaults to
	// rand.IntN.
	PickIndex func(n int) int
}

// RegisterQuiz serves quiz questions: one random family from the provided
// set, with its top-ranked observation photo.
func RegisterQuiz(r chi.Router, d QuizDeps) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.PickIndex == nil {
		d.PickIndex = rand.IntN
	}

	r.Post("/api/quiz/question", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Families []string `json:"families"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, req, http.StatusBadRequest, map[string]any{
				"error": "invalid JSON body",
			})
			return
		}
		if len(body.Families) == 0 {
			writeError(w, req, http.StatusBadRequest, map[string]any{
				"error": "no families provided",
			})
			return
		}

		family := body.Families[d.PickIndex(len(body.Families))]
		rs, err := d.Svc.FamilyObservations(req.Context(), family, 1)
		if err != nil {
			writePipelineError(w, req, d.Log, family, err)
			return
		}
		if len(rs.Observations) == 0 {
			writeError(w, req, http.StatusNotFound, map[string]any{
				"error": "no photographed observations available for " + family,
			})
			return
		}

		obs := rs.Observations[0]
		sci := ""
		if obs.ScientificName != nil {
			sci = *obs.ScientificName
		}
		render.JSON(w, req, map[string]any{
			"correct_answer":  family,
			"image_url":       obs.Photos[0].URL,
			"scientific_name": sci,
			"observation_url": obs.URL,
		})
	})
}
