package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/taxa-api/internal/taxa"
)

type ValidateDeps struct {
	// Resolver here accepts the broader rank set (family, superfamily,
	// order), unlike the core pipeline which is family-only.
	Resolver *taxa.Resolver
	Log      *slog.Logger
}

func RegisterValidate(r chi.Router, d ValidateDeps) {
	if d.Log == nil {
		d.Log = slog.Default()
	}

	r.Get("/api/validate/taxon/{taxonName}", func(w http.ResponseWriter, req *http.Request) {
		name := urlParam(req, "taxonName")
		taxon, err := d.Resolver.Resolve(req.Context(), name)
		switch {
		case err == nil:
			render.JSON(w, req, map[string]any{
				"valid":      true,
				"taxon_name": taxon.Name,
				"taxon_id":   taxon.ID,
				"rank":       taxon.Rank,
				"ancestry":   taxon.Ancestry,
			})
		case errors.Is(err, taxa.ErrNotFound):
			render.JSON(w, req, map[string]any{
				"valid": false,
				"error": "not a known family, superfamily, or order",
			})
		case errors.Is(err, taxa.ErrInvalidInput):
			writeError(w, req, http.StatusBadRequest, map[string]any{
				"error": "taxon name is required",
			})
		default:
			d.Log.Error("taxon validation failed", "name", name, "err", err)
			writeError(w, req, http.StatusBadGateway, map[string]any{
				"error": "biodiversity service unavailable",
			})
		}
	})

	r.Post("/api/validate/overlap", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			NewTaxon     taxa.TaxonInfo   `json:"new_taxon"`
			ExistingTaxa []taxa.TaxonInfo `json:"existing_taxa"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, req, http.StatusBadRequest, map[string]any{
				"error": "invalid JSON body",
			})
			return
		}
		render.JSON(w, req, taxa.CheckOverlap(body.NewTaxon, body.ExistingTaxa))
	})
}
