package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/taxa-api/internal/taxa"
)

type FamilyDeps struct {
	Svc *taxa.Service
	Log *slog.Logger
}

func RegisterFamily(r chi.Router, d FamilyDeps) {
	if d.Log == nil {
		d.Log = slog.Default()
	}

	r.Get("/api/family/{familyName}", func(w http.ResponseWriter, req *http.Request) {
		handleFamily(w, req, d, urlParam(req, "familyName"), taxa.DefaultCount)
	})

	r.Get("/api/family/{familyName}/count/{n}", func(w http.ResponseWriter, req *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(req, "n"))
		if err != nil {
			writeError(w, req, http.StatusBadRequest, map[string]any{
				"error": "count must be an integer",
			})
			return
		}
		// Out-of-range counts are clamped inside the service, not rejected.
		handleFamily(w, req, d, urlParam(req, "familyName"), n)
	})
}

func handleFamily(w http.ResponseWriter, req *http.Request, d FamilyDeps, familyName string, count int) {
	rs, err := d.Svc.FamilyObservations(req.Context(), familyName, count)
	if err != nil {
		writePipelineError(w, req, d.Log, familyName, err)
		return
	}
	render.JSON(w, req, rs)
}
