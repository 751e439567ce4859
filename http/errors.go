package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/taxa-api/internal/taxa"
)

func writeError(w http.ResponseWriter, req *http.Request, status int, body map[string]any) {
	render.Status(req, status)
	render.JSON(w, req, body)
}

// writePipelineError maps the pipeline error taxonomy onto HTTP statuses.
// Upstream payloads never reach the caller; only our own messages do.
func writePipelineError(w http.ResponseWriter, req *http.Request, log *slog.Logger, familyName string, err error) {
	switch {
	case errors.Is(err, taxa.ErrInvalidInput):
		writeError(w, req, http.StatusBadRequest, map[string]any{
			"error": "family name is required",
		})
	case errors.Is(err, taxa.ErrNotFound):
		writeError(w, req, http.StatusNotFound, map[string]any{
			"error":  "Family not found",
			"detail": "verify the spelling of the family name",
		})
	default:
		var upErr *taxa.UpstreamError
		if errors.As(err, &upErr) {
			log.Error("upstream failure", "family", familyName, "status", upErr.Status, "err", err)
		} else {
			log.Error("upstream failure", "family", familyName, "err", err)
		}
		writeError(w, req, http.StatusBadGateway, map[string]any{
			"error": "biodiversity service unavailable",
		})
	}
}

// urlParam returns a decoded route parameter. chi hands back the escaped
// segment when the request path carried percent-encoding.
func urlParam(req *http.Request, key string) string {
	v := chi.URLParam(req, key)
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}
