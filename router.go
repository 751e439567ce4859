package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/taxa-api/http"
	"github.com/yourorg/taxa-api/internal/metrics"
	"github.com/yourorg/taxa-api/internal/taxa"
)

func BuildRouter(svc *taxa.Service, validateResolver *taxa.Resolver, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	httpapi.RegisterFamily(r, httpapi.FamilyDeps{Svc: svc, Log: log})
	httpapi.RegisterValidate(r, httpapi.ValidateDeps{Resolver: validateResolver, Log: log})
	httpapi.RegisterQuiz(r, httpapi.QuizDeps{Svc: svc, Log: log})

	return r
}
