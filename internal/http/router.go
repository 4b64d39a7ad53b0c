// Package http wires the API handlers into a chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yalin/transinvert/backend/internal/handlers"
)

// Deps holds the handlers the router mounts.
type Deps struct {
	Backup   *handlers.BackupHandler
	Texts    *handlers.TextHandler
	Folders  *handlers.FolderHandler
	Practice *handlers.PracticeHandler
}

// NewRouter creates the HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", deps.Backup.Export)
			r.Post("/import", deps.Backup.Import)
		})

		r.Route("/texts", func(r chi.Router) {
			r.Post("/upload", deps.Texts.Upload)
			r.Get("/", deps.Texts.List)
			r.Get("/{id}", deps.Texts.Get)
			r.Delete("/{id}", deps.Texts.Delete)
			r.Put("/{id}/folder", deps.Texts.Move)
			r.Get("/{id}/analysis", deps.Texts.Analysis)
		})

		r.Route("/folders", func(r chi.Router) {
			r.Post("/", deps.Folders.Create)
			r.Get("/", deps.Folders.List)
			r.Get("/tree/all", deps.Folders.Tree)
			r.Put("/{id}", deps.Folders.Update)
			r.Delete("/{id}", deps.Folders.Delete)
		})

		r.Route("/practice", func(r chi.Router) {
			r.Post("/submit", deps.Practice.Submit)
			r.Get("/history", deps.Practice.History)
			r.Delete("/history/{id}", deps.Practice.DeleteRecord)
		})

		r.Route("/review", func(r chi.Router) {
			r.Get("/due", deps.Practice.Due)
			r.Post("/{id}/mark", deps.Practice.MarkReviewed)
		})
	})

	return r
}
