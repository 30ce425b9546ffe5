package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nexocrm/nexo/internal/http/capture"
	"github.com/nexocrm/nexo/internal/http/contact"
	"github.com/nexocrm/nexo/internal/http/deal"
	"github.com/nexocrm/nexo/internal/http/importcsv"
	"github.com/nexocrm/nexo/internal/http/middleware"
)

func New(
	jwtSecret string,
	contactsV1 *contact.Handler,
	dealsV1 *deal.Handler,
	captureV1 *capture.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Locale)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.Route("/contacts", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			contactsV1.Routes(r)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			dealsV1.Routes(r)
		})

		r.Route("/capture", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			captureV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	return router
}
