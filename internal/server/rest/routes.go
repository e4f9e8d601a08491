package rest

import (
	"net/http"

	"github.com/dmitrijs2005/issuetracker/internal/server/permissions"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func requires(a permissions.Action) *permissions.Action { return &a }

// Routes builds the HTTP handler. Every gated route goes through
// s.authorized.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api", s.index)
	r.Post("/api", s.index)

	r.Post("/api/sign-up", s.signUp)
	r.Post("/api/sign-in", s.signIn)
	r.With(s.authorized(nil, http.StatusBadRequest)).Post("/api/sign-out", s.signOut)
	r.With(s.authorized(nil, http.StatusForbidden)).Put("/api/permissions", s.setPermissions)

	view := s.authorized(requires(permissions.View), http.StatusBadRequest)
	create := s.authorized(requires(permissions.Create), http.StatusBadRequest)
	edit := s.authorized(requires(permissions.Edit), http.StatusBadRequest)
	remove := s.authorized(requires(permissions.Delete), http.StatusBadRequest)

	r.Route("/api/product", func(r chi.Router) {
		r.With(view).Get("/", s.listProducts)
		r.With(create).Post("/", s.createProduct)
		r.With(view).Get("/{uid}", s.getProduct)
		r.With(edit).Put("/{uid}", s.updateProduct)
		r.With(remove).Delete("/{uid}", s.deleteProduct)
	})

	r.Route("/api/ticket", func(r chi.Router) {
		r.With(view).Get("/", s.listTickets)
		r.With(create).Post("/", s.createTicket)
		r.With(view).Get("/{uid}", s.getTicket)
		r.With(edit).Put("/{uid}", s.updateTicket)
		r.With(remove).Delete("/{uid}", s.deleteTicket)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.sendError(w, r, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.sendError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
