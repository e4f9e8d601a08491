package rest

import (
	"net/http"

	"github.com/dmitrijs2005/issuetracker/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) pathUID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := services.ParseUID(what, chi.URLParam(r, "uid"))
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return uuid.Nil, false
	}
	return id, true
}

type productRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Email string `json:"email"`
}

type productPatchRequest struct {
	Name  *string `json:"name"`
	Type  *string `json:"type"`
	Email *string `json:"email"`
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Products.List(r.Context())
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, mapViews(items, newProductView))
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	p, err := s.svc.Products.Create(r.Context(), req.Name, req.Type, req.Email)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUID(w, r, "product uid")
	if !ok {
		return
	}

	p, err := s.svc.Products.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUID(w, r, "product uid")
	if !ok {
		return
	}

	var req productPatchRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	p, err := s.svc.Products.Update(r.Context(), id, services.ProductPatch{
		Name:       req.Name,
		Type:       req.Type,
		OwnerEmail: req.Email,
	})
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUID(w, r, "product uid")
	if !ok {
		return
	}

	if err := s.svc.Products.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uuid.UUID{"uid": id})
}

type ticketRequest struct {
	Status     string `json:"status"`
	Type       string `json:"type"`
	Desc       string `json:"desc"`
	ProductUID string `json:"product_uid"`
}

type ticketPatchRequest struct {
	Status *string `json:"status"`
	Type   *string `json:"type"`
	Desc   *string `json:"desc"`
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Tickets.List(r.Context())
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, mapViews(items, newTicketView))
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	res, _ := AuthResultFromContext(r.Context())

	var req ticketRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	in := services.NewTicket{Status: req.Status, Type: req.Type, Description: req.Desc}
	if req.ProductUID != "" {
		id, err := services.ParseUID("product uid", req.ProductUID)
		if err != nil {
			s.writeError(w, r, statusFor(err), err)
			return
		}
		in.ProductID = id
	}

	t, err := s.svc.Tickets.Create(r.Context(), res.Credential.ID, in)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newTicketView(t))
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUID(w, r, "ticket uid")
	if !ok {
		return
	}

	t, err := s.svc.Tickets.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newTicketView(t))
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUID(w, r, "ticket uid")
	if !ok {
		return
	}

	var req ticketPatchRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	t, err := s.svc.Tickets.Update(r.Context(), id, services.TicketPatch{
		Status:      req.Status,
		Type:        req.Type,
		Description: req.Desc,
	})
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newTicketView(t))
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUID(w, r, "ticket uid")
	if !ok {
		return
	}

	if err := s.svc.Tickets.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uuid.UUID{"uid": id})
}
