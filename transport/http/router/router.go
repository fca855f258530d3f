package router

import (
	"github.com/go-chi/chi/v5"

	"tempo/internal/handlers/appointment"
	"tempo/internal/handlers/health"
)

type DomainHandlers struct {
	Health      health.Handler
	Appointment appointment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Appointment.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
