package http

import "github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/service"

// Handler bundles the dependencies for reading-list HTTP endpoints.
type Handler struct {
	svc *service.EntryService
}

func New(svc *service.EntryService) *Handler {
	return &Handler{svc: svc}
}
