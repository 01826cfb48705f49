package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterMux binds gorilla/mux routes.
func (h *Handler) RegisterMux(r *mux.Router) {
	r.HandleFunc(routeStats, h.handleStats).Methods(http.MethodGet).Name(routeNameStats)
	r.HandleFunc(routePending, h.handlePending).Methods(http.MethodGet).Name(routeNamePending)
	r.HandleFunc(routeProofByID, h.handleProofByID).Methods(http.MethodGet).Name(routeNameProofByID)
	r.HandleFunc(routeHealth, h.handleHealth).Methods(http.MethodGet).Name(routeNameHealth)
}
