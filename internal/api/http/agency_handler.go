package http

import (
	"net/http"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/service"
)

type AgencyHandler struct {
	agencySvc service.AgencyService
}

func NewAgencyHandler(agencySvc service.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencySvc: agencySvc}
}

func (h *AgencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var agency domain.Agency
	if err := decodeBody(r, &agency); err != nil {
		respondError(w, err)
		return
	}
	if err := h.agencySvc.CreateAgency(r.Context(), &agency); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, agency)
}

func (h *AgencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	agency, err := h.agencySvc.GetAgency(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agency)
}

func (h *AgencyHandler) List(w http.ResponseWriter, r *http.Request) {
	if city := r.URL.Query().Get("city"); city != "" {
		agencies, err := h.agencySvc.SearchAgencies(r.Context(), city)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"agencies": agencies})
		return
	}

	agencies, err := h.agencySvc.ListAgencies(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"agencies": agencies})
}
