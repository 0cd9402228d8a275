package http

import (
	"net/http"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

func (h *VehicleHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok || user.Role != domain.UserRoleAgency || user.AgencyID == nil {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	var vehicle domain.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		respondError(w, err)
		return
	}
	vehicle.AgencyID = *user.AgencyID

	if err := h.vehicleSvc.AddVehicle(r.Context(), &vehicle); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	vehicle, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok || user.Role != domain.UserRoleAgency || user.AgencyID == nil {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var vehicle domain.Vehicle
	if err := decodeBody(r, &vehicle); err != nil {
		respondError(w, err)
		return
	}
	vehicle.ID = id
	vehicle.AgencyID = *user.AgencyID

	if err := h.vehicleSvc.UpdateVehicle(r.Context(), &vehicle); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok || user.Role != domain.UserRoleAgency || user.AgencyID == nil {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.vehicleSvc.DeleteVehicle(r.Context(), id, *user.AgencyID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type vehiclePage struct {
	Vehicles   []domain.Vehicle `json:"vehicles"`
	TotalCount int32            `json:"total_count"`
	Page       int32            `json:"page"`
	PageSize   int32            `json:"page_size"`
}

func (h *VehicleHandler) ListByAgency(w http.ResponseWriter, r *http.Request) {
	agencyID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := pagination(r)

	vehicles, total, err := h.vehicleSvc.ListByAgency(r.Context(), agencyID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehiclePage{Vehicles: vehicles, TotalCount: total, Page: page, PageSize: pageSize})
}

// Search filters the public catalog by city and maximum weekday rate.
func (h *VehicleHandler) Search(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	var maxRate int64
	if v, ok := queryInt32(r, "max_day_rate_cents"); ok {
		maxRate = int64(v)
	}
	page, pageSize := pagination(r)

	vehicles, total, err := h.vehicleSvc.Search(r.Context(), city, maxRate, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehiclePage{Vehicles: vehicles, TotalCount: total, Page: page, PageSize: pageSize})
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, _ = queryInt32(r, "page")
	pageSize, _ = queryInt32(r, "page_size")
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
