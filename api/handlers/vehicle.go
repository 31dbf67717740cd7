package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/api"
	"github.com/ceylonexplorer/rental-api/config"
	"github.com/ceylonexplorer/rental-api/store"
)

// Vehicle exported for testing purposes
type Vehicle struct {
	Store *store.Store
}

// VehiclesHandler returns the active fleet, cheapest first. When both
// startDate and endDate query params are present each vehicle is annotated
// with its availability for that range.
func (v Vehicle) VehiclesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	vehicles := v.Store.FetchVehicles(ctx)

	if startDate == "" && endDate == "" {
		b, err := json.Marshal(vehicles)
		if err != nil {
			config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(b)
		return
	}

	annotated, err := v.Store.AnnotateAvailability(ctx, vehicles, startDate, endDate)
	if err != nil {
		writeStoreError("failed to annotate availability", w, err)
		return
	}
	b, err := json.Marshal(annotated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// VehicleByIDHandler returns a vehicle by ID
func (v Vehicle) VehicleByIDHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	zap.S().Debugf("vehicle_id: %v", vehicleID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	vehicle, err := v.Store.FetchVehicleByID(ctx, vehicleID)
	if err != nil {
		writeStoreError("failed to get vehicle by ID", w, err)
		return
	}

	b, err := json.Marshal(vehicle)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AvailabilityHandler reports whether a vehicle is free for the requested
// inclusive date range.
func (v Vehicle) AvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	exclude := r.URL.Query().Get("exclude")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	availability, err := v.Store.IsAvailable(ctx, vehicleID, startDate, endDate, exclude)
	if err != nil {
		writeStoreError("failed to check availability", w, err)
		return
	}

	b, err := json.Marshal(availability)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
