package handlers

import (
	"context"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/events"
	"github.com/ukydev/luxedrive/internal/models"
)

// CarDescriber produces promotional copy for a car. It never fails.
type CarDescriber interface {
	CarDescription(ctx context.Context, car models.Car) string
}

type CarHandler struct {
	cars      db.CarCollection
	describer CarDescriber
	notifier
}

func NewCarHandler(cars db.CarCollection, describer CarDescriber, publisher events.Publisher, logger log.FieldLogger) *CarHandler {
	return &CarHandler{
		cars:      cars,
		describer: describer,
		notifier:  notifier{publisher: publisher, log: logger},
	}
}

// List returns the fleet, optionally filtered by the search, brand, fuelType,
// category, maxPrice and sort query parameters.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CarFilter{
		Search:   q.Get("search"),
		Brand:    q.Get("brand"),
		FuelType: models.FuelType(q.Get("fuelType")),
		Category: models.Category(q.Get("category")),
		Sort:     models.CarSort(q.Get("sort")),
	}
	if raw := q.Get("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			writeError(w, http.StatusBadRequest, "maxPrice must be a non-negative number")
			return
		}
		filter.MaxPrice = maxPrice
	}

	cars, err := h.cars.FilterCars(r.Context(), filter)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	car, err := h.cars.FindCarByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// Description returns generated copy for the car, falling back to its stored
// description.
func (h *CarHandler) Description(w http.ResponseWriter, r *http.Request) {
	car, err := h.cars.FindCarByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	text := car.Description
	if h.describer != nil {
		text = h.describer.CarDescription(r.Context(), *car)
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": text})
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var car models.Car
	if err := decodeJSON(r, &car); err != nil {
		respondError(w, h.log, err)
		return
	}

	created, err := h.cars.InsertCar(r.Context(), car)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.log.WithFields(log.Fields{"car_id": created.ID, "name": created.Name}).Info("Car added to fleet")
	writeJSON(w, http.StatusCreated, created)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.CarPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, h.log, err)
		return
	}

	updated, err := h.cars.UpdateCar(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a car. Unknown ids succeed.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.cars.DeleteCar(r.Context(), id); err != nil {
		respondError(w, h.log, err)
		return
	}

	h.emit(r.Context(), events.CarDeleted, map[string]string{"carId": id})
	w.WriteHeader(http.StatusNoContent)
}
