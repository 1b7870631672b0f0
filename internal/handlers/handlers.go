package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"StockNotifier/internal/models"
)

const (
	statusNotFound     = "Product not found"
	statusOutOfStock   = "Not enough stock available"
	statusConfirmed    = "Reservation confirmed"
	statusStoreFailure = "Stock is unavailable"
)

type reservationResponse struct {
	Status string `json:"status"`
	ItemID int    `json:"itemId"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type createJobsResponse struct {
	Status string   `json:"status"`
	Jobs   []string `json:"jobs,omitempty"`
}

type jobStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListProducts returns the full catalog.
func ListProducts(log *slog.Logger, stockService StockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, stockService.ListCatalog())
	}
}

// GetProduct returns one item with its current available quantity.
func GetProduct(log *slog.Logger, stockService StockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProduct"

		itemID, err := strconv.Atoi(chi.URLParam(r, "itemId"))
		if err != nil {
			log.Error(op+": itemId is invalid", "url", r.URL)
			render.JSON(w, r, statusResponse{Status: statusNotFound})
			return
		}

		availability, err := stockService.GetAvailability(r.Context(), itemID)
		if errors.Is(err, models.ErrItemNotFound) {
			render.JSON(w, r, statusResponse{Status: statusNotFound})
			return
		}
		if err != nil {
			log.Error(op+": availability error", "itemId", itemID, "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, statusResponse{Status: statusStoreFailure})
			return
		}

		render.JSON(w, r, availability)
	}
}

// ReserveProduct claims one unit of the item. Business outcomes come back
// as statuses in the body; only store failures are server errors.
func ReserveProduct(log *slog.Logger, stockService StockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ReserveProduct"

		itemID, err := strconv.Atoi(chi.URLParam(r, "itemId"))
		if err != nil {
			log.Error(op+": itemId is invalid", "url", r.URL)
			render.JSON(w, r, statusResponse{Status: statusNotFound})
			return
		}

		err = stockService.ReserveOneUnit(r.Context(), itemID)
		switch {
		case errors.Is(err, models.ErrItemNotFound):
			render.JSON(w, r, reservationResponse{Status: statusNotFound, ItemID: itemID})
		case errors.Is(err, models.ErrOutOfStock):
			render.JSON(w, r, reservationResponse{Status: statusOutOfStock, ItemID: itemID})
		case err != nil:
			log.Error(op+": reservation error", "itemId", itemID, "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, reservationResponse{Status: statusStoreFailure, ItemID: itemID})
		default:
			render.JSON(w, r, reservationResponse{Status: statusConfirmed, ItemID: itemID})
		}
	}
}

// CreateNotifications creates push notification jobs from a JSON array of
// payloads.
func CreateNotifications(log *slog.Logger, jobsCreator JobsCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateNotifications"

		data, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error(op+": reading body error", "error", err)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, statusResponse{Status: "Failed to read request body"})
			return
		}

		jobs, err := jobsCreator.CreatePushNotificationsJobs(r.Context(), data)
		if errors.Is(err, models.ErrJobsNotSequence) {
			log.Error(op+": jobs payload is not an array", "error", err)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, statusResponse{Status: "Jobs is not an array"})
			return
		}

		ids := make([]string, 0, len(jobs))
		for _, job := range jobs {
			ids = append(ids, job.ID)
		}

		if err != nil {
			log.Error(op+": some jobs were not submitted", "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, createJobsResponse{Status: "Some notification jobs were not submitted", Jobs: ids})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, createJobsResponse{Status: "Notification jobs created", Jobs: ids})
	}
}

// GetNotificationStatus reads a job's lifecycle status from the status
// store.
func GetNotificationStatus(log *slog.Logger, statusStore JobStatusStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetNotificationStatus"

		id := chi.URLParam(r, "id")
		status, err := statusStore.GetStatus(r.Context(), id)
		if err != nil {
			log.Error(op+": status lookup error", "id", id, "error", err)
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, statusResponse{Status: "Notification job not found"})
			return
		}

		render.JSON(w, r, jobStatusResponse{ID: id, Status: status})
	}
}
