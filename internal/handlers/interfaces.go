package handlers

import (
	"context"

	"StockNotifier/internal/models"
	"StockNotifier/internal/queue"
)

// StockService interface for catalog and reservation operations
type StockService interface {
	ListCatalog() []models.CatalogItem
	GetAvailability(ctx context.Context, itemID int) (models.ProductAvailability, error)
	ReserveOneUnit(ctx context.Context, itemID int) error
}

// JobsCreator interface for bulk notification job creation
type JobsCreator interface {
	CreatePushNotificationsJobs(ctx context.Context, data []byte) ([]*queue.Job, error)
}

// JobStatusStore interface for reading job status
type JobStatusStore interface {
	GetStatus(ctx context.Context, id string) (string, error)
}
