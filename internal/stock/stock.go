package stock

import (
	"context"
	"fmt"
	"log/slog"

	"StockNotifier/internal/models"
)

// CounterStore keeps the reserved-unit counter per item. Keys are owned by
// the store implementation; the service only speaks item ids.
type CounterStore interface {
	// GetReservedStock returns the reserved count for the item. An absent
	// key reads as 0; an unreachable store is an error, never 0.
	GetReservedStock(ctx context.Context, itemID int) (int, error)

	// ReserveStock atomically increments the item's reserved count unless
	// it has already reached limit. Returns false when the limit is hit;
	// no write happens in that case.
	ReserveStock(ctx context.Context, itemID, limit int) (bool, error)

	// ResetStock sets the reserved count for every given item to 0.
	ResetStock(ctx context.Context, itemIDs []int) error
}

// Service answers catalog and availability questions and executes the
// reserve-or-reject decision. The catalog is immutable for the lifetime of
// the service.
type Service struct {
	items []models.CatalogItem
	byID  map[int]models.CatalogItem
	store CounterStore
	log   *slog.Logger
}

func New(log *slog.Logger, items []models.CatalogItem, store CounterStore) *Service {
	byID := make(map[int]models.CatalogItem, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}
	return &Service{
		items: items,
		byID:  byID,
		store: store,
		log:   log,
	}
}

// ListCatalog returns the full catalog in catalog order.
func (s *Service) ListCatalog() []models.CatalogItem {
	out := make([]models.CatalogItem, len(s.items))
	copy(out, s.items)
	return out
}

// GetItemByID looks an item up by its exact id.
func (s *Service) GetItemByID(itemID int) (models.CatalogItem, bool) {
	item, ok := s.byID[itemID]
	return item, ok
}

// GetAvailability returns the item together with its remaining quantity.
// The quantity is a snapshot and may be stale by the time the caller acts
// on it.
func (s *Service) GetAvailability(ctx context.Context, itemID int) (models.ProductAvailability, error) {
	const op = "stock.GetAvailability"

	item, ok := s.byID[itemID]
	if !ok {
		return models.ProductAvailability{}, models.ErrItemNotFound
	}

	reserved, err := s.store.GetReservedStock(ctx, itemID)
	if err != nil {
		return models.ProductAvailability{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.ProductAvailability{
		CatalogItem:     item,
		CurrentQuantity: item.InitialAvailableQuantity - reserved,
	}, nil
}

// ReserveOneUnit claims exactly one unit of the item. The store-side capped
// increment is the commit point, so two racing callers can never both take
// the last unit.
func (s *Service) ReserveOneUnit(ctx context.Context, itemID int) error {
	const op = "stock.ReserveOneUnit"

	item, ok := s.byID[itemID]
	if !ok {
		return models.ErrItemNotFound
	}

	reserved, err := s.store.ReserveStock(ctx, itemID, item.InitialAvailableQuantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !reserved {
		return models.ErrOutOfStock
	}

	s.log.Info("reservation confirmed", "itemId", itemID)
	return nil
}

// ResetAllStock sets every item's reserved count back to 0. Runs once at
// startup, before the service accepts requests. Idempotent.
func (s *Service) ResetAllStock(ctx context.Context) error {
	const op = "stock.ResetAllStock"

	ids := make([]int, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ItemID)
	}
	if err := s.store.ResetStock(ctx, ids); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
