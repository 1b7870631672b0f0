package models

// CatalogItem is one product entry. The catalog is loaded once at startup
// and never mutated.
type CatalogItem struct {
	ItemID                   int     `json:"itemId"`
	ItemName                 string  `json:"itemName"`
	Price                    float64 `json:"price"`
	InitialAvailableQuantity int     `json:"initialAvailableQuantity"`
}

// ProductAvailability is a point-in-time snapshot of an item and its
// remaining quantity. CurrentQuantity is derived on every read and is
// never stored.
type ProductAvailability struct {
	CatalogItem
	CurrentQuantity int `json:"currentQuantity"`
}

// PushNotification is the payload of one notification job.
type PushNotification struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// JobTypePushNotification is the queue lane for push notification jobs.
const JobTypePushNotification = "push_notification_code_3"

// Job lifecycle states, kept as strings so they can be written to the
// status store as-is.
const (
	StatusCreated     = "created"
	StatusEnqueued    = "enqueued"
	StatusActive      = "active"
	StatusProgressing = "progressing"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
)

// DefaultCatalog returns the static product list served when no catalog is
// configured. A fresh slice is returned so callers cannot alias each other.
func DefaultCatalog() []CatalogItem {
	return []CatalogItem{
		{ItemID: 1, ItemName: "Suitcase 250", Price: 50, InitialAvailableQuantity: 4},
		{ItemID: 2, ItemName: "Suitcase 450", Price: 100, InitialAvailableQuantity: 10},
		{ItemID: 3, ItemName: "Suitcase 650", Price: 350, InitialAvailableQuantity: 2},
		{ItemID: 4, ItemName: "Suitcase 1050", Price: 550, InitialAvailableQuantity: 5},
	}
}
