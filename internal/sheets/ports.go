package sheets

import (
	"context"
	"time"
)

// Row is one export entry. The export sheet is an append-only audit log of
// subscription changes, one row per event.
type Row struct {
	Timestamp      time.Time
	Event          string
	UserID         string
	SubscriptionID string
	PlatformName   string
	Category       string
	Price          float64
	Currency       string
	Cycle          string
	StartDate      string
	NextBilling    string
}

// SubscriptionWriter is the port for outbound sheet adapters.
type SubscriptionWriter interface {
	// Append writes one row and returns an adapter-specific row reference.
	Append(ctx context.Context, row Row) (rowRef string, err error)
}
