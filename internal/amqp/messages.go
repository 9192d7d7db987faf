package amqp

import (
	"encoding/json"
	"time"
)

// Subscription event types carried on the event queue.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// SubscriptionEventMessage notifies workers that a subscription changed.
// It carries only identifiers; consumers fetch the full record themselves.
type SubscriptionEventMessage struct {
	Event          string    `json:"event"`
	UserID         string    `json:"user_id"`
	SubscriptionID string    `json:"subscription_id"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewSubscriptionEventMessage(event, userID, subscriptionID string) *SubscriptionEventMessage {
	return &SubscriptionEventMessage{
		Event:          event,
		UserID:         userID,
		SubscriptionID: subscriptionID,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SubscriptionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SubscriptionEventMessageFromJSON creates a message from JSON bytes
func SubscriptionEventMessageFromJSON(data []byte) (*SubscriptionEventMessage, error) {
	var msg SubscriptionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BillingReminderMessage tells notification consumers a subscription is
// about to bill.
type BillingReminderMessage struct {
	UserID         string    `json:"user_id"`
	SubscriptionID string    `json:"subscription_id"`
	PlatformName   string    `json:"platform_name"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"`
	DueDate        time.Time `json:"due_date"`
	DaysUntil      int       `json:"days_until"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewBillingReminderMessage(userID, subscriptionID, platformName string, amountCents int64, currency string, dueDate time.Time, daysUntil int) *BillingReminderMessage {
	return &BillingReminderMessage{
		UserID:         userID,
		SubscriptionID: subscriptionID,
		PlatformName:   platformName,
		AmountCents:    amountCents,
		Currency:       currency,
		DueDate:        dueDate,
		DaysUntil:      daysUntil,
		Timestamp:      time.Now(),
	}
}

func (m *BillingReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillingReminderMessageFromJSON(data []byte) (*BillingReminderMessage, error) {
	var msg BillingReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
