package mykafka

import "time"

const (
	EventUserRegistered  = "user_registered"
	EventUserLoggedIn    = "user_logged_in"
	EventProductCreated  = "product_created"
	EventProductUpdated  = "product_updated"
	EventProductDeleted  = "product_deleted"
	EventCategoryCreated = "category_created"
	EventCategoryUpdated = "category_updated"
)

type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

func NewEvent(typ, id string, data any) Event {
	return Event{
		Type:       typ,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
