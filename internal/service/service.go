// Package service holds the authentication and inventory use cases on top of
// the repo layer.
package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductIndex is the full text search side of the catalog.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string, limit int) ([]string, error)
}

func publish(ctx context.Context, p EventPublisher, topic, typ, id string, data any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, id, mykafka.NewEvent(typ, id, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "event", typ, "id", id, "error", err)
	}
}
