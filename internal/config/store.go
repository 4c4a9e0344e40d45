package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/stockroom/internal/hash"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/store"
	"github.com/Skotchmaster/stockroom/internal/store/gormstore"
	"github.com/Skotchmaster/stockroom/internal/store/memory"
)

// InitStore connects the primary store and falls back to the in-memory one
// when it is not configured or cannot be reached.
func InitStore(ctx context.Context, cfg *Config, l *slog.Logger) (store.Store, error) {
	if cfg.StoreURL != "" {
		st, err := gormstore.Open(ctx, cfg.StoreURL, cfg.StoreTimeout)
		if err == nil {
			l.Info("store_connected", "backend", st.Backend())
			return st, nil
		}
		l.Warn("store_unavailable", "reason", "falling back to in-memory store", "error", err)
	} else {
		l.Warn("store_not_configured", "reason", "STORE_URL is empty, using in-memory store")
	}

	st := memory.New()
	if cfg.SeedFallback {
		if err := SeedSample(ctx, st); err != nil {
			return nil, err
		}
		l.Info("store_seeded", "backend", st.Backend())
	}
	return st, nil
}

// SeedSample fills an empty store with two categories, two products and an
// admin account (admin / admin123).
func SeedSample(ctx context.Context, st store.Store) error {
	categories := []store.Document{
		{"id": "cat1", "name": "Ropa", "subcategory": "Moda"},
		{"id": "cat2", "name": "Calzado", "subcategory": "Deportivos"},
	}
	for _, c := range categories {
		if _, err := st.Categories().InsertOne(ctx, c); err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
	}

	products := []store.Document{
		{"name": "Camiseta", "quantity": 15, "price": 299.99, "description": "Camiseta de algodón", "category_id": "cat1", "image": nil},
		{"name": "Tenis", "quantity": 4, "price": 1299.50, "description": "Tenis running", "category_id": "cat2", "image": nil},
	}
	for _, p := range products {
		if _, err := st.Products().InsertOne(ctx, p); err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
	}

	pwHash, err := hash.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	admin := store.Document{"id": "u1", "username": "admin", "password_hash": pwHash, "role": models.RoleAdmin}
	if _, err := st.Users().InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
