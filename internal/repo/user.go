package repo

import (
	"context"

	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/store"
)

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	doc, err := r.Store.Users().FindOne(ctx, store.Filter{fieldUsername: username})
	if err != nil {
		return nil, err
	}
	return userFromDoc(doc), nil
}

func (r *Repo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.Store.Users().FindOne(ctx, store.ByID(id))
	if err != nil {
		return nil, err
	}
	return userFromDoc(doc), nil
}

// CreateUser stores u and fills in its id.
func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	id, err := r.Store.Users().InsertOne(ctx, store.Document{
		fieldUsername:     u.Username,
		fieldPasswordHash: u.PasswordHash,
		fieldRole:         u.Role,
	})
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
