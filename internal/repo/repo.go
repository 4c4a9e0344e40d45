// Package repo maps typed models onto store documents.
package repo

import (
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/store"
)

const (
	fieldUsername     = "username"
	fieldPasswordHash = "password_hash"
	fieldRole         = "role"

	fieldName        = "name"
	fieldQuantity    = "quantity"
	fieldPrice       = "price"
	fieldDescription = "description"
	fieldCategoryID  = "category_id"
	fieldImage       = "image"
	fieldSubcategory = "subcategory"
)

type Repo struct {
	Store store.Store
}

func userFromDoc(d store.Document) *models.User {
	role := store.String(d[fieldRole])
	if role == "" {
		role = models.RoleUser
	}
	return &models.User{
		ID:           d.ID(),
		Username:     store.String(d[fieldUsername]),
		PasswordHash: store.String(d[fieldPasswordHash]),
		Role:         role,
	}
}

func productFromDoc(d store.Document) models.Product {
	price, _ := store.Float(d[fieldPrice])
	return models.Product{
		ID:          d.ID(),
		Name:        store.String(d[fieldName]),
		Quantity:    store.Int(d[fieldQuantity]),
		Price:       price,
		Description: store.String(d[fieldDescription]),
		CategoryID:  store.OptionalString(d[fieldCategoryID]),
		Image:       store.OptionalString(d[fieldImage]),
	}
}

// productFields holds every mutable product field; nil pointers become nil
// document values.
func productFields(p models.Product) store.Document {
	doc := store.Document{
		fieldName:        p.Name,
		fieldQuantity:    p.Quantity,
		fieldPrice:       p.Price,
		fieldDescription: p.Description,
		fieldCategoryID:  nil,
		fieldImage:       nil,
	}
	if p.CategoryID != nil {
		doc[fieldCategoryID] = *p.CategoryID
	}
	if p.Image != nil {
		doc[fieldImage] = *p.Image
	}
	return doc
}

func categoryFromDoc(d store.Document) models.Category {
	return models.Category{
		ID:          d.ID(),
		Name:        store.String(d[fieldName]),
		Subcategory: store.String(d[fieldSubcategory]),
	}
}
