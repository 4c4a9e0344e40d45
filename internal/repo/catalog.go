package repo

import (
	"context"

	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/store"
)

func (r *Repo) GetProducts(ctx context.Context) ([]models.Product, error) {
	docs, err := r.Store.Products().Find(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, productFromDoc(d))
	}
	return items, nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	doc, err := r.Store.Products().FindOne(ctx, store.ByID(id))
	if err != nil {
		return nil, err
	}
	p := productFromDoc(doc)
	return &p, nil
}

func (r *Repo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	id, err := r.Store.Products().InsertOne(ctx, productFields(*prod))
	if err != nil {
		return nil, err
	}
	prod.ID = id
	return prod, nil
}

// UpdateProduct overwrites every mutable field of the product with prod.ID.
func (r *Repo) UpdateProduct(ctx context.Context, prod *models.Product) error {
	return r.Store.Products().UpdateOne(ctx, store.ByID(prod.ID), productFields(*prod))
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	return r.Store.Products().DeleteOne(ctx, store.ByID(id))
}

func (r *Repo) CountProducts(ctx context.Context) (int64, error) {
	return r.Store.Products().CountDocuments(ctx, store.Filter{})
}

// CountLowStock counts products whose quantity is at or below threshold.
func (r *Repo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	return r.Store.Products().CountDocuments(ctx, store.Filter{fieldQuantity: store.Lte(threshold)})
}

func (r *Repo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.Store.Products().CountDocuments(ctx, store.Filter{fieldCategoryID: categoryID})
}

func (r *Repo) GetCategories(ctx context.Context) ([]models.Category, error) {
	docs, err := r.Store.Categories().Find(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		items = append(items, categoryFromDoc(d))
	}
	return items, nil
}

func (r *Repo) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	doc, err := r.Store.Categories().FindOne(ctx, store.ByID(id))
	if err != nil {
		return nil, err
	}
	c := categoryFromDoc(doc)
	return &c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	id, err := r.Store.Categories().InsertOne(ctx, store.Document{
		fieldName:        cat.Name,
		fieldSubcategory: cat.Subcategory,
	})
	if err != nil {
		return nil, err
	}
	cat.ID = id
	return cat, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, cat *models.Category) error {
	return r.Store.Categories().UpdateOne(ctx, store.ByID(cat.ID), store.Document{
		fieldName:        cat.Name,
		fieldSubcategory: cat.Subcategory,
	})
}
