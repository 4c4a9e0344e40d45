package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/repo"
	"github.com/Skotchmaster/stockroom/internal/store"
	"github.com/Skotchmaster/stockroom/internal/util"
)

const unnamedCategory = "Unnamed"

type InventoryService struct {
	Repo   *repo.Repo
	Events EventPublisher
	// Index is optional; without it searches match substrings in memory.
	Index ProductIndex
}

type CategoryCount struct {
	Category models.Category
	Count    int64
}

type DashboardStats struct {
	TotalProducts int64
	LowStock      int64
	Labels        []string
	Values        []int64
}

type InventoryQuery struct {
	Q    string
	Page int
	Size int
}

type InventoryPage struct {
	Products      []models.Product
	Categories    []CategoryCount
	CategoryNames map[string]string
	Query         string
	Total         int
	Page          int
	Size          int
	Pages         int
}

// ProductInput is a product as submitted by a form. A nil Image leaves the
// stored image untouched on update.
type ProductInput struct {
	Name        string
	Quantity    int
	Price       float64
	Description string
	CategoryID  string
	Image       *string
}

// Validate rejects negative quantities and prices.
func (in ProductInput) Validate() error {
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}

func (in ProductInput) categoryID() *string {
	if in.CategoryID == "" {
		return nil
	}
	id := in.CategoryID
	return &id
}

func (s *InventoryService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	low, err := s.Repo.CountLowStock(ctx, models.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}
	counts, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts: total,
		LowStock:      low,
		Labels:        make([]string, 0, len(counts)),
		Values:        make([]int64, 0, len(counts)),
	}
	for _, cc := range counts {
		label := cc.Category.Name
		if label == "" {
			label = unnamedCategory
		}
		stats.Labels = append(stats.Labels, label)
		stats.Values = append(stats.Values, cc.Count)
	}
	return stats, nil
}

// Categories lists every category with the number of products referencing it.
func (s *InventoryService) Categories(ctx context.Context) ([]CategoryCount, error) {
	cats, err := s.Repo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]CategoryCount, 0, len(cats))
	for _, c := range cats {
		n, err := s.Repo.CountByCategory(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count category %s: %w", c.ID, err)
		}
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	return out, nil
}

// Inventory lists products, optionally filtered by q and paged when
// q.Size > 0.
func (s *InventoryService) Inventory(ctx context.Context, q InventoryQuery) (*InventoryPage, error) {
	products, err := s.Repo.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	counts, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(counts))
	for _, cc := range counts {
		names[cc.Category.ID] = cc.Category.Name
	}

	query := strings.TrimSpace(q.Q)
	if query != "" {
		products = s.search(ctx, query, products)
	}

	page := &InventoryPage{
		Products:      products,
		Categories:    counts,
		CategoryNames: names,
		Query:         query,
		Total:         len(products),
		Page:          1,
		Pages:         1,
	}
	if q.Size > 0 {
		from, limit := util.Calculate(q.Page, q.Size)
		lo, hi := util.Window(len(products), from, limit)
		page.Products = products[lo:hi]
		page.Page = from/limit + 1
		page.Size = limit
		page.Pages = util.Pages(len(products), limit)
	}
	return page, nil
}

func (s *InventoryService) search(ctx context.Context, query string, products []models.Product) []models.Product {
	if s.Index != nil && len(products) > 0 {
		ids, err := s.Index.SearchProducts(ctx, query, len(products))
		if err == nil {
			byID := make(map[string]models.Product, len(products))
			for _, p := range products {
				byID[p.ID] = p
			}
			out := make([]models.Product, 0, len(ids))
			for _, id := range ids {
				if p, ok := byID[id]; ok {
					out = append(out, p)
				}
			}
			return out
		}
		logging.FromContext(ctx).Warn("search_error", "reason", "falling back to substring match", "error", err)
	}

	needle := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (s *InventoryService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *InventoryService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.Repo.CreateProduct(ctx, &models.Product{
		Name:        in.Name,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Description: in.Description,
		CategoryID:  in.categoryID(),
		Image:       in.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, *p)
	publish(ctx, s.Events, mykafka.TopicProductEvents, mykafka.EventProductCreated, p.ID, p)
	return p, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Quantity = in.Quantity
	p.Price = in.Price
	p.Description = in.Description
	p.CategoryID = in.categoryID()
	if in.Image != nil {
		p.Image = in.Image
	}
	if err := s.Repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.index(ctx, *p)
	publish(ctx, s.Events, mykafka.TopicProductEvents, mykafka.EventProductUpdated, p.ID, p)
	return p, nil
}

// DeleteProduct removes the product; deleting a missing product is a no-op.
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("index_error", "op", "delete", "id", id, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProductEvents, mykafka.EventProductDeleted, id, nil)
	return nil
}

// Reindex writes every stored product to the search index and returns how
// many were indexed. Products created before the index was attached are
// otherwise invisible to search.
func (s *InventoryService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	products, err := s.Repo.GetProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	for i, p := range products {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			return i, fmt.Errorf("index product %s: %w", p.ID, err)
		}
	}
	return len(products), nil
}

func (s *InventoryService) index(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("index_error", "op", "index", "id", p.ID, "error", err)
	}
}

func (s *InventoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *InventoryService) CreateCategory(ctx context.Context, name, subcategory string) (*models.Category, error) {
	c, err := s.Repo.CreateCategory(ctx, &models.Category{Name: name, Subcategory: subcategory})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	publish(ctx, s.Events, mykafka.TopicCategoryEvents, mykafka.EventCategoryCreated, c.ID, c)
	return c, nil
}

func (s *InventoryService) UpdateCategory(ctx context.Context, id, name, subcategory string) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Subcategory = subcategory
	if err := s.Repo.UpdateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	publish(ctx, s.Events, mykafka.TopicCategoryEvents, mykafka.EventCategoryUpdated, c.ID, c)
	return c, nil
}
