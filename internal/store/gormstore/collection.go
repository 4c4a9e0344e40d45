package gormstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/store"
)

type Collection struct {
	db       *gorm.DB
	newModel func() any
}

func (c *Collection) model(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(c.newModel())
}

var idOrder = clause.OrderByColumn{Column: clause.Column{Name: store.IDField}}

func (c *Collection) InsertOne(ctx context.Context, doc store.Document) (string, error) {
	row := doc.Clone()
	if row.ID() == "" {
		row[store.IDField] = store.NewID()
	}
	if err := c.model(ctx).Create(map[string]any(row)).Error; err != nil {
		return "", err
	}
	return row.ID(), nil
}

func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (store.Document, error) {
	out := map[string]any{}
	err := where(c.model(ctx), filter).Order(idOrder).Take(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return store.Document(out), nil
}

func (c *Collection) Find(ctx context.Context) ([]store.Document, error) {
	var rows []map[string]any
	if err := c.model(ctx).Order(idOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]store.Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.Document(r))
	}
	return out, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) error {
	id, err := c.firstID(ctx, filter)
	if err != nil || id == "" {
		return err
	}
	return c.db.WithContext(ctx).Where(idEq(id)).Delete(c.newModel()).Error
}

func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, set store.Document) error {
	values := withoutID(set)
	if len(values) == 0 {
		return nil
	}
	id, err := c.firstID(ctx, filter)
	if err != nil || id == "" {
		return err
	}
	return c.model(ctx).Where(idEq(id)).Updates(values).Error
}

func (c *Collection) UpdateMany(ctx context.Context, filter store.Filter, set store.Document) (int64, error) {
	values := withoutID(set)
	if len(values) == 0 {
		return 0, nil
	}
	tx := where(c.model(ctx), filter)
	if len(filter) == 0 {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	res := tx.Updates(values)
	return res.RowsAffected, res.Error
}

func (c *Collection) CountDocuments(ctx context.Context, filter store.Filter) (int64, error) {
	var n int64
	if err := where(c.model(ctx), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// firstID returns "" without error when nothing matches.
func (c *Collection) firstID(ctx context.Context, filter store.Filter) (string, error) {
	doc, err := c.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return doc.ID(), nil
}

func idEq(id string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: store.IDField}, Value: id}
}

func withoutID(set store.Document) map[string]any {
	out := make(map[string]any, len(set))
	for k, v := range set {
		if k != store.IDField {
			out[k] = v
		}
	}
	return out
}

// where translates a Filter into gorm conditions. Keys are applied in sorted
// order so the generated SQL is stable for prepared statements.
func where(tx *gorm.DB, filter store.Filter) *gorm.DB {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col := clause.Column{Name: k}
		v := filter[k]
		if op, ok := v.(store.Op); ok {
			if op.Kind == store.OpLte {
				tx = tx.Where(clause.Expr{SQL: "COALESCE(?, 0) <= ?", Vars: []any{col, op.Value}})
				continue
			}
			v = op.Value
		}
		tx = tx.Where(clause.Eq{Column: col, Value: v})
	}
	return tx
}

// Store is the gorm-backed implementation of store.Store.
type Store struct {
	db         *gorm.DB
	users      *Collection
	products   *Collection
	categories *Collection
}

// New migrates the collection tables on db and wraps them.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Category{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{
		db:         db,
		users:      &Collection{db: db, newModel: func() any { return &models.User{} }},
		products:   &Collection{db: db, newModel: func() any { return &models.Product{} }},
		categories: &Collection{db: db, newModel: func() any { return &models.Category{} }},
	}, nil
}

func (s *Store) Users() store.Collection      { return s.users }
func (s *Store) Products() store.Collection   { return s.products }
func (s *Store) Categories() store.Collection { return s.categories }

func (s *Store) Backend() string { return "gorm" }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
