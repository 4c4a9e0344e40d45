// Package store defines the document collection contract shared by the
// primary gorm-backed store and the in-memory fallback.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	UsersCollection      = "users"
	ProductsCollection   = "products"
	CategoriesCollection = "categories"

	// IDField holds the document identifier.
	IDField = "id"
)

var ErrNotFound = errors.New("document not found")

// Document is a loosely-typed record keyed by field name.
type Document map[string]any

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ID returns the document identifier as a string.
func (d Document) ID() string {
	return String(d[IDField])
}

type OpKind int

const (
	OpEq OpKind = iota
	OpLte
)

// Op is a comparison operator usable as a Filter value.
type Op struct {
	Kind  OpKind
	Value any
}

// Lte matches documents whose field is less than or equal to v.
func Lte(v any) Op {
	return Op{Kind: OpLte, Value: v}
}

// Filter maps field names to plain values (equality) or Op values.
// An empty filter matches every document.
type Filter map[string]any

// ByID is the filter matching a single identifier.
func ByID(id string) Filter {
	return Filter{IDField: id}
}

type Collection interface {
	InsertOne(ctx context.Context, doc Document) (string, error)
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context) ([]Document, error)
	DeleteOne(ctx context.Context, filter Filter) error
	UpdateOne(ctx context.Context, filter Filter, set Document) error
	UpdateMany(ctx context.Context, filter Filter, set Document) (int64, error)
	CountDocuments(ctx context.Context, filter Filter) (int64, error)
}

// Store groups the application's collections behind one backend.
type Store interface {
	Users() Collection
	Products() Collection
	Categories() Collection
	Backend() string
	Ping(ctx context.Context) error
	Close() error
}

// NewID returns a time-ordered identifier so that ordering by id follows
// insertion order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// String renders a document value the way equality filters compare it.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

// Float converts numeric document values; ok is false for anything else.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int converts numeric document values to int, truncating fractions.
func Int(v any) int {
	f, _ := Float(v)
	return int(f)
}

// OptionalString returns nil for absent, nil or empty values.
func OptionalString(v any) *string {
	s := String(v)
	if s == "" {
		return nil
	}
	return &s
}
