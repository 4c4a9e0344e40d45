package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// LowStockThreshold is the quantity at or below which a product is low on stock.
	LowStockThreshold = 5
)

type User struct {
	ID           string `gorm:"primaryKey;size:36"        json:"id"`
	Username     string `gorm:"uniqueIndex;not null"      json:"username"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:user"     json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Product struct {
	ID          string  `gorm:"primaryKey;size:36"  json:"id"`
	Name        string  `gorm:"not null"            json:"name"`
	Quantity    int     `gorm:"not null;default:0"  json:"quantity"`
	Price       float64 `gorm:"not null;default:0"  json:"price"`
	Description string  `json:"description"`
	CategoryID  *string `gorm:"index;size:36"       json:"category_id"`
	Image       *string `json:"image"`
}

func (p Product) LowStock() bool {
	return p.Quantity <= LowStockThreshold
}

// CategoryRef returns the category id or "" when unset.
func (p Product) CategoryRef() string {
	if p.CategoryID == nil {
		return ""
	}
	return *p.CategoryID
}

// ImageName returns the stored image filename or "" when unset.
func (p Product) ImageName() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

type Category struct {
	ID          string `gorm:"primaryKey;size:36"  json:"id"`
	Name        string `gorm:"not null"            json:"name"`
	Subcategory string `json:"subcategory"`
}
