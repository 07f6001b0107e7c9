// Package domain defines the persistence models for the store's resources:
// users, categories, products, customers, orders, FAQs, discount codes,
// notifications, and inventory items. These types are mapped with GORM and
// form the data layer of the e-commerce backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is an operator account with a role that gates mutating endpoints.
// Passwords are stored as bcrypt hashes and never serialized.
type User struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"       gorm:"type:varchar(255);not null"`
	Email        string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(128);not null"`
	Role         Role           `json:"role"       gorm:"type:varchar(16);not null;default:'Viewer'"`
	AvatarURL    string         `json:"avatarUrl,omitempty" gorm:"type:varchar(512)"`
	IsActive     bool           `json:"isActive"   gorm:"not null;default:true"`
	LastLogin    *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Category groups products. Slug is unique and generated from the name when
// not supplied. ParentID allows one level of nesting.
type Category struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name"        gorm:"type:varchar(255);not null;index"`
	Slug        string         `json:"slug"        gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string         `json:"imageUrl,omitempty"    gorm:"type:varchar(512)"`
	ParentID    *string        `json:"parentId,omitempty"    gorm:"type:char(36);index"`
	CreatedAt   time.Time      `json:"createdAt"   gorm:"index"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Product is a sellable item. CategoryID is an optional foreign key; it is
// validated as a well-formed identifier at the HTTP boundary before writes.
type Product struct {
	ID                string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Name              string         `json:"name"        gorm:"type:varchar(255);not null;index"`
	Description       string         `json:"description" gorm:"type:text;not null"`
	Price             float64        `json:"price"       gorm:"not null"`
	SKU               string         `json:"sku,omitempty" gorm:"type:varchar(64);index"`
	Stock             int            `json:"stock"       gorm:"not null;default:0"`
	InStock           bool           `json:"inStock"     gorm:"not null;default:true;index"`
	LowStockThreshold *int           `json:"lowStockThreshold,omitempty"`
	ImageURL          string         `json:"imageUrl,omitempty" gorm:"type:varchar(512)"`
	CategoryID        *string        `json:"categoryId,omitempty" gorm:"type:char(36);index"`
	CreatedAt         time.Time      `json:"createdAt"   gorm:"index"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// Customer is a shopper record, distinct from the User operator accounts.
type Customer struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"      gorm:"type:varchar(255);not null;index"`
	Email     string         `json:"email"     gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone     string         `json:"phone,omitempty"   gorm:"type:varchar(32)"`
	Address   string         `json:"address,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Customer.
func (Customer) TableName() string { return "customers" }

// Order is a customer purchase. Status moves through
// pending → processing → shipped → delivered (or cancelled); the workflow
// itself is out of scope here, status is stored as plain text.
type Order struct {
	ID             string         `json:"id"         gorm:"type:char(36);primaryKey"`
	CustomerID     string         `json:"customerId" gorm:"type:char(36);not null;index"`
	Status         string         `json:"status"     gorm:"type:varchar(32);not null;default:'pending';index"`
	Total          float64        `json:"total"      gorm:"not null;default:0"`
	DiscountCodeID *string        `json:"discountCodeId,omitempty" gorm:"type:char(36);index"`
	Items          []OrderItem    `json:"items,omitempty" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt      time.Time      `json:"createdAt"  gorm:"index"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is a single product line within an order. Quantity and unit price
// are captured at purchase time so later product edits do not rewrite history.
type OrderItem struct {
	ID        string  `json:"id"        gorm:"type:char(36);primaryKey"`
	OrderID   string  `json:"orderId"   gorm:"type:char(36);not null;index"`
	ProductID string  `json:"productId" gorm:"type:char(36);not null;index"`
	Quantity  int     `json:"quantity"  gorm:"not null"`
	UnitPrice float64 `json:"unitPrice" gorm:"not null"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// Faq is a question/answer pair shown on the storefront.
type Faq struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	Question  string         `json:"question"  gorm:"type:text;not null;index"`
	Answer    string         `json:"answer"    gorm:"type:text;not null"`
	Category  string         `json:"category,omitempty" gorm:"type:varchar(128);index"`
	IsActive  bool           `json:"isActive"  gorm:"not null;default:true;index"`
	Order     int            `json:"order"     gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Faq.
func (Faq) TableName() string { return "faqs" }

// DiscountCode is a redeemable promotion. Code is unique; Percent is the
// discount as a percentage in (0,100].
type DiscountCode struct {
	ID         string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Code       string         `json:"code"       gorm:"type:varchar(64);not null;uniqueIndex"`
	Percent    float64        `json:"percent"    gorm:"not null"`
	IsActive   bool           `json:"isActive"   gorm:"not null;default:true;index"`
	ValidFrom  *time.Time     `json:"validFrom,omitempty"`
	ValidUntil *time.Time     `json:"validUntil,omitempty"`
	MaxUses    *int           `json:"maxUses,omitempty"`
	UsedCount  int            `json:"usedCount"  gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"createdAt"  gorm:"index"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for DiscountCode.
func (DiscountCode) TableName() string { return "discount_codes" }

// Notification is an in-app message targeted at a user.
type Notification struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"userId"   gorm:"type:char(36);not null;index"`
	Title     string         `json:"title"    gorm:"type:varchar(255);not null"`
	Body      string         `json:"body"     gorm:"type:text;not null"`
	Kind      string         `json:"kind"     gorm:"type:varchar(32);not null;default:'info'"`
	IsRead    bool           `json:"isRead"   gorm:"not null;default:false;index"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// InventoryItem tracks physical stock of a product at a location.
type InventoryItem struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ProductID string         `json:"productId" gorm:"type:char(36);not null;index"`
	Location  string         `json:"location"  gorm:"type:varchar(128);not null;index"`
	Quantity  int            `json:"quantity"  gorm:"not null;default:0"`
	Reserved  int            `json:"reserved"  gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for InventoryItem.
func (InventoryItem) TableName() string { return "inventory_items" }

// IdempotencyKey records a consumed Idempotency-Key header so that a replayed
// order submission can be rejected instead of creating a duplicate.
type IdempotencyKey struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Key       string    `json:"key"       gorm:"type:varchar(200);not null;uniqueIndex:ux_idem_scope_key"`
	Scope     string    `json:"scope"     gorm:"type:varchar(64);not null;uniqueIndex:ux_idem_scope_key"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index"`
}

// TableName returns the database table name for IdempotencyKey.
func (IdempotencyKey) TableName() string { return "idempotency_keys" }
