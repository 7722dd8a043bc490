package devapi

import (
	"time"

	"food-marketplace-client/models"
)

// Rows serialize the way the marketplace API does: snake_case keys, numeric
// ids, nulls for missing optional text.

type User struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Email        string          `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string          `gorm:"not null" json:"-"`
	Phone        string          `json:"phone"`
	Role         models.UserRole `gorm:"type:varchar(20);not null" json:"role"`
	Address      *string         `json:"address"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Food struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChefID       uint      `gorm:"index;not null" json:"chef_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	Price        float64   `gorm:"not null" json:"price"`
	Category     string    `gorm:"index" json:"category"`
	Image        *string   `json:"image"`
	Quantity     int       `gorm:"default:0" json:"quantity"`
	DeliveryTime int       `json:"delivery_time"`
	IsAvailable  bool      `gorm:"default:true" json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Chef         *User     `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
}

type Order struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	CustomerID      uint               `gorm:"index;not null" json:"customer_id"`
	ChefID          uint               `gorm:"index;not null" json:"chef_id"`
	TotalPrice      float64            `json:"total_price"`
	Status          models.OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryPhone   string             `json:"delivery_phone"`
	DeliveryTime    *string            `json:"delivery_time"`
	Notes           *string            `json:"notes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID" json:"items"`
	Customer        *User              `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Chef            *User              `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
}

// OrderItem snapshots the food's name and price at order time.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"index;not null" json:"order_id"`
	FoodID   uint    `gorm:"not null" json:"food_id"`
	FoodName string  `json:"food_name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Food     *Food   `gorm:"foreignKey:FoodID" json:"food,omitempty"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// RevokedToken remembers logged-out tokens until they would expire anyway.
type RevokedToken struct {
	JTI       string `gorm:"primaryKey;column:jti"`
	ExpiresAt time.Time
}
