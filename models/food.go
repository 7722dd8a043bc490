package models

import (
	"encoding/json"
	"time"
)

// FoodItem is a chef's listing.
type FoodItem struct {
	ID          ID `validate:"required"`
	ChefID      ID
	Name        string
	Description string
	Price       float64 `validate:"gte=0"`
	Category    string
	// Image is a URL or a data URI; empty when the listing has none.
	Image        string
	Quantity     int `validate:"gte=0"`
	DeliveryTime int `validate:"gte=0"` // minutes
	IsAvailable  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Chef         *User
}

// Orderable reports whether a customer can put the item in an order. An item
// without stock is never orderable, whatever its availability flag says.
func (f FoodItem) Orderable() bool {
	return f.IsAvailable && f.Quantity > 0
}

type FoodRecord struct {
	ID                ID          `json:"id"`
	ChefIDSnake       *ID         `json:"chef_id,omitempty"`
	ChefIDCamel       *ID         `json:"chefId,omitempty"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Price             Amount      `json:"price"`
	Category          string      `json:"category"`
	Image             *string     `json:"image"`
	Quantity          Count       `json:"quantity"`
	DeliveryTimeSnake *Count      `json:"delivery_time,omitempty"`
	DeliveryTimeCamel *Count      `json:"deliveryTime,omitempty"`
	IsAvailableSnake  *Flag       `json:"is_available,omitempty"`
	IsAvailableCamel  *Flag       `json:"isAvailable,omitempty"`
	CreatedAtSnake    *string     `json:"created_at,omitempty"`
	CreatedAtCamel    *string     `json:"createdAt,omitempty"`
	UpdatedAtSnake    *string     `json:"updated_at,omitempty"`
	UpdatedAtCamel    *string     `json:"updatedAt,omitempty"`
	Chef              *UserRecord `json:"chef,omitempty"`
}

func NormalizeFoodItem(r FoodRecord) FoodItem {
	f := FoodItem{
		ID:           r.ID,
		ChefID:       pick(r.ChefIDSnake, r.ChefIDCamel),
		Name:         r.Name,
		Description:  r.Description,
		Price:        float64(r.Price),
		Category:     r.Category,
		Quantity:     int(r.Quantity),
		DeliveryTime: int(pick(r.DeliveryTimeSnake, r.DeliveryTimeCamel)),
		IsAvailable:  bool(pick(r.IsAvailableSnake, r.IsAvailableCamel)),
		CreatedAt:    parseTime(pick(r.CreatedAtSnake, r.CreatedAtCamel)),
		UpdatedAt:    parseTime(pick(r.UpdatedAtSnake, r.UpdatedAtCamel)),
		Chef:         normalizeUserPtr(r.Chef),
	}
	if r.Image != nil {
		f.Image = *r.Image
	}
	if f.ChefID.IsZero() && f.Chef != nil {
		f.ChefID = f.Chef.ID
	}
	return f
}

func (f FoodItem) Record() FoodRecord {
	chefID := optional(f.ChefID)
	created := formatTime(f.CreatedAt)
	updated := formatTime(f.UpdatedAt)
	return FoodRecord{
		ID:                f.ID,
		ChefIDSnake:       chefID,
		ChefIDCamel:       chefID,
		Name:              f.Name,
		Description:       f.Description,
		Price:             Amount(f.Price),
		Category:          f.Category,
		Image:             optional(f.Image),
		Quantity:          Count(f.Quantity),
		DeliveryTimeSnake: ptr(Count(f.DeliveryTime)),
		DeliveryTimeCamel: ptr(Count(f.DeliveryTime)),
		IsAvailableSnake:  ptr(Flag(f.IsAvailable)),
		IsAvailableCamel:  ptr(Flag(f.IsAvailable)),
		CreatedAtSnake:    created,
		CreatedAtCamel:    created,
		UpdatedAtSnake:    updated,
		UpdatedAtCamel:    updated,
		Chef:              userRecordPtr(f.Chef),
	}
}

func (f FoodItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Record())
}

func (f *FoodItem) UnmarshalJSON(data []byte) error {
	var r FoodRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*f = NormalizeFoodItem(r)
	return nil
}

func normalizeFoodPtr(r *FoodRecord) *FoodItem {
	if r == nil {
		return nil
	}
	f := NormalizeFoodItem(*r)
	return &f
}

func foodRecordPtr(f *FoodItem) *FoodRecord {
	if f == nil {
		return nil
	}
	r := f.Record()
	return &r
}

// Category groups listings on the browse page.
type Category struct {
	ID          ID     `json:"id" validate:"required"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}
