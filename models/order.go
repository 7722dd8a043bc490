package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus represents all possible states of a marketplace order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var knownStatuses = map[OrderStatus]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusDelivered: true,
	StatusCancelled: true,
}

// ParseOrderStatus rejects anything outside the six known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !knownStatuses[status] {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

type Order struct {
	ID              ID `validate:"required"`
	CustomerID      ID
	ChefID          ID
	Items           []OrderItem `validate:"dive"`
	TotalPrice      float64     `validate:"gte=0"`
	Status          OrderStatus `validate:"oneof=pending confirmed preparing ready delivered cancelled"`
	DeliveryAddress string
	DeliveryPhone   string
	// DeliveryTime is the requested delivery slot; empty means as soon as possible.
	DeliveryTime string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Customer     *User
	Chef         *User
}

// OrderItem is a line of an order. FoodName and Price are copies taken when
// the order was placed and do not follow later edits of the listing.
type OrderItem struct {
	ID       ID
	OrderID  ID
	FoodID   ID
	FoodName string
	Price    float64 `validate:"gte=0"`
	Quantity int     `validate:"gte=0"`
	Food     *FoodItem
}

type OrderItemRecord struct {
	ID            ID          `json:"id,omitempty"`
	OrderID       ID          `json:"order_id,omitempty"`
	FoodIDSnake   *ID         `json:"food_id,omitempty"`
	FoodIDCamel   *ID         `json:"foodId,omitempty"`
	FoodNameSnake *string     `json:"food_name,omitempty"`
	FoodNameCamel *string     `json:"foodName,omitempty"`
	Price         Amount      `json:"price"`
	Quantity      Count       `json:"quantity"`
	Food          *FoodRecord `json:"food,omitempty"`
}

type OrderRecord struct {
	ID                   ID                `json:"id"`
	CustomerIDSnake      *ID               `json:"customer_id,omitempty"`
	CustomerIDCamel      *ID               `json:"customerId,omitempty"`
	ChefIDSnake          *ID               `json:"chef_id,omitempty"`
	ChefIDCamel          *ID               `json:"chefId,omitempty"`
	TotalPriceSnake      *Amount           `json:"total_price,omitempty"`
	TotalPriceCamel      *Amount           `json:"totalPrice,omitempty"`
	Status               OrderStatus       `json:"status"`
	DeliveryAddressSnake *string           `json:"delivery_address,omitempty"`
	DeliveryAddressCamel *string           `json:"deliveryAddress,omitempty"`
	DeliveryPhoneSnake   *string           `json:"delivery_phone,omitempty"`
	DeliveryPhoneCamel   *string           `json:"deliveryPhone,omitempty"`
	DeliveryTimeSnake    *string           `json:"delivery_time,omitempty"`
	DeliveryTimeCamel    *string           `json:"deliveryTime,omitempty"`
	Notes                *string           `json:"notes,omitempty"`
	CreatedAtSnake       *string           `json:"created_at,omitempty"`
	CreatedAtCamel       *string           `json:"createdAt,omitempty"`
	UpdatedAtSnake       *string           `json:"updated_at,omitempty"`
	UpdatedAtCamel       *string           `json:"updatedAt,omitempty"`
	Items                []OrderItemRecord `json:"items,omitempty"`
	Customer             *UserRecord       `json:"customer,omitempty"`
	Chef                 *UserRecord       `json:"chef,omitempty"`
}

func NormalizeOrderItem(r OrderItemRecord) OrderItem {
	return OrderItem{
		ID:       r.ID,
		OrderID:  r.OrderID,
		FoodID:   pick(r.FoodIDSnake, r.FoodIDCamel),
		FoodName: pick(r.FoodNameSnake, r.FoodNameCamel),
		Price:    float64(r.Price),
		Quantity: int(r.Quantity),
		Food:     normalizeFoodPtr(r.Food),
	}
}

func (i OrderItem) Record() OrderItemRecord {
	foodID := optional(i.FoodID)
	name := optional(i.FoodName)
	return OrderItemRecord{
		ID:            i.ID,
		OrderID:       i.OrderID,
		FoodIDSnake:   foodID,
		FoodIDCamel:   foodID,
		FoodNameSnake: name,
		FoodNameCamel: name,
		Price:         Amount(i.Price),
		Quantity:      Count(i.Quantity),
		Food:          foodRecordPtr(i.Food),
	}
}

// LineTotal is the snapshotted price times quantity.
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

func NormalizeOrder(r OrderRecord) Order {
	o := Order{
		ID:              r.ID,
		CustomerID:      pick(r.CustomerIDSnake, r.CustomerIDCamel),
		ChefID:          pick(r.ChefIDSnake, r.ChefIDCamel),
		TotalPrice:      float64(pick(r.TotalPriceSnake, r.TotalPriceCamel)),
		Status:          r.Status,
		DeliveryAddress: pick(r.DeliveryAddressSnake, r.DeliveryAddressCamel),
		DeliveryPhone:   pick(r.DeliveryPhoneSnake, r.DeliveryPhoneCamel),
		DeliveryTime:    pick(r.DeliveryTimeSnake, r.DeliveryTimeCamel),
		CreatedAt:       parseTime(pick(r.CreatedAtSnake, r.CreatedAtCamel)),
		UpdatedAt:       parseTime(pick(r.UpdatedAtSnake, r.UpdatedAtCamel)),
		Customer:        normalizeUserPtr(r.Customer),
		Chef:            normalizeUserPtr(r.Chef),
	}
	if r.Notes != nil {
		o.Notes = *r.Notes
	}
	if len(r.Items) > 0 {
		o.Items = make([]OrderItem, len(r.Items))
		for i, item := range r.Items {
			o.Items[i] = NormalizeOrderItem(item)
		}
	}
	if o.CustomerID.IsZero() && o.Customer != nil {
		o.CustomerID = o.Customer.ID
	}
	if o.ChefID.IsZero() && o.Chef != nil {
		o.ChefID = o.Chef.ID
	}
	return o
}

func (o Order) Record() OrderRecord {
	customerID := optional(o.CustomerID)
	chefID := optional(o.ChefID)
	total := Amount(o.TotalPrice)
	address := optional(o.DeliveryAddress)
	phone := optional(o.DeliveryPhone)
	deliveryTime := optional(o.DeliveryTime)
	created := formatTime(o.CreatedAt)
	updated := formatTime(o.UpdatedAt)

	r := OrderRecord{
		ID:                   o.ID,
		CustomerIDSnake:      customerID,
		CustomerIDCamel:      customerID,
		ChefIDSnake:          chefID,
		ChefIDCamel:          chefID,
		TotalPriceSnake:      &total,
		TotalPriceCamel:      &total,
		Status:               o.Status,
		DeliveryAddressSnake: address,
		DeliveryAddressCamel: address,
		DeliveryPhoneSnake:   phone,
		DeliveryPhoneCamel:   phone,
		DeliveryTimeSnake:    deliveryTime,
		DeliveryTimeCamel:    deliveryTime,
		Notes:                optional(o.Notes),
		CreatedAtSnake:       created,
		CreatedAtCamel:       created,
		UpdatedAtSnake:       updated,
		UpdatedAtCamel:       updated,
		Customer:             userRecordPtr(o.Customer),
		Chef:                 userRecordPtr(o.Chef),
	}
	if len(o.Items) > 0 {
		r.Items = make([]OrderItemRecord, len(o.Items))
		for i, item := range o.Items {
			r.Items[i] = item.Record()
		}
	}
	return r
}

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Record())
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var r OrderRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*o = NormalizeOrder(r)
	return nil
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Record())
}

func (i *OrderItem) UnmarshalJSON(data []byte) error {
	var r OrderItemRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*i = NormalizeOrderItem(r)
	return nil
}
