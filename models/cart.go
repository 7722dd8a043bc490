package models

// CartLine is one entry of the local cart. The JSON shape is what the `cart`
// storage key has always held, so it must not change.
type CartLine struct {
	FoodID   ID  `json:"foodId"`
	Quantity int `json:"quantity"`
}
