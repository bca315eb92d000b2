package domain

// CartLine holds a copy of the product taken when it was added to the cart.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}
