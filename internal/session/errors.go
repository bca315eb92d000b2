package session

import "errors"

var (
	ErrIllegalTransition = errors.New("illegal transition of view state")
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
)
