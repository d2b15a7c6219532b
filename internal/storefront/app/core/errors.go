package core

import "errors"

var (
	ErrNoSession          = errors.New("missing session: sign in or send X-Session-ID")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidQuantity    = errors.New("quantity must be a whole number between 0 and 99")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmptyPlateau       = errors.New("select at least one product for your plateau")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotPending     = errors.New("order is already confirmed")
	ErrAddressRequired     = errors.New("a delivery address is required")
	ErrAddressTooLong      = errors.New("address must be at most 200 characters")
	ErrInvalidProfile      = errors.New("name must be at most 100 characters and phone at most 30")
	ErrInvalidImage        = errors.New("file must be an image")
	ErrInvalidDelivery     = errors.New("delivery method must be delivery or pickup")
	ErrInvalidPayment      = errors.New("payment method must be cash, card or mobile-money")
	ErrUserNotFound        = errors.New("user not found")
	ErrAddressNotFound     = errors.New("address not found")
	ErrNotificationMissing = errors.New("notification not found")
	ErrResetTokenInvalid   = errors.New("reset link is invalid or has expired")
)
