package domain

import "time"

const (
	// BaseCurrency is the currency product prices are natively stored in,
	// and the basis all exchange rates are quoted against.
	BaseCurrency = "NGN"

	// BaseDeliveryFee is the flat order delivery fee in the base currency.
	// It is waived entirely when any line item ships free.
	BaseDeliveryFee float64 = 2000
)

// FallbackRates approximates the live exchange rates when the rate service
// is unreachable. Stale prices beat missing prices for a storefront.
var FallbackRates = map[string]float64{
	"NGN": 1,
	"USD": 0.00067,
	"EUR": 0.00062,
	"GBP": 0.00053,
	"GHS": 0.008,
	"JPY": 0.1,
}

// Product is a snapshot of catalog attributes taken at the moment an item
// enters the cart. Later catalog price or discount changes do not affect
// items already added.
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BasePrice       float64 `json:"basePrice"`
	BaseCurrency    string  `json:"baseCurrency"`
	FreeDelivery    bool    `json:"freeDelivery"`
	DiscountPercent float64 `json:"discount_percentage"`
	StockQuantity   int     `json:"stock_quantity"`
}

// ProductInput carries an inbound product snapshot before validation.
// Price is a pointer so a missing price is distinguishable from a zero one.
type ProductInput struct {
	ID              string
	Name            string
	Price           *float64
	Currency        string
	FreeDelivery    bool
	DiscountPercent float64
	StockQuantity   int
}

// LineItem is one product-and-quantity entry in the cart. The cart holds
// at most one line item per product ID.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartState is the aggregate owned by the cart engine. Items keep their
// insertion order for stable display.
type CartState struct {
	Items           []LineItem
	VoucherDiscount float64
	Currency        string
	ExchangeRates   map[string]float64
	LastRateUpdate  *time.Time
}

// NewCartState returns the default empty state: no items, no discount, the
// base display currency, an empty rate table and no refresh timestamp.
func NewCartState() CartState {
	return CartState{
		Items:         []LineItem{},
		Currency:      BaseCurrency,
		ExchangeRates: map[string]float64{},
	}
}
