package catalog

import (
	"time"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// Product is a catalog row. Price is in the product's native currency;
// DiscountPrice, when present, is the promotional price the product page
// shows and the price that goes into the cart snapshot.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DiscountPrice   *float64  `json:"discount_price"`
	Currency        string    `json:"currency"`
	FreeDelivery    bool      `json:"free_delivery"`
	DiscountPercent float64   `json:"discount_percentage"`
	StockQuantity   int       `json:"stock_quantity"`
	Featured        bool      `json:"featured"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	Category        string    `json:"category"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// CartInput builds the snapshot handed to the cart engine. The discounted
// price wins when one is active, freezing the deal for items already in
// the cart.
func (p Product) CartInput() domain.ProductInput {
	price := p.Price
	if p.DiscountPrice != nil {
		price = *p.DiscountPrice
	}
	return domain.ProductInput{
		ID:              p.ID,
		Name:            p.Name,
		Price:           &price,
		Currency:        p.Currency,
		FreeDelivery:    p.FreeDelivery,
		DiscountPercent: p.DiscountPercent,
		StockQuantity:   p.StockQuantity,
	}
}
