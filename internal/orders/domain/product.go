package domain

import "github.com/shopspring/decimal"

// Product is the catalog view the order core reads. It is owned by the catalog;
// orders only snapshot it and adjust its stock counter.
type Product struct {
	ID       string
	Name     string
	Image    string
	Price    decimal.Decimal
	Stock    int
	IsActive bool
}

// Line snapshots the product into an order line for quantity units
func (p *Product) Line(quantity int) OrderLine {
	return OrderLine{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		UnitPrice: p.Price,
		Quantity:  quantity,
	}
}
