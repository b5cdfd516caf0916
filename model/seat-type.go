package model

// DiscountOption is one discount offered for a seat type.
type DiscountOption struct {
	DiscountId         int      `json:"discount_id"`
	SeatTypeDiscountId int      `json:"seat_type_discount_id"`
	Name               string   `json:"name"`
	Description        *string  `json:"description"`
	Amount             *float64 `json:"discount_amount"`
	Percentage         *float64 `json:"discount_percentage"`
}

type DiscountEnvelope struct {
	Discounts []DiscountOption `json:"discounts"`
}

// Apply returns price reduced by the discount, never below zero.
func (d DiscountOption) Apply(price float64) float64 {
	switch {
	case d.Amount != nil:
		price -= *d.Amount
	case d.Percentage != nil:
		price -= price * *d.Percentage / 100
	}
	if price < 0 {
		return 0
	}
	return price
}
