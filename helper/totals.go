package helper

import (
	"cinema_storefront/constants"
	"cinema_storefront/model"
)

type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	PfandTotal float64 `json:"pfandTotal"`
	Total      float64 `json:"total"`
}

// ComputeTotals sums a checkout. Tax is the VAT share reported on the
// receipt; it is not added to the total.
func ComputeTotals(items []model.ScannedItem, discount float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	pfand := PfandTotal(items)
	return Totals{
		Subtotal:   subtotal,
		Tax:        subtotal * constants.TAX_RATE,
		PfandTotal: pfand,
		Total:      subtotal + pfand - discount,
	}
}

func PfandTotal(items []model.ScannedItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.PfandPrice * float64(item.Quantity)
	}
	return sum
}

// CartTotal is the ticket sum after each seat's selected discount.
func CartTotal(items []model.EnrichedCartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.FinalPrice()
	}
	return sum
}
